package element

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Hex8 returns the 24×24 stiffness matrix of a unit-modulus 8-node hexahedron,
// assembled by 2-point-per-axis Gauss quadrature of Bᵀ·D·B over a reference unit
// cube (uniform Jacobian J = I/2).
func Hex8(nu float64) *mat.Dense {
	d := constitutive3D(nu)
	ke := mat.NewDense(24, 24, nil)

	gp := 1.0 / math.Sqrt(3.0)
	pts := [2]float64{-gp, gp}

	var bd, bdb mat.Dense
	for _, xi := range pts {
		for _, eta := range pts {
			for _, zeta := range pts {
				b := strainDisplacement(xi, eta, zeta)
				bd.Mul(b.T(), d)
				bdb.Mul(&bd, b)
				ke.Add(ke, &bdb) // unit Gauss weights
			}
		}
	}
	return ke
}

// constitutive3D builds the 6×6 isotropic constitutive matrix for unit Young's
// modulus.
func constitutive3D(nu float64) *mat.Dense {
	a := (1 - nu) / ((1 + nu) * (1 - 2*nu))
	b := nu / ((1 + nu) * (1 - 2*nu))
	c := 1 / (2 * (1 + nu))
	return mat.NewDense(6, 6, []float64{
		a, b, b, 0, 0, 0,
		b, a, b, 0, 0, 0,
		b, b, a, 0, 0, 0,
		0, 0, 0, c, 0, 0,
		0, 0, 0, 0, c, 0,
		0, 0, 0, 0, 0, c,
	})
}

// strainDisplacement evaluates the 6×24 B matrix of the hex8 element at natural
// coordinates (xi, eta, zeta). With the unit-cube Jacobian J = I/2, physical
// shape-function derivatives are twice the natural ones.
func strainDisplacement(xi, eta, zeta float64) *mat.Dense {
	// Trilinear shape-function derivatives at the standard hex8 corner order.
	dxi := [8]float64{
		-(1 - eta) * (1 - zeta), (1 - eta) * (1 - zeta),
		(1 + eta) * (1 - zeta), -(1 + eta) * (1 - zeta),
		-(1 - eta) * (1 + zeta), (1 - eta) * (1 + zeta),
		(1 + eta) * (1 + zeta), -(1 + eta) * (1 + zeta),
	}
	deta := [8]float64{
		-(1 - xi) * (1 - zeta), -(1 + xi) * (1 - zeta),
		(1 + xi) * (1 - zeta), (1 - xi) * (1 - zeta),
		-(1 - xi) * (1 + zeta), -(1 + xi) * (1 + zeta),
		(1 + xi) * (1 + zeta), (1 - xi) * (1 + zeta),
	}
	dzeta := [8]float64{
		-(1 - xi) * (1 - eta), -(1 + xi) * (1 - eta),
		-(1 + xi) * (1 + eta), -(1 - xi) * (1 + eta),
		(1 - xi) * (1 - eta), (1 + xi) * (1 - eta),
		(1 + xi) * (1 + eta), (1 - xi) * (1 + eta),
	}

	b := mat.NewDense(6, 24, nil)
	for n := 0; n < 8; n++ {
		// J = I/2, so dN/dx = 2 * dN/dxi / 8.
		dx := 2 * dxi[n] / 8
		dy := 2 * deta[n] / 8
		dz := 2 * dzeta[n] / 8

		b.Set(0, 3*n, dx)
		b.Set(1, 3*n+1, dy)
		b.Set(2, 3*n+2, dz)
		b.Set(3, 3*n, dy)
		b.Set(3, 3*n+1, dx)
		b.Set(4, 3*n+1, dz)
		b.Set(4, 3*n+2, dy)
		b.Set(5, 3*n, dz)
		b.Set(5, 3*n+2, dx)
	}
	return b
}
