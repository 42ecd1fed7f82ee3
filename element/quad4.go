// Package element provides the reference (unit Young's modulus) stiffness
// matrices for the two element types used by the optimizers: the bilinear quad4
// in plane stress and the trilinear hex8. Each matrix is independent of density
// and is computed exactly once; assembly scales it per element by the
// interpolated modulus.
package element

import "gonum.org/v1/gonum/mat"

// quad4Pattern gives, for each entry (i,j) of the 8×8 matrix, the index into the
// closed-form coefficient vector k. The matrix is symmetric with circulant-like
// block structure.
var quad4Pattern = [8][8]int{
	{0, 1, 2, 3, 4, 5, 6, 7},
	{1, 0, 7, 6, 5, 4, 3, 2},
	{2, 7, 0, 5, 6, 3, 4, 1},
	{3, 6, 5, 0, 7, 2, 1, 4},
	{4, 5, 6, 7, 0, 1, 2, 3},
	{5, 4, 3, 2, 1, 0, 7, 6},
	{6, 3, 4, 1, 2, 7, 0, 5},
	{7, 2, 1, 4, 3, 6, 5, 0},
}

// Quad4 returns the 8×8 plane-stress stiffness matrix of a unit-modulus bilinear
// quadrilateral for the given Poisson ratio.
func Quad4(nu float64) *mat.Dense {
	k := [8]float64{
		1.0/2 - nu/6,
		1.0/8 + nu/8,
		-1.0/4 - nu/12,
		-1.0/8 + 3*nu/8,
		-1.0/4 + nu/12,
		-1.0/8 - nu/8,
		nu / 6,
		1.0/8 - 3*nu/8,
	}
	scale := 1 / (1 - nu*nu)
	ke := mat.NewDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			ke.Set(i, j, scale*k[quad4Pattern[i][j]])
		}
	}
	return ke
}
