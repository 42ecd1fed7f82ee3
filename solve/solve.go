// Package solve assembles the global stiffness matrix from a per-element
// modulus field and solves the reduced (free-DOF) linear system for nodal
// displacements. Element contributions are accumulated directly into the
// reduced symmetric matrix, the system is factorized by Cholesky, and a failed
// factorization surfaces as ErrSingular rather than propagating NaNs.
package solve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/topoforge/topopt/mesh"
)

var (
	// ErrUnconstrained reports an empty fixed-DOF set: the structure admits
	// rigid-body motion and the system is singular by construction.
	ErrUnconstrained = errors.New("solve: empty fixed-DOF set, structure is unconstrained")

	// ErrSingular reports a reduced stiffness matrix that is singular or not
	// positive definite.
	ErrSingular = errors.New("solve: reduced stiffness matrix is not positive definite")
)

// Displacements solves K·u = f with the given fixed DOFs prescribed to zero.
// The global matrix is assembled by scaling the reference stiffness ke of every
// element by moduli[e]. The returned vector holds all DOFs; fixed entries are
// exactly zero.
func Displacements(conn *mesh.Connectivity, ke *mat.Dense, moduli, force []float64, fixed []int) ([]float64, error) {
	g := conn.Grid()
	ndofs := g.NumDOFs()
	if len(moduli) != g.NumElements() {
		return nil, fmt.Errorf("solve: moduli length %d does not match %d elements", len(moduli), g.NumElements())
	}
	if len(force) != ndofs {
		return nil, fmt.Errorf("solve: force length %d does not match %d DOFs", len(force), ndofs)
	}
	if len(fixed) == 0 {
		return nil, ErrUnconstrained
	}

	// Partition DOFs: reduced[d] is the index of d within the free set, -1 if fixed.
	reduced := make([]int, ndofs)
	for _, d := range fixed {
		if d < 0 || d >= ndofs {
			return nil, fmt.Errorf("solve: fixed DOF %d out of range [0,%d)", d, ndofs)
		}
		reduced[d] = -1
	}
	free := make([]int, 0, ndofs-len(fixed))
	for d := 0; d < ndofs; d++ {
		if reduced[d] < 0 {
			continue
		}
		reduced[d] = len(free)
		free = append(free, d)
	}

	u := make([]float64, ndofs)
	nfree := len(free)
	if nfree == 0 {
		// Everything prescribed; displacements are the prescribed zeros.
		return u, nil
	}

	// Accumulate the reduced system in place, upper triangle only: a DOF pair
	// shared between elements must receive every element's contribution.
	kff := mat.NewSymDense(nfree, nil)
	nde := g.DOFsPerElement()
	for e := 0; e < g.NumElements(); e++ {
		dofs := conn.ElementDOFs(e)
		for p := 0; p < nde; p++ {
			gi := reduced[dofs[p]]
			if gi < 0 {
				continue
			}
			for q := 0; q < nde; q++ {
				gj := reduced[dofs[q]]
				if gj < gi {
					continue
				}
				kff.SetSym(gi, gj, kff.At(gi, gj)+moduli[e]*ke.At(p, q))
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(kff); !ok {
		return nil, ErrSingular
	}

	ff := mat.NewVecDense(nfree, nil)
	for i, d := range free {
		ff.SetVec(i, force[d])
	}
	var uf mat.VecDense
	if err := chol.SolveVecTo(&uf, ff); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for i, d := range free {
		u[d] = uf.AtVec(i)
	}
	return u, nil
}
