package simp

import "github.com/topoforge/topopt/mesh"

// CantileverProblem builds the canonical 2D cantilever benchmark: a unit
// downward load at mid-height of the right edge and a fully fixed left edge.
// Returns the optimizer together with the force vector and fixed-DOF set to
// pass to Optimize.
func CantileverProblem(nelx, nely int, volumeFraction float64) (*Optimizer, []float64, []int, error) {
	cfg := DefaultConfig(mesh.Grid2D(nelx, nely))
	cfg.VolumeFraction = volumeFraction

	opt, err := New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	ndof := cfg.Grid.NumDOFs()
	force := make([]float64, ndof)
	force[ndof-nely-1] = -1.0

	fixed := make([]int, 0, 2*(nely+1))
	for i := 0; i <= nely; i++ {
		fixed = append(fixed, 2*i, 2*i+1)
	}
	return opt, force, fixed, nil
}
