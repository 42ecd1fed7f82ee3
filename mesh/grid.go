// Package mesh maps a rectangular grid of elements to node and degree-of-freedom
// numbering. The numbering convention defined here is the single source of truth:
// boundary conditions, force vectors, stiffness assembly and result extraction all
// index through it, so it is computed once and reused verbatim.
//
// Convention (matching the 2D layout node = (nely+1)*elx + ely, with the layered
// analogue in 3D):
//
//	2D: element = elx*nely + ely, node = (nely+1)*elx + ely, DOFs = 2n, 2n+1
//	3D: element = elz*nelx*nely + elx*nely + ely,
//	    node = elz*(nelx+1)*(nely+1) + elx*(nely+1) + ely, DOFs = 3n .. 3n+2
package mesh

import "github.com/topoforge/topopt/optimize"

// Grid is the element resolution of the design space. Nelz == 1 selects the 2D
// plane-stress discretization; Nelz > 1 the 3D hexahedral one.
type Grid struct {
	Nelx int // elements along x
	Nely int // elements along y
	Nelz int // elements along z (1 for 2D)
}

// Grid2D returns a 2D grid of nelx by nely elements.
func Grid2D(nelx, nely int) Grid { return Grid{Nelx: nelx, Nely: nely, Nelz: 1} }

// Grid3D returns a 3D grid of nelx by nely by nelz elements.
func Grid3D(nelx, nely, nelz int) Grid { return Grid{Nelx: nelx, Nely: nely, Nelz: nelz} }

// Validate checks the grid invariant: every dimension at least 1.
func (g Grid) Validate() error {
	switch {
	case g.Nelx < 1:
		return optimize.Configf("nelx", "must be >= 1, got %d", g.Nelx)
	case g.Nely < 1:
		return optimize.Configf("nely", "must be >= 1, got %d", g.Nely)
	case g.Nelz < 1:
		return optimize.Configf("nelz", "must be >= 1, got %d", g.Nelz)
	}
	return nil
}

// Is3D reports whether the grid has depth.
func (g Grid) Is3D() bool { return g.Nelz > 1 }

// NumElements is the total element count.
func (g Grid) NumElements() int { return g.Nelx * g.Nely * g.Nelz }

// NumNodes is the total node count.
func (g Grid) NumNodes() int {
	if g.Is3D() {
		return (g.Nelx + 1) * (g.Nely + 1) * (g.Nelz + 1)
	}
	return (g.Nelx + 1) * (g.Nely + 1)
}

// DOFsPerNode is 2 in 2D (ux, uy) and 3 in 3D (ux, uy, uz).
func (g Grid) DOFsPerNode() int {
	if g.Is3D() {
		return 3
	}
	return 2
}

// NumDOFs is the total number of displacement unknowns before constraints.
func (g Grid) NumDOFs() int { return g.DOFsPerNode() * g.NumNodes() }

// DOFsPerElement is 8 for quad4 and 24 for hex8.
func (g Grid) DOFsPerElement() int {
	if g.Is3D() {
		return 24
	}
	return 8
}

// ElementIndex maps grid coordinates to the element index. ez is ignored in 2D.
func (g Grid) ElementIndex(ex, ey, ez int) int {
	if g.Is3D() {
		return ez*g.Nelx*g.Nely + ex*g.Nely + ey
	}
	return ex*g.Nely + ey
}
