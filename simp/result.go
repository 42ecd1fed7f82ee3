package simp

import "github.com/topoforge/topopt/mesh"

// Result is the immutable terminal snapshot of a run. Slices are copies of the
// optimizer's working state; reusing the optimizer cannot mutate them.
type Result struct {
	Grid           mesh.Grid
	Densities      []float64 // final physical (filtered) densities, one per element
	Compliance     float64
	VolumeFraction float64
	Iterations     int
	Converged      bool
	History        []float64 // compliance per completed iteration
}

// DensityAt returns the physical density of the element at grid coordinates.
// iz is ignored for 2D grids.
func (r *Result) DensityAt(ix, iy, iz int) float64 {
	return r.Densities[r.Grid.ElementIndex(ix, iy, iz)]
}

// DensityGrid reshapes the 2D density field to [nelx][nely]. For 3D grids use
// DensityAt.
func (r *Result) DensityGrid() [][]float64 {
	if r.Grid.Is3D() {
		return nil
	}
	out := make([][]float64, r.Grid.Nelx)
	for ix := range out {
		out[ix] = make([]float64, r.Grid.Nely)
		for iy := range out[ix] {
			out[ix][iy] = r.Densities[r.Grid.ElementIndex(ix, iy, 0)]
		}
	}
	return out
}
