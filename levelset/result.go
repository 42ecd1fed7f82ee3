package levelset

import "github.com/topoforge/topopt/mesh"

// Result is the immutable terminal snapshot of a run. Slices are copies of the
// optimizer's working state; reusing the optimizer cannot mutate them.
type Result struct {
	Grid           mesh.Grid
	Phi            []float64 // final nodal level-set field, phi[i*(nely+1)+j]
	Densities      []float64 // Heaviside-projected element densities
	Compliance     float64
	VolumeFraction float64
	Iterations     int
	Converged      bool
	History        []float64 // compliance per completed iteration
}

// PhiAt returns the level-set value at nodal grid coordinates.
func (r *Result) PhiAt(i, j int) float64 {
	return r.Phi[i*(r.Grid.Nely+1)+j]
}

// Boundary extracts the zero contour of the final phi as a polyline of
// edge-interpolated points, for downstream geometry export.
func (r *Result) Boundary() []Point {
	return extractBoundary(r.Grid, r.Phi)
}
