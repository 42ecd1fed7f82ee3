package levelset

import "github.com/topoforge/topopt/mesh"

// Point is a position in mesh units on the structural boundary.
type Point struct {
	X, Y float64
}

// extractBoundary walks every element edge and linearly interpolates the
// zero crossing of phi wherever the endpoint signs differ.
func extractBoundary(g mesh.Grid, phi []float64) []Point {
	nny := g.Nely + 1
	at := func(i, j int) float64 { return phi[i*nny+j] }

	var points []Point
	for i := 0; i < g.Nelx; i++ {
		for j := 0; j < g.Nely; j++ {
			// Corners in edge order around the element.
			corners := [4]struct {
				v    float64
				x, y float64
			}{
				{at(i, j), float64(i), float64(j)},
				{at(i+1, j), float64(i + 1), float64(j)},
				{at(i+1, j+1), float64(i + 1), float64(j + 1)},
				{at(i, j+1), float64(i), float64(j + 1)},
			}
			for k := 0; k < 4; k++ {
				p1 := corners[k]
				p2 := corners[(k+1)%4]
				if p1.v*p2.v < 0 {
					t := -p1.v / (p2.v - p1.v)
					points = append(points, Point{
						X: p1.x + t*(p2.x-p1.x),
						Y: p1.y + t*(p2.y-p1.y),
					})
				}
			}
		}
	}
	return points
}
