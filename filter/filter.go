// Package filter implements the length-scale density filter: a sparse
// distance-weighted averaging operator over elements. Filtering densities and
// sensitivities through it suppresses checkerboard instabilities and enforces a
// minimum feature size of the order of the filter radius in mesh units.
package filter

import (
	"math"

	"github.com/james-bowman/sparse"

	"github.com/topoforge/topopt/mesh"
	"github.com/topoforge/topopt/optimize"
)

// Matrix is the immutable filter operator: weights H with row sums Hs. For an
// ordered element pair (e1, e2) at centroid distance d < radius the weight is
// radius - d, else zero. Built once per grid+radius and shared read-only; the
// same inputs always produce the identical matrix.
type Matrix struct {
	h  *sparse.CSR
	hs []float64
	n  int
}

// New builds the filter matrix for the grid.
func New(g mesh.Grid, radius float64) (*Matrix, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, optimize.Configf("filter_radius", "must be > 0, got %v", radius)
	}

	// Triplets are appended in element scan order, each ordered pair exactly
	// once, so the CSR storage order (and with it every float summation over
	// the weights) is identical from build to build.
	n := g.NumElements()
	coo := sparse.NewCOO(n, n, nil, nil, nil)
	reach := int(math.Ceil(radius))

	nelz := g.Nelz
	if !g.Is3D() {
		nelz = 1
	}
	for k1 := 0; k1 < nelz; k1++ {
		for i1 := 0; i1 < g.Nelx; i1++ {
			for j1 := 0; j1 < g.Nely; j1++ {
				e1 := g.ElementIndex(i1, j1, k1)
				for k2 := max(k1-reach, 0); k2 <= min(k1+reach, nelz-1); k2++ {
					for i2 := max(i1-reach, 0); i2 <= min(i1+reach, g.Nelx-1); i2++ {
						for j2 := max(j1-reach, 0); j2 <= min(j1+reach, g.Nely-1); j2++ {
							di, dj, dk := float64(i1-i2), float64(j1-j2), float64(k1-k2)
							d := math.Sqrt(di*di + dj*dj + dk*dk)
							if d < radius {
								coo.Set(e1, g.ElementIndex(i2, j2, k2), radius-d)
							}
						}
					}
				}
			}
		}
	}

	h := coo.ToCSR()
	hs := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		h.DoRowNonZero(i, func(_, _ int, v float64) { sum += v })
		hs[i] = sum
	}
	return &Matrix{h: h, hs: hs, n: n}, nil
}

// Len returns the element count the filter operates on.
func (m *Matrix) Len() int { return m.n }

// Apply computes dst = (H·src) / Hs, the filtered field. dst and src must both
// have length Len and must not alias.
func (m *Matrix) Apply(dst, src []float64) {
	for i := 0; i < m.n; i++ {
		sum := 0.0
		m.h.DoRowNonZero(i, func(_, j int, v float64) { sum += v * src[j] })
		dst[i] = sum / m.hs[i]
	}
}

// ApplyQuotient computes dst = H·(src/Hs), the form used for sensitivity
// filtering. dst and src must both have length Len and must not alias.
func (m *Matrix) ApplyQuotient(dst, src []float64) {
	for i := 0; i < m.n; i++ {
		sum := 0.0
		m.h.DoRowNonZero(i, func(_, j int, v float64) { sum += v * src[j] / m.hs[j] })
		dst[i] = sum
	}
}

// NNZ returns the number of stored weights.
func (m *Matrix) NNZ() int { return m.h.NNZ() }

// At returns the weight for the ordered element pair (e1, e2).
func (m *Matrix) At(e1, e2 int) float64 { return m.h.At(e1, e2) }

// RowSums returns the row-sum vector Hs. The slice is shared; treat as read-only.
func (m *Matrix) RowSums() []float64 { return m.hs }
