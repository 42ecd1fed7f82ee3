package solve

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/topoforge/topopt/mesh"
)

// ElementCompliances fills dst with the per-element strain-energy density
// ce[e] = ueᵀ·KE·ue, where ue gathers the element's displacements from u.
// Elements are independent, so the loop is chunked across worker goroutines;
// the caller's iteration order is unaffected.
func ElementCompliances(dst []float64, conn *mesh.Connectivity, ke *mat.Dense, u []float64) {
	g := conn.Grid()
	nel := g.NumElements()
	nde := g.DOFsPerElement()

	workers := runtime.GOMAXPROCS(0)
	if workers > nel {
		workers = nel
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (nel + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, nel)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			ue := make([]float64, nde)
			for e := lo; e < hi; e++ {
				dofs := conn.ElementDOFs(e)
				for p, d := range dofs {
					ue[p] = u[d]
				}
				ce := 0.0
				for p := 0; p < nde; p++ {
					row := 0.0
					for q := 0; q < nde; q++ {
						row += ke.At(p, q) * ue[q]
					}
					ce += ue[p] * row
				}
				dst[e] = ce
			}
		}(lo, hi)
	}
	wg.Wait()
}
