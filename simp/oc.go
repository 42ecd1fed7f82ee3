package simp

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/topoforge/topopt/filter"
)

// ocUpdate computes the Optimality-Criteria density update by bisecting the
// volume-constraint Lagrange multiplier over the configured bracket. Each trial
// clamps the fixed-point step x·sqrt(-dc/dv/λ) to the move limit and to
// [minDensity, 1], then checks the filtered volume of the trial field against
// the target. The returned slice is freshly allocated.
func ocUpdate(x, dc, dv []float64, filt *filter.Matrix, cfg Config) []float64 {
	n := len(x)
	xnew := make([]float64, n)
	phys := make([]float64, n)
	target := cfg.VolumeFraction * float64(n)
	move := cfg.MoveLimit

	l1, l2 := cfg.OC.LambdaMin, cfg.OC.LambdaMax
	for (l2-l1)/(l1+l2) > cfg.OC.Tolerance {
		lmid := 0.5 * (l1 + l2)
		for i := range x {
			step := x[i] * math.Sqrt(-dc[i]/dv[i]/lmid)
			step = math.Min(step, x[i]+move)
			step = math.Min(step, 1)
			step = math.Max(step, x[i]-move)
			xnew[i] = math.Max(step, cfg.MinDensity)
		}
		filt.Apply(phys, xnew)
		if floats.Sum(phys) > target {
			l1 = lmid
		} else {
			l2 = lmid
		}
	}
	return xnew
}
