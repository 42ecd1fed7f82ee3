package simp

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/topoforge/topopt/element"
	"github.com/topoforge/topopt/filter"
	"github.com/topoforge/topopt/mesh"
	"github.com/topoforge/topopt/optimize"
	"github.com/topoforge/topopt/solve"
)

// Optimizer runs SIMP compliance minimization on a fixed grid. The filter
// matrix, DOF connectivity and reference stiffness are built once at
// construction and are immutable for the optimizer's lifetime; the raw density
// field is exclusively owned and mutated in place across iterations.
type Optimizer struct {
	cfg  Config
	conn *mesh.Connectivity
	filt *filter.Matrix
	ke   *mat.Dense

	x []float64 // raw design densities, one per element
}

// New validates the configuration and builds the immutable operators.
func New(cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filt, err := filter.New(cfg.Grid, cfg.FilterRadius)
	if err != nil {
		return nil, err
	}
	ke := element.Quad4(cfg.PoissonsRatio)
	if cfg.Grid.Is3D() {
		ke = element.Hex8(cfg.PoissonsRatio)
	}
	o := &Optimizer{
		cfg:  cfg,
		conn: mesh.NewConnectivity(cfg.Grid),
		filt: filt,
		ke:   ke,
		x:    make([]float64, cfg.Grid.NumElements()),
	}
	o.Reset()
	return o, nil
}

// Config returns the configuration the optimizer was built with.
func (o *Optimizer) Config() Config { return o.cfg }

// Reset restores the uniform initial field at the target volume fraction.
// A subsequent Optimize call starts from scratch; without Reset it continues
// from the field the previous run ended on.
func (o *Optimizer) Reset() {
	for i := range o.x {
		o.x[i] = o.cfg.VolumeFraction
	}
}

// Density returns a copy of the current raw design densities.
func (o *Optimizer) Density() []float64 {
	out := make([]float64, len(o.x))
	copy(out, o.x)
	return out
}

// Optimize runs the SIMP loop: filter, assemble/solve, sensitivities, OC
// update, until the max per-element density change drops below the tolerance
// or the iteration cap is reached. Hitting the cap is a normal terminal state
// (Converged=false), not an error. The context and the callback's return value
// are checked once per iteration; on cancellation a best-effort Result with
// Converged=false is returned. cb may be nil.
func (o *Optimizer) Optimize(ctx context.Context, force []float64, fixed []int, cb optimize.Callback) (*Result, error) {
	n := o.cfg.Grid.NumElements()
	e0, emin, p := o.cfg.YoungsModulus, o.cfg.emin(), o.cfg.Penalty

	xPhys := make([]float64, n)
	moduli := make([]float64, n)
	ce := make([]float64, n)
	dc := make([]float64, n)
	dv := make([]float64, n)
	dcf := make([]float64, n)
	dvf := make([]float64, n)
	var history []float64

	change := math.Inf(1)
	loop := 0
	cancelled := false

	for change > o.cfg.Tolerance && loop < o.cfg.MaxIterations {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		loop++

		// Physical densities and interpolated moduli.
		o.filt.Apply(xPhys, o.x)
		for i, xp := range xPhys {
			moduli[i] = emin + math.Pow(xp, p)*(e0-emin)
		}

		u, err := solve.Displacements(o.conn, o.ke, moduli, force, fixed)
		if err != nil {
			return nil, &optimize.SolveError{Iteration: loop, Err: err}
		}
		solve.ElementCompliances(ce, o.conn, o.ke, u)

		compliance := 0.0
		for i := range ce {
			compliance += moduli[i] * ce[i]
		}
		history = append(history, compliance)

		// Compliance and volume sensitivities, both filtered.
		for i, xp := range xPhys {
			dc[i] = -p * (e0 - emin) * math.Pow(xp, p-1) * ce[i]
			dv[i] = 1
		}
		o.filt.ApplyQuotient(dcf, dc)
		o.filt.ApplyQuotient(dvf, dv)

		xnew := ocUpdate(o.x, dcf, dvf, o.filt, o.cfg)
		change = 0
		for i := range xnew {
			change = math.Max(change, math.Abs(xnew[i]-o.x[i]))
		}
		copy(o.x, xnew)

		if cb != nil && !cb(loop, compliance, xPhys) {
			cancelled = true
			break
		}
	}

	o.filt.Apply(xPhys, o.x)
	res := &Result{
		Grid:           o.cfg.Grid,
		Densities:      append([]float64(nil), xPhys...),
		VolumeFraction: floats.Sum(xPhys) / float64(n),
		Iterations:     loop,
		Converged:      !cancelled && change <= o.cfg.Tolerance,
		History:        history,
	}
	if len(history) > 0 {
		res.Compliance = history[len(history)-1]
	}
	return res, nil
}
