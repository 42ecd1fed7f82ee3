package levelset

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/topoforge/topopt/element"
	"github.com/topoforge/topopt/mesh"
	"github.com/topoforge/topopt/optimize"
	"github.com/topoforge/topopt/solve"
)

// heavisideEps is the half-width of the smoothed Heaviside projecting phi onto
// element densities.
const heavisideEps = 1.0

// Optimizer runs level-set compliance minimization on a fixed 2D grid. The DOF
// connectivity and reference stiffness are immutable for its lifetime; the
// nodal phi field is exclusively owned and evolved in place.
type Optimizer struct {
	cfg  Config
	conn *mesh.Connectivity
	ke   *mat.Dense

	nnx, nny int // nodal grid shape (nelx+1, nely+1)
	phi      []float64
}

// New validates the configuration, builds the immutable operators and seeds
// phi with the periodic hole pattern, guaranteeing both signs are present from
// iteration 0.
func New(cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Optimizer{
		cfg:  cfg,
		conn: mesh.NewConnectivity(cfg.Grid),
		ke:   element.Quad4(cfg.PoissonsRatio),
		nnx:  cfg.Grid.Nelx + 1,
		nny:  cfg.Grid.Nely + 1,
	}
	o.phi = o.initialPhi()
	return o, nil
}

// node maps nodal grid coordinates to the phi index.
func (o *Optimizer) node(i, j int) int { return i*o.nny + j }

// initialPhi seeds a periodic pattern of circular holes:
// phi = min over holes of (distance to center - hole radius), capped at 1.
func (o *Optimizer) initialPhi() []float64 {
	nelx, nely := o.cfg.Grid.Nelx, o.cfg.Grid.Nely
	phi := make([]float64, o.nnx*o.nny)
	for n := range phi {
		phi[n] = 1
	}

	holeRadius := 0.25 * float64(min(nelx, nely)) / 3
	nxHoles := max(1, nelx/20)
	nyHoles := max(1, nely/10)
	spacingX := float64(nelx) / float64(nxHoles+1)
	spacingY := float64(nely) / float64(nyHoles+1)

	for hi := 1; hi <= nxHoles; hi++ {
		for hj := 1; hj <= nyHoles; hj++ {
			cx := float64(hi) * spacingX
			cy := float64(hj) * spacingY
			for i := 0; i < o.nnx; i++ {
				for j := 0; j < o.nny; j++ {
					dx := float64(i) - cx
					dy := float64(j) - cy
					d := math.Sqrt(dx*dx+dy*dy) - holeRadius
					n := o.node(i, j)
					phi[n] = math.Min(phi[n], d)
				}
			}
		}
	}
	return phi
}

// Config returns the configuration the optimizer was built with.
func (o *Optimizer) Config() Config { return o.cfg }

// Phi returns a copy of the current nodal level-set field, laid out as
// phi[i*(nely+1)+j].
func (o *Optimizer) Phi() []float64 {
	out := make([]float64, len(o.phi))
	copy(out, o.phi)
	return out
}

// Reset restores the initial hole-pattern phi. Without Reset a subsequent
// Optimize call continues from the field the previous run ended on.
func (o *Optimizer) Reset() { o.phi = o.initialPhi() }

// densities projects nodal phi onto element densities: phi averaged over the
// element's four corners, then passed through the smoothed Heaviside.
func (o *Optimizer) densities(dst, phi []float64) {
	for i := 0; i < o.cfg.Grid.Nelx; i++ {
		for j := 0; j < o.cfg.Grid.Nely; j++ {
			avg := 0.25 * (phi[o.node(i, j)] + phi[o.node(i+1, j)] +
				phi[o.node(i, j+1)] + phi[o.node(i+1, j+1)])
			dst[o.cfg.Grid.ElementIndex(i, j, 0)] = Heaviside(avg, heavisideEps)
		}
	}
}

// Boundary extracts the zero contour of the current phi as a polyline of
// edge-interpolated points.
func (o *Optimizer) Boundary() []Point {
	return extractBoundary(o.cfg.Grid, o.phi)
}

// Optimize runs the level-set loop: project phi to densities, assemble/solve
// with the ersatz interpolation, build the shape-velocity field, take an
// explicit upwind Hamilton-Jacobi step, and reinitialize periodically.
// Convergence is max|dphi|/max|phi| below the tolerance; hitting the iteration
// cap is a normal terminal state (Converged=false), not an error. The context
// and the callback's return value are checked once per iteration; on
// cancellation a best-effort Result with Converged=false is returned. cb may
// be nil. The volume constraint is steered by a constant +/-1 bang-bang term
// chosen by the sign of the current volume error, not a solved multiplier.
func (o *Optimizer) Optimize(ctx context.Context, force []float64, fixed []int, cb optimize.Callback) (*Result, error) {
	nel := o.cfg.Grid.NumElements()
	e0, emin := o.cfg.YoungsModulus, o.cfg.emin()

	x := make([]float64, nel)
	moduli := make([]float64, nel)
	ce := make([]float64, nel)
	phiOld := make([]float64, len(o.phi))
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

		o.densities(x, o.phi)
		for i, xi := range x {
			moduli[i] = emin + xi*(e0-emin)
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

		// Bang-bang volume control: push material out when over target, pull
		// it in when under.
		lagrange := 0.0
		volume := floats.Sum(x) / float64(nel)
		if volume > o.cfg.VolumeFraction {
			lagrange = 1
		} else if volume < o.cfg.VolumeFraction {
			lagrange = -1
		}

		vel := o.velocityField(ce, lagrange)
		grad := o.upwindGradient(o.phi, vel)

		copy(phiOld, o.phi)
		for n := range o.phi {
			o.phi[n] -= o.cfg.Dt * vel[n] * grad[n]
		}

		if loop%o.cfg.ReinitInterval == 0 {
			o.reinitialize(o.phi, 5)
		}

		maxDelta, maxPhi := 0.0, 0.0
		for n := range o.phi {
			maxDelta = math.Max(maxDelta, math.Abs(o.phi[n]-phiOld[n]))
			maxPhi = math.Max(maxPhi, math.Abs(o.phi[n]))
		}
		change = maxDelta / (maxPhi + 1e-10)

		if cb != nil && !cb(loop, compliance, o.phi) {
			cancelled = true
			break
		}
	}

	o.densities(x, o.phi)
	res := &Result{
		Grid:           o.cfg.Grid,
		Phi:            append([]float64(nil), o.phi...),
		Densities:      append([]float64(nil), x...),
		VolumeFraction: floats.Sum(x) / float64(nel),
		Iterations:     loop,
		Converged:      !cancelled && change <= o.cfg.Tolerance,
		History:        history,
	}
	if len(history) > 0 {
		res.Compliance = history[len(history)-1]
	}
	return res, nil
}
