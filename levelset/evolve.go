package levelset

import "math"

// Heaviside is the smoothed step of half-width eps used to project phi onto
// element densities: 0 below -eps, 1 above +eps, a sine-smoothed ramp between.
func Heaviside(v, eps float64) float64 {
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return 0
	default:
		return 0.5 + v/(2*eps) + math.Sin(math.Pi*v/eps)/(2*math.Pi)
	}
}

// Delta is the derivative of Heaviside: the smoothed interface indicator.
func Delta(v, eps float64) float64 {
	if math.Abs(v) > eps {
		return 0
	}
	return 1/(2*eps) + math.Cos(math.Pi*v/eps)/(2*eps)
}

// velocityField maps per-element shape sensitivities onto the nodes:
// v = -(E0-Emin)·ce + lagrange per element, accumulated onto the element's four
// corner nodes, divided by incidence count, then normalized by the max
// magnitude so Dt controls the CFL number.
func (o *Optimizer) velocityField(ce []float64, lagrange float64) []float64 {
	vel := make([]float64, o.nnx*o.nny)
	count := make([]float64, o.nnx*o.nny)
	scale := o.cfg.YoungsModulus - o.cfg.emin()

	for i := 0; i < o.cfg.Grid.Nelx; i++ {
		for j := 0; j < o.cfg.Grid.Nely; j++ {
			el := o.cfg.Grid.ElementIndex(i, j, 0)
			v := -scale*ce[el] + lagrange
			for _, n := range [4]int{o.node(i, j), o.node(i+1, j), o.node(i, j+1), o.node(i+1, j+1)} {
				vel[n] += v
				count[n]++
			}
		}
	}
	for n := range vel {
		if count[n] > 0 {
			vel[n] /= count[n]
		}
	}

	maxVel := 0.0
	for _, v := range vel {
		maxVel = math.Max(maxVel, math.Abs(v))
	}
	if maxVel > 1e-10 {
		for n := range vel {
			vel[n] /= maxVel
		}
	}
	return vel
}

// upwindGradient computes |∇phi| with the Godunov scheme: per axis the forward
// or backward one-sided difference is selected by the sign of the local
// velocity, and the directional contributions combine as the root of the sum
// of squares.
func (o *Optimizer) upwindGradient(phi, vel []float64) []float64 {
	grad := make([]float64, o.nnx*o.nny)
	for i := 0; i < o.nnx; i++ {
		for j := 0; j < o.nny; j++ {
			n := o.node(i, j)

			var dxp, dxm, dyp, dym float64
			if i+1 < o.nnx {
				dxp = phi[o.node(i+1, j)] - phi[n]
			}
			if i > 0 {
				dxm = phi[n] - phi[o.node(i-1, j)]
			}
			if j+1 < o.nny {
				dyp = phi[o.node(i, j+1)] - phi[n]
			}
			if j > 0 {
				dym = phi[n] - phi[o.node(i, j-1)]
			}

			var sq float64
			if vel[n] >= 0 {
				sq = sqr(math.Max(dxm, 0)) + sqr(math.Min(dxp, 0)) +
					sqr(math.Max(dym, 0)) + sqr(math.Min(dyp, 0))
			} else {
				sq = sqr(math.Max(-dxp, 0)) + sqr(math.Min(-dxm, 0)) +
					sqr(math.Max(-dyp, 0)) + sqr(math.Min(-dym, 0))
			}
			grad[n] = math.Sqrt(sq)
		}
	}
	return grad
}

// reinitialize relaxes phi toward a signed-distance function by nIter explicit
// pseudo-time steps of dphi/dtau = sign(phi0)(1-|∇phi|) with central
// differences. The sign field is frozen from the entry state.
func (o *Optimizer) reinitialize(phi []float64, nIter int) {
	const dtau = 0.5

	sign := make([]float64, len(phi))
	for n, v := range phi {
		sign[n] = v / math.Sqrt(v*v+1e-6)
	}

	gradMag := make([]float64, len(phi))
	for it := 0; it < nIter; it++ {
		for i := 0; i < o.nnx; i++ {
			for j := 0; j < o.nny; j++ {
				var dx, dy float64
				if i > 0 && i+1 < o.nnx {
					dx = (phi[o.node(i+1, j)] - phi[o.node(i-1, j)]) / 2
				}
				if j > 0 && j+1 < o.nny {
					dy = (phi[o.node(i, j+1)] - phi[o.node(i, j-1)]) / 2
				}
				gradMag[o.node(i, j)] = math.Sqrt(dx*dx + dy*dy + 1e-10)
			}
		}
		for n := range phi {
			phi[n] -= dtau * sign[n] * (gradMag[n] - 1)
		}
	}
}

func sqr(v float64) float64 { return v * v }
