// Package simp implements density-based topology optimization with SIMP
// (Solid Isotropic Material with Penalization): power-law density-to-stiffness
// interpolation, length-scale filtering, and an Optimality-Criteria fixed-point
// density update solved by bisection on a Lagrange multiplier.
package simp

import (
	"github.com/topoforge/topopt/mesh"
	"github.com/topoforge/topopt/optimize"
)

// OCOptions bounds the bisection search for the Lagrange multiplier of the
// volume constraint in the Optimality-Criteria update.
type OCOptions struct {
	LambdaMin float64 // lower bracket of the multiplier search
	LambdaMax float64 // upper bracket of the multiplier search
	Tolerance float64 // relative bracket width at which the bisection stops
}

// DefaultOCOptions returns the standard bracket [0, 1e9] with relative
// tolerance 1e-3.
func DefaultOCOptions() OCOptions {
	return OCOptions{LambdaMin: 0, LambdaMax: 1e9, Tolerance: 1e-3}
}

// Config parameterizes a SIMP run. Validate rejects out-of-range values before
// any iteration executes.
type Config struct {
	Grid mesh.Grid

	VolumeFraction float64 // target material fraction, in (0,1)
	Penalty        float64 // SIMP penalization exponent, >= 1
	FilterRadius   float64 // length-scale filter radius in mesh units, > 0
	MoveLimit      float64 // per-iteration density change bound, in (0,1]
	MaxIterations  int
	Tolerance      float64 // convergence threshold on max per-element change

	YoungsModulus float64 // E0, modulus of solid material
	PoissonsRatio float64 // in (0, 0.5)
	MinDensity    float64 // density floor keeping the stiffness matrix regular

	OC OCOptions
}

// DefaultConfig returns the standard parameter set for the grid.
func DefaultConfig(g mesh.Grid) Config {
	return Config{
		Grid:           g,
		VolumeFraction: 0.3,
		Penalty:        3.0,
		FilterRadius:   1.5,
		MoveLimit:      0.2,
		MaxIterations:  200,
		Tolerance:      0.01,
		YoungsModulus:  1.0,
		PoissonsRatio:  0.3,
		MinDensity:     1e-3,
		OC:             DefaultOCOptions(),
	}
}

// Validate range-checks every field.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	switch {
	case c.VolumeFraction <= 0 || c.VolumeFraction >= 1:
		return optimize.Configf("volume_fraction", "must be in (0,1), got %v", c.VolumeFraction)
	case c.Penalty < 1:
		return optimize.Configf("penalty", "must be >= 1, got %v", c.Penalty)
	case c.FilterRadius <= 0:
		return optimize.Configf("filter_radius", "must be > 0, got %v", c.FilterRadius)
	case c.MoveLimit <= 0 || c.MoveLimit > 1:
		return optimize.Configf("move_limit", "must be in (0,1], got %v", c.MoveLimit)
	case c.MaxIterations <= 0:
		return optimize.Configf("max_iterations", "must be > 0, got %d", c.MaxIterations)
	case c.Tolerance <= 0:
		return optimize.Configf("tolerance", "must be > 0, got %v", c.Tolerance)
	case c.YoungsModulus <= 0:
		return optimize.Configf("youngs_modulus", "must be > 0, got %v", c.YoungsModulus)
	case c.PoissonsRatio <= 0 || c.PoissonsRatio >= 0.5:
		return optimize.Configf("poissons_ratio", "must be in (0,0.5), got %v", c.PoissonsRatio)
	case c.MinDensity <= 0 || c.MinDensity >= 1:
		return optimize.Configf("min_density", "must be in (0,1), got %v", c.MinDensity)
	case c.OC.LambdaMin < 0 || c.OC.LambdaMax <= c.OC.LambdaMin:
		return optimize.Configf("oc", "bracket [%v,%v] is not a valid multiplier range", c.OC.LambdaMin, c.OC.LambdaMax)
	case c.OC.Tolerance <= 0:
		return optimize.Configf("oc", "bisection tolerance must be > 0, got %v", c.OC.Tolerance)
	}
	return nil
}

// emin is the modulus assigned at the density floor.
func (c Config) emin() float64 { return c.MinDensity * c.YoungsModulus }
