// Package levelset implements boundary-tracking topology optimization: the
// structural boundary is the zero contour of a nodal level-set function phi,
// advected by a Hamilton-Jacobi evolution along a compliance-derived velocity
// field with periodic reinitialization toward a signed-distance function. Void
// regions carry a soft ersatz stiffness so the global system stays regular.
package levelset

import (
	"github.com/topoforge/topopt/mesh"
	"github.com/topoforge/topopt/optimize"
)

// Config parameterizes a level-set run. The method is 2D only.
type Config struct {
	Grid mesh.Grid

	VolumeFraction float64 // target material fraction, in (0,1)
	Dt             float64 // Hamilton-Jacobi time step, > 0
	ReinitInterval int     // iterations between reinitializations, > 0
	MaxIterations  int
	Tolerance      float64 // convergence threshold on max|dphi|/max|phi|

	YoungsModulus   float64 // E0, modulus of solid material
	PoissonsRatio   float64 // in (0, 0.5)
	ErsatzStiffness float64 // void stiffness as a fraction of E0, in (0,1)
}

// DefaultConfig returns the standard parameter set for the grid.
func DefaultConfig(g mesh.Grid) Config {
	return Config{
		Grid:            g,
		VolumeFraction:  0.3,
		Dt:              0.5,
		ReinitInterval:  5,
		MaxIterations:   200,
		Tolerance:       0.01,
		YoungsModulus:   1.0,
		PoissonsRatio:   0.3,
		ErsatzStiffness: 1e-3,
	}
}

// Validate range-checks every field.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	switch {
	case c.Grid.Is3D():
		return optimize.Configf("grid", "level-set optimization supports 2D grids only, got nelz=%d", c.Grid.Nelz)
	case c.VolumeFraction <= 0 || c.VolumeFraction >= 1:
		return optimize.Configf("volume_fraction", "must be in (0,1), got %v", c.VolumeFraction)
	case c.Dt <= 0:
		return optimize.Configf("dt", "must be > 0, got %v", c.Dt)
	case c.ReinitInterval <= 0:
		return optimize.Configf("reinit_interval", "must be > 0, got %d", c.ReinitInterval)
	case c.MaxIterations <= 0:
		return optimize.Configf("max_iterations", "must be > 0, got %d", c.MaxIterations)
	case c.Tolerance <= 0:
		return optimize.Configf("tolerance", "must be > 0, got %v", c.Tolerance)
	case c.YoungsModulus <= 0:
		return optimize.Configf("youngs_modulus", "must be > 0, got %v", c.YoungsModulus)
	case c.PoissonsRatio <= 0 || c.PoissonsRatio >= 0.5:
		return optimize.Configf("poissons_ratio", "must be in (0,0.5), got %v", c.PoissonsRatio)
	case c.ErsatzStiffness <= 0 || c.ErsatzStiffness >= 1:
		return optimize.Configf("ersatz_stiffness", "must be in (0,1), got %v", c.ErsatzStiffness)
	}
	return nil
}

// emin is the ersatz modulus assigned to void.
func (c Config) emin() float64 { return c.ErsatzStiffness * c.YoungsModulus }
