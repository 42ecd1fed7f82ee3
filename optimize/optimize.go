// Package optimize holds the types shared by the SIMP and level-set optimizers:
// the progress callback signature and the error taxonomy. Both optimizers reject
// bad configuration with a *ConfigError before their first iteration and surface
// linear-solve failures as a *SolveError carrying the iteration index.
package optimize

import "fmt"

// Callback observes a completed iteration. field is the optimizer's working
// field (physical densities for SIMP, nodal phi for level-set) and must not be
// mutated or retained past the call. Returning false cancels the run; the
// optimizer then returns a best-effort Result with Converged=false.
type Callback func(iteration int, objective float64, field []float64) bool

// ConfigError reports a configuration rejected at optimizer construction.
// No iteration runs after a ConfigError.
type ConfigError struct {
	Field  string // offending configuration field
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("topopt: invalid configuration: %s %s", e.Field, e.Reason)
}

// Configf builds a ConfigError for the named field.
func Configf(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SolveError reports a failed or singular reduced linear system. The run halts
// and no field from the failed iteration is returned as final. Retry only after
// adjusting the configuration or boundary conditions.
type SolveError struct {
	Iteration int
	Err       error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("topopt: linear solve failed at iteration %d: %v", e.Iteration, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
