package thermal

import "errors"

// Domain errors for heating simulations.
var (
	// ErrInvalidParameter indicates a parameter outside its physically
	// meaningful range.
	ErrInvalidParameter = errors.New("thermal: invalid parameter")

	// ErrNonFiniteRise indicates the per-step temperature rise evaluated
	// to NaN or Inf (degenerate mass or specific heat).
	ErrNonFiniteRise = errors.New("thermal: non-finite temperature rise")

	// ErrStepLimit indicates a run exceeded its configured step cap
	// before reaching the target temperature.
	ErrStepLimit = errors.New("thermal: step limit exceeded")
)
