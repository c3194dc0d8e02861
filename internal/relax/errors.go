package relax

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidCount indicates a charge count below 1.
	ErrInvalidCount = errors.New("relax: charge count must be at least 1")

	// ErrInvalidTolerance indicates a non-positive convergence tolerance.
	ErrInvalidTolerance = errors.New("relax: tolerance must be positive")

	// ErrNotConverged indicates the iteration cap was reached before every
	// per-charge displacement dropped below tolerance.
	ErrNotConverged = errors.New("relax: iteration cap reached before convergence")

	// ErrDegenerateGeometry indicates two charges became numerically
	// coincident, making the pairwise force undefined.
	ErrDegenerateGeometry = errors.New("relax: coincident charges (degenerate geometry)")
)

// SolveError wraps a domain error with the iteration it occurred at.
type SolveError struct {
	Iteration int
	Wrapped   error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("iteration %d: %v", e.Iteration, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
