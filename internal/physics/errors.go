package physics

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for launcher construction and simulation.
var (
	// ErrValidation indicates a bad constructor or call argument.
	ErrValidation = errors.New("coilgun: validation failed")

	// ErrEmptyState indicates results were requested before any step was recorded.
	ErrEmptyState = errors.New("coilgun: no simulation data recorded")

	// ErrRunning indicates an operation that cannot happen while a run is in progress.
	ErrRunning = errors.New("coilgun: simulation is running")

	// ErrNotIdle indicates a run was requested on a simulator that already terminated.
	ErrNotIdle = errors.New("coilgun: simulation not idle (reset first)")

	// ErrUnstable indicates the capsule state became NaN or Inf.
	ErrUnstable = errors.New("coilgun: simulation unstable (state diverged)")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("coilgun: invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field string, value float64, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// Positive returns a ValidationError unless value > 0.
func Positive(field string, value float64) error {
	if math.IsNaN(value) || value <= 0 {
		return invalid(field, value, "must be positive")
	}
	return nil
}

// NonNegative returns a ValidationError if value < 0 or NaN.
func NonNegative(field string, value float64) error {
	if math.IsNaN(value) || value < 0 {
		return invalid(field, value, "cannot be negative")
	}
	return nil
}
