package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for stepping operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates state, derivative, output or scratch
	// buffers of different cardinality.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and buffers")

	// ErrResize indicates a scratch buffer could not be reallocated.
	ErrResize = errors.New("dynamo: buffer resize failed")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates a parameter name the system does not expose.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")
)

// SimulationError wraps an error with the driver step that produced it.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
