// Package systems provides ready-made ODE right-hand sides for drivers,
// tests and the CLI. Systems write into a caller buffer and report
// dimension mismatches instead of panicking.
package systems

import (
	"fmt"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Model is a named, configurable ODE right-hand side.
type Model interface {
	dynamo.Configurable
	Name() string
	Derive(x, dxdt dynamo.State, t float64) error
	DefaultState() dynamo.State
}

// Solvable is implemented by models with a closed-form solution.
type Solvable interface {
	Exact(x0 dynamo.State, t0, t float64) dynamo.State
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", dynamo.ErrUnknownParameter, model, name)
}

func checkDims(x, dxdt dynamo.State, n int) error {
	if err := dynamo.CheckDim(x, n); err != nil {
		return err
	}
	return dynamo.CheckDim(dxdt, n)
}

func checkPositive(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrParameterBounds, name, value)
	}
	return nil
}

// freeDim marks models that accept states of any length.
type freeDim interface{ freeDim() }

// CheckState reports whether x has a length m can integrate.
func CheckState(m Model, x dynamo.State) error {
	if _, ok := m.(freeDim); ok {
		return nil
	}
	return dynamo.CheckDim(x, len(m.DefaultState()))
}
