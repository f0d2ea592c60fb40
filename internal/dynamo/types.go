package dynamo

import (
	"fmt"
	"math"
)

// Float is the element and time type constraint for steppers.
type Float interface {
	~float32 | ~float64
}

// System evaluates the derivative of x at time t into dxdt. Implementations
// must fill every component of dxdt and must not retain either slice.
type System[S any, T Float] func(x S, dxdt S, t T) error

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Func is the System shape used by drivers and built-in systems.
type Func = System[State, float64]

// Hamiltonian is implemented by systems with a conserved energy.
type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// CheckDim reports ErrDimensionMismatch when x does not have n components.
func CheckDim(x State, n int) error {
	if len(x) != n {
		return fmt.Errorf("%w: want %d components, got %d", ErrDimensionMismatch, n, len(x))
	}
	return nil
}
