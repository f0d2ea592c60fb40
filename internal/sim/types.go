package sim

import "github.com/san-kum/odestep/internal/dynamo"

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x dynamo.State, t float64)
}

// Config describes a constant-step run from T0 to T0+Duration.
// ObserveEvery records every n-th state; values below 1 record every step.
type Config struct {
	T0            float64
	Dt            float64
	Duration      float64
	ObserveEvery  int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ObserveEvery:  1,
		ValidateState: true,
	}
}

type Result struct {
	States      []dynamo.State
	Times       []float64
	Final       dynamo.State
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Evaluations uint64
}
