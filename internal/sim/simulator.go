// Package sim drives steppers over a time interval: the constant-step loop,
// observers and metrics around it, and ensembles of independent runs.
package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
)

type Stepper = integrators.Stepper[dynamo.State, float64]

// evaluationCounter is implemented by steppers that count system calls.
type evaluationCounter interface {
	Evaluations() uint64
}

type Simulator struct {
	sys       dynamo.Func
	stepper   Stepper
	energy    func(dynamo.State) float64
	logger    *zap.Logger
	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEnergy enables energy drift reporting for conservative systems.
func WithEnergy(fn func(dynamo.State) float64) Option {
	return func(s *Simulator) {
		s.energy = fn
	}
}

func New(sys dynamo.Func, stepper Stepper, opts ...Option) *Simulator {
	s := &Simulator{
		sys:       sys,
		stepper:   stepper,
		logger:    zap.NewNop(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates x0 with a constant step. The derivative at each step start
// is evaluated here and handed to the stepper, which updates the state in
// place. On error the partial result is returned with it.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := cfg.ObserveEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		States:  make([]dynamo.State, 0, steps/every+2),
		Times:   make([]float64, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	dxdt := make(dynamo.State, len(x))
	t := cfg.T0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	var stepperEvals uint64
	counter, counts := s.stepper.(evaluationCounter)
	if counts {
		stepperEvals = counter.Evaluations()
	}

	initialEnergy := s.computeEnergy(x)
	start := time.Now()
	log := s.logger.With(zap.Int("dim", len(x)), zap.Float64("dt", cfg.Dt))
	log.Debug("run started", zap.Int("steps", steps), zap.Float64("t0", cfg.T0))

	finish := func(err error) (*Result, error) {
		result.Final = x.Clone()
		if counts {
			result.Evaluations += counter.Evaluations() - stepperEvals
		}
		if initialEnergy != 0 {
			result.EnergyDrift = math.Abs(s.computeEnergy(x)-initialEnergy) / math.Abs(initialEnergy)
		}
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
		if err != nil {
			log.Warn("run stopped", zap.Int("step", result.StepsTaken), zap.Float64("t", t), zap.Error(err))
			return result, err
		}
		log.Debug("run finished",
			zap.Int("steps", result.StepsTaken),
			zap.Uint64("evaluations", result.Evaluations),
			zap.Duration("elapsed", time.Since(start)))
		return result, nil
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		default:
		}

		result.Evaluations++
		if err := s.sys(x, dxdt, t); err != nil {
			return finish(&dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err})
		}
		if err := s.stepper.Step(s.sys, x, dxdt, t, x, cfg.Dt); err != nil {
			return finish(&dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err})
		}

		// t from the step count avoids accumulating rounding in t += dt.
		t = cfg.T0 + float64(i+1)*cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !x.IsValid() {
			return finish(&dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState})
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
	}

	return finish(nil)
}

// Integrate runs a single constant-step integration without observers.
func Integrate(ctx context.Context, stepper Stepper, sys dynamo.Func, x0 dynamo.State, cfg Config) (*Result, error) {
	return New(sys, stepper).Run(ctx, x0, cfg)
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if s.energy == nil {
		return 0
	}
	return s.energy(x)
}
