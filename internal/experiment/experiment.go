// Package experiment turns a config.Config into a ready simulation: the
// system, the stepper with its algebra and resize policy, and the metrics.
package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/metrics"
	"github.com/san-kum/odestep/internal/resize"
	"github.com/san-kum/odestep/internal/sim"
	"github.com/san-kum/odestep/internal/systems"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	model     systems.Model
	simulator *sim.Simulator
	logger    *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	model, err := systems.New(cfg.System, cfg.Params)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		model:    model,
		logger:   logger.With(zap.String("system", cfg.System), zap.String("stepper", cfg.Stepper)),
	}

	e.simulator, err = e.newSimulator()
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Experiment) newSimulator() (*sim.Simulator, error) {
	stepper, err := e.NewStepper()
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{sim.WithLogger(e.logger)}
	if h, ok := e.model.(dynamo.Hamiltonian); ok {
		opts = append(opts, sim.WithEnergy(h.Energy))
	}
	s := sim.New(e.model.Derive, stepper, opts...)

	ms, err := metrics.Build(e.cfg.Metrics, e.model)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		s.AddMetric(m)
	}
	return s, nil
}

// NewStepper builds a fresh stepper as configured.
func (e *Experiment) NewStepper() (sim.Stepper, error) {
	policy, err := resize.ParsePolicy(e.cfg.Resizer)
	if err != nil {
		return nil, err
	}
	return e.registry.NewStepper(e.cfg.Stepper, e.cfg.Algebra, policy, e.cfg.Workers)
}

// InitialState is the configured initial state, or the system default.
func (e *Experiment) InitialState() (dynamo.State, error) {
	x0 := dynamo.State(e.cfg.GetInitState())
	if x0 == nil {
		x0 = e.model.DefaultState()
	}
	if err := systems.CheckState(e.model, x0); err != nil {
		return nil, fmt.Errorf("init_state for %s: %w", e.cfg.System, err)
	}
	return x0, nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		T0:            e.cfg.T0,
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ObserveEvery:  e.cfg.ObserveEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	x0, err := e.InitialState()
	if err != nil {
		return nil, err
	}
	return e.simulator.Run(ctx, x0, e.SimConfig())
}

// RunEnsemble integrates n copies of the initial state with the first
// component offset by i*spread, each on its own stepper.
func (e *Experiment) RunEnsemble(ctx context.Context, n int, spread float64) ([]*sim.Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("ensemble size must be positive, got %d", n)
	}
	x0, err := e.InitialState()
	if err != nil {
		return nil, err
	}
	if len(x0) == 0 {
		return nil, fmt.Errorf("%w: cannot perturb an empty state", dynamo.ErrInvalidState)
	}

	x0s := make([]dynamo.State, n)
	for i := range x0s {
		x0s[i] = x0.Clone()
		x0s[i][0] += float64(i) * spread
	}

	sims := make(chan *sim.Simulator, n)
	for i := 0; i < n; i++ {
		s, err := e.newSimulator()
		if err != nil {
			return nil, err
		}
		sims <- s
	}
	ens := sim.NewEnsemble(func() *sim.Simulator { return <-sims }, 0)

	e.logger.Debug("ensemble started", zap.Int("runs", n), zap.Float64("spread", spread))
	return ens.Run(ctx, x0s, e.SimConfig())
}

func (e *Experiment) Model() systems.Model      { return e.model }
func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
