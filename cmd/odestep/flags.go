package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/resize"
)

// runFlags are shared by run and live. Values only override the config
// file or preset when set on the command line.
type runFlags struct {
	configFile   string
	preset       string
	stepper      string
	algebra      string
	resizer      string
	workers      int
	t0           float64
	dt           float64
	duration     float64
	observeEvery int
	initState    []float64
	params       map[string]string
	metrics      []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&f.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&f.stepper, "stepper", def.Stepper, fmt.Sprintf("stepper %v", config.Steppers))
	cmd.Flags().StringVar(&f.algebra, "algebra", def.Algebra, fmt.Sprintf("algebra %v", config.Algebras))
	cmd.Flags().StringVar(&f.resizer, "resizer", def.Resizer, fmt.Sprintf("resize policy %v", resize.PolicyNames()))
	cmd.Flags().IntVar(&f.workers, "workers", 0, "workers for the parallel algebra (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&f.t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&f.dt, "dt", def.Dt, "timestep")
	cmd.Flags().Float64Var(&f.duration, "time", def.Duration, "duration")
	cmd.Flags().IntVar(&f.observeEvery, "observe-every", def.ObserveEvery, "record every n-th state")
	cmd.Flags().Float64SliceVar(&f.initState, "init", nil, "initial state (comma separated)")
	cmd.Flags().StringToStringVar(&f.params, "param", nil, "system parameter name=value")
	cmd.Flags().StringSliceVar(&f.metrics, "metrics", nil, "metrics to compute (energy, energy_drift, max_norm, stability)")
}

// resolve builds the run configuration: defaults, then preset, then config
// file, then explicitly set flags. The positional system always wins.
func (f *runFlags) resolve(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		p := config.GetPreset(system, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(system))
		}
		cfg = p
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.System = system

	changed := cmd.Flags().Changed
	if changed("stepper") {
		cfg.Stepper = f.stepper
	}
	if changed("algebra") {
		cfg.Algebra = f.algebra
	}
	if changed("resizer") {
		cfg.Resizer = f.resizer
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("t0") {
		cfg.T0 = f.t0
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("observe-every") {
		cfg.ObserveEvery = f.observeEvery
	}
	if changed("init") {
		cfg.InitState = f.initState
	}
	if changed("metrics") {
		cfg.Metrics = f.metrics
	}
	if changed("param") {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(f.params))
		}
		for name, raw := range f.params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", name, err)
			}
			cfg.Params[name] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
