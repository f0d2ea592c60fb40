package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odestep/internal/resize"
	"github.com/san-kum/odestep/internal/systems"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
)

var (
	Steppers = []string{"rk4", "euler"}
	Algebras = []string{"range", "parallel", "vector"}
)

type Config struct {
	System       string             `yaml:"system"`
	Stepper      string             `yaml:"stepper"`
	Algebra      string             `yaml:"algebra"`
	Resizer      string             `yaml:"resizer"`
	Workers      int                `yaml:"workers,omitempty"`
	T0           float64            `yaml:"t0"`
	Dt           float64            `yaml:"dt"`
	Duration     float64            `yaml:"duration"`
	ObserveEvery int                `yaml:"observe_every"`
	InitState    []float64          `yaml:"init_state,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty"`
	Metrics      []string           `yaml:"metrics,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		System:       "pendulum",
		Stepper:      "rk4",
		Algebra:      "range",
		Resizer:      resize.PolicyInitially.String(),
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		ObserveEvery: 1,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first field that cannot be turned into a run.
func (c *Config) Validate() error {
	if !slices.Contains(systems.Names(), c.System) {
		return fmt.Errorf("unknown system: %s", c.System)
	}
	if !slices.Contains(Steppers, c.Stepper) {
		return fmt.Errorf("unknown stepper: %s (want one of %v)", c.Stepper, Steppers)
	}
	if !slices.Contains(Algebras, c.Algebra) {
		return fmt.Errorf("unknown algebra: %s (want one of %v)", c.Algebra, Algebras)
	}
	if _, err := resize.ParsePolicy(c.Resizer); err != nil {
		return err
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.ObserveEvery < 0 {
		return fmt.Errorf("observe_every must not be negative, got %d", c.ObserveEvery)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// GetInitState returns the configured initial state or nil when the
// system default should be used.
func (c *Config) GetInitState() []float64 {
	if len(c.InitState) == 0 {
		return nil
	}
	return slices.Clone(c.InitState)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.InitState = slices.Clone(c.InitState)
	cp.Metrics = slices.Clone(c.Metrics)
	if c.Params != nil {
		cp.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			cp.Params[k] = v
		}
	}
	return &cp
}
