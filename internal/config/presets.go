package config

import "sort"

func preset(system string, dt, duration float64, x0 []float64, params map[string]float64) *Config {
	return &Config{
		System:       system,
		Stepper:      "rk4",
		Algebra:      "range",
		Resizer:      "initially",
		Dt:           dt,
		Duration:     duration,
		ObserveEvery: 1,
		InitState:    x0,
		Params:       params,
	}
}

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small":    preset("pendulum", 0.01, 20.0, []float64{0.2, 0.0}, nil),
		"large":    preset("pendulum", 0.01, 20.0, []float64{2.5, 0.0}, nil),
		"spinning": preset("pendulum", 0.01, 30.0, []float64{0.1, 8.0}, map[string]float64{"damping": 0}),
	},
	"harmonic": {
		"unit": preset("harmonic", 0.01, 20.0, []float64{1.0, 0.0}, nil),
		"fast": preset("harmonic", 0.001, 5.0, []float64{1.0, 0.0}, map[string]float64{"omega": 10}),
	},
	"vanderpol": {
		"limit_cycle": preset("vanderpol", 0.01, 30.0, []float64{0.1, 0.0}, nil),
		"relaxation":  preset("vanderpol", 0.001, 50.0, []float64{2.0, 0.0}, map[string]float64{"mu": 5}),
	},
	"lorenz": {
		"classic":  preset("lorenz", 0.005, 40.0, []float64{1.0, 1.0, 1.0}, nil),
		"periodic": preset("lorenz", 0.005, 40.0, []float64{1.0, 1.0, 1.0}, map[string]float64{"rho": 160}),
	},
	"duffing": {
		"chaotic": preset("duffing", 0.01, 100.0, []float64{1.0, 0.0, 0.0}, nil),
	},
	"masschain": {
		"pulse": preset("masschain", 0.005, 20.0, []float64{1, 0, 0, 0, 0, 0}, map[string]float64{"damping": 0}),
	},
	"decay": {
		"stiff": preset("decay", 0.01, 1.0, []float64{1.0}, map[string]float64{"lambda": 50}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(system, name string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
