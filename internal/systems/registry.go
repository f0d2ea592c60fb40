package systems

import (
	"fmt"
	"sort"
)

var registry = map[string]func() Model{
	"zero":      func() Model { return NewZero() },
	"constant":  func() Model { return NewConstant() },
	"decay":     func() Model { return NewDecay() },
	"harmonic":  func() Model { return NewHarmonic() },
	"pendulum":  func() Model { return NewPendulum() },
	"vanderpol": func() Model { return NewVanDerPol() },
	"duffing":   func() Model { return NewDuffing() },
	"masschain": func() Model { return NewMassChain(3) },
	"lorenz":    func() Model { return NewLorenz() },
}

// New returns a fresh model by name with params applied on top of its
// defaults.
func New(name string, params map[string]float64) (Model, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	m := fn()

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Names lists registered systems in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
