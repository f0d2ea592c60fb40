package systems

import (
	"math"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Zero is dx/dt = 0 for any number of components.
type Zero struct{}

func NewZero() *Zero { return &Zero{} }

func (z *Zero) Name() string { return "zero" }

func (z *Zero) Derive(x, dxdt dynamo.State, t float64) error {
	if err := dynamo.CheckDim(dxdt, len(x)); err != nil {
		return err
	}
	clear(dxdt)
	return nil
}

func (z *Zero) DefaultState() dynamo.State { return dynamo.State{1} }

func (*Zero) freeDim() {}

func (z *Zero) Exact(x0 dynamo.State, t0, t float64) dynamo.State { return x0.Clone() }

func (z *Zero) GetParams() map[string]float64 { return map[string]float64{} }

func (z *Zero) SetParam(name string, _ float64) error { return unknownParam(z.Name(), name) }

// Constant is dx/dt = K for every component.
type Constant struct {
	K float64
}

func NewConstant() *Constant { return &Constant{K: 1} }

func (c *Constant) Name() string { return "constant" }

func (c *Constant) Derive(x, dxdt dynamo.State, t float64) error {
	if err := dynamo.CheckDim(dxdt, len(x)); err != nil {
		return err
	}
	for i := range dxdt {
		dxdt[i] = c.K
	}
	return nil
}

func (c *Constant) DefaultState() dynamo.State { return dynamo.State{0} }

func (*Constant) freeDim() {}

func (c *Constant) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	out := x0.Clone()
	for i := range out {
		out[i] += c.K * (t - t0)
	}
	return out
}

func (c *Constant) GetParams() map[string]float64 {
	return map[string]float64{"k": c.K}
}

func (c *Constant) SetParam(name string, value float64) error {
	if name != "k" {
		return unknownParam(c.Name(), name)
	}
	c.K = value
	return nil
}

// Decay is exponential decay dx/dt = -lambda*x for every component.
type Decay struct {
	Lambda float64
}

func NewDecay() *Decay { return &Decay{Lambda: 1} }

func (d *Decay) Name() string { return "decay" }

func (d *Decay) Derive(x, dxdt dynamo.State, t float64) error {
	if err := dynamo.CheckDim(dxdt, len(x)); err != nil {
		return err
	}
	for i := range x {
		dxdt[i] = -d.Lambda * x[i]
	}
	return nil
}

func (d *Decay) DefaultState() dynamo.State { return dynamo.State{1} }

func (*Decay) freeDim() {}

func (d *Decay) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	return x0.Scale(math.Exp(-d.Lambda * (t - t0)))
}

func (d *Decay) GetParams() map[string]float64 {
	return map[string]float64{"lambda": d.Lambda}
}

func (d *Decay) SetParam(name string, value float64) error {
	if name != "lambda" {
		return unknownParam(d.Name(), name)
	}
	d.Lambda = value
	return nil
}

// Harmonic is the undamped oscillator x'' = -omega^2 x.
// State: [x, v]
type Harmonic struct {
	Omega float64
}

func NewHarmonic() *Harmonic { return &Harmonic{Omega: 1} }

func (h *Harmonic) Name() string { return "harmonic" }

func (h *Harmonic) Derive(x, dxdt dynamo.State, t float64) error {
	if err := checkDims(x, dxdt, 2); err != nil {
		return err
	}
	dxdt[0] = x[1]
	dxdt[1] = -h.Omega * h.Omega * x[0]
	return nil
}

func (h *Harmonic) DefaultState() dynamo.State { return dynamo.State{1, 0} }

func (h *Harmonic) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	s, c := math.Sincos(h.Omega * (t - t0))
	return dynamo.State{
		x0[0]*c + x0[1]/h.Omega*s,
		-x0[0]*h.Omega*s + x0[1]*c,
	}
}

func (h *Harmonic) Energy(x dynamo.State) float64 {
	return 0.5 * (x[1]*x[1] + h.Omega*h.Omega*x[0]*x[0])
}

func (h *Harmonic) GetParams() map[string]float64 {
	return map[string]float64{"omega": h.Omega}
}

func (h *Harmonic) SetParam(name string, value float64) error {
	if name != "omega" {
		return unknownParam(h.Name(), name)
	}
	if err := checkPositive(name, value); err != nil {
		return err
	}
	h.Omega = value
	return nil
}
