package systems

import (
	"fmt"
	"math"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Pendulum is a damped rigid pendulum.
// State: [theta, omega]
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) Name() string { return "pendulum" }

func (p *Pendulum) Derive(x, dxdt dynamo.State, t float64) error {
	if err := checkDims(x, dxdt, 2); err != nil {
		return err
	}
	theta, omega := x[0], x[1]
	dxdt[0] = omega
	dxdt[1] = (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / (p.Mass * p.Length * p.Length)
	return nil
}

func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{0.5, 0} }

func (p *Pendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * (L*omega)^2
	// PE = m * g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass", "length":
		if err := checkPositive(name, value); err != nil {
			return err
		}
		if name == "mass" {
			p.Mass = value
		} else {
			p.Length = value
		}
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return unknownParam(p.Name(), name)
	}
	return nil
}

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
//
//	dx/dt = y
//	dy/dt = mu(1 - x^2)y - x
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 1.0}
}

func (v *VanDerPol) Name() string { return "vanderpol" }

func (v *VanDerPol) Derive(s, dxdt dynamo.State, _ float64) error {
	if err := checkDims(s, dxdt, 2); err != nil {
		return err
	}
	x, y := s[0], s[1]
	dxdt[0] = y
	dxdt[1] = v.Mu*(1-x*x)*y - x
	return nil
}

func (v *VanDerPol) DefaultState() dynamo.State { return dynamo.State{2.0, 0.0} }

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(v.Name(), name)
	}
	v.Mu = value
	return nil
}

// Duffing is a forced nonlinear oscillator with the forcing phase carried
// as a third state component.
// State: [x, v, phi]
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{-1.0, 1.0, 0.3, 0.5, 1.2}
}

func (d *Duffing) Name() string { return "duffing" }

func (d *Duffing) Derive(s, dxdt dynamo.State, _ float64) error {
	if err := checkDims(s, dxdt, 3); err != nil {
		return err
	}
	x, v, phi := s[0], s[1], s[2]
	dxdt[0] = v
	dxdt[1] = -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(phi)
	dxdt[2] = d.Omega
	return nil
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0, 0.0} }

func (d *Duffing) Energy(s dynamo.State) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(n string, v float64) error {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		d.Delta = v
	case "gamma":
		d.Gamma = v
	case "omega":
		d.Omega = v
	default:
		return unknownParam(d.Name(), n)
	}
	return nil
}

// MassChain is a chain of N masses joined by springs between two walls.
// State: [x1, v1, x2, v2, ..., xN, vN]. Changing N changes the state size.
type MassChain struct {
	N       int
	K       float64
	M       float64
	Damping float64
}

func NewMassChain(n int) *MassChain {
	return &MassChain{
		N:       n,
		K:       100.0,
		M:       1.0,
		Damping: 0.1,
	}
}

func (mc *MassChain) Name() string { return "masschain" }

func (mc *MassChain) Derive(state, dxdt dynamo.State, _ float64) error {
	if err := checkDims(state, dxdt, mc.N*2); err != nil {
		return err
	}

	for i := 0; i < mc.N; i++ {
		x := state[i*2]
		v := state[i*2+1]

		var force float64
		if i > 0 {
			force += mc.K * (state[(i-1)*2] - x)
		} else {
			force -= mc.K * x
		}
		if i < mc.N-1 {
			force += mc.K * (state[(i+1)*2] - x)
		} else {
			force -= mc.K * x
		}
		force -= mc.Damping * v

		dxdt[i*2] = v
		dxdt[i*2+1] = force / mc.M
	}
	return nil
}

func (mc *MassChain) DefaultState() dynamo.State {
	s := make(dynamo.State, mc.N*2)
	if mc.N > 0 {
		s[0] = 0.5
	}
	return s
}

func (mc *MassChain) Energy(state dynamo.State) float64 {
	e := 0.0
	prev := 0.0
	for i := 0; i < mc.N; i++ {
		x, v := state[i*2], state[i*2+1]
		e += 0.5*mc.M*v*v + 0.5*mc.K*(x-prev)*(x-prev)
		prev = x
	}
	return e + 0.5*mc.K*prev*prev
}

func (mc *MassChain) GetParams() map[string]float64 {
	return map[string]float64{"n": float64(mc.N), "k": mc.K, "m": mc.M, "damping": mc.Damping}
}

func (mc *MassChain) SetParam(name string, value float64) error {
	switch name {
	case "n":
		if value < 1 || value != math.Trunc(value) {
			return fmt.Errorf("%w: n must be a positive integer, got %g", dynamo.ErrParameterBounds, value)
		}
		mc.N = int(value)
	case "k":
		mc.K = value
	case "m":
		if err := checkPositive(name, value); err != nil {
			return err
		}
		mc.M = value
	case "damping":
		mc.Damping = value
	default:
		return unknownParam(mc.Name(), name)
	}
	return nil
}

// Lorenz is the classic chaotic convection model.
// State: [x, y, z]
type Lorenz struct {
	Sigma float64
	Rho   float64
	Beta  float64
}

func NewLorenz() *Lorenz {
	return &Lorenz{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0}
}

func (l *Lorenz) Name() string { return "lorenz" }

func (l *Lorenz) Derive(x, dxdt dynamo.State, t float64) error {
	if err := checkDims(x, dxdt, 3); err != nil {
		return err
	}
	dxdt[0] = l.Sigma * (x[1] - x[0])
	dxdt[1] = x[0]*(l.Rho-x[2]) - x[1]
	dxdt[2] = x[0]*x[1] - l.Beta*x[2]
	return nil
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.Sigma, "rho": l.Rho, "beta": l.Beta}
}

func (l *Lorenz) SetParam(name string, value float64) error {
	switch name {
	case "sigma":
		l.Sigma = value
	case "rho":
		l.Rho = value
	case "beta":
		l.Beta = value
	default:
		return unknownParam(l.Name(), name)
	}
	return nil
}
