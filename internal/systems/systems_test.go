package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odestep/internal/dynamo"
)

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			m, err := New(name, nil)
			if err != nil {
				t.Fatalf("New(%q): %v", name, err)
			}
			if m.Name() != name {
				t.Errorf("Name() = %q, want %q", m.Name(), name)
			}

			x := m.DefaultState()
			dxdt := make(dynamo.State, len(x))
			if err := m.Derive(x, dxdt, 0); err != nil {
				t.Fatalf("Derive on default state: %v", err)
			}
			if !dxdt.IsValid() {
				t.Errorf("invalid derivative %v", dxdt)
			}
		})
	}

	if _, err := New("nonexistent", nil); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestNewAppliesParams(t *testing.T) {
	m, err := New("decay", map[string]float64{"lambda": 2.5})
	if err != nil {
		t.Fatal(err)
	}
	if m.GetParams()["lambda"] != 2.5 {
		t.Errorf("expected lambda 2.5, got %v", m.GetParams()["lambda"])
	}

	_, err = New("decay", map[string]float64{"mu": 1})
	if !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}

	_, err = New("pendulum", map[string]float64{"length": -1})
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestDimensionChecks(t *testing.T) {
	tests := []struct {
		name string
		m    Model
		x    dynamo.State
	}{
		{"harmonic", NewHarmonic(), dynamo.State{1, 2, 3}},
		{"pendulum", NewPendulum(), dynamo.State{1}},
		{"duffing", NewDuffing(), dynamo.State{1, 2}},
		{"masschain", NewMassChain(2), dynamo.State{1, 2, 3}},
		{"lorenz", NewLorenz(), dynamo.State{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Derive(tt.x, make(dynamo.State, len(tt.x)), 0)
			if !errors.Is(err, dynamo.ErrDimensionMismatch) {
				t.Errorf("expected ErrDimensionMismatch, got %v", err)
			}
		})
	}
}

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := make(dynamo.State, 2)
	if err := p.Derive(dynamo.State{0, 0}, dx, 0); err != nil {
		t.Fatal(err)
	}

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := make(dynamo.State, 2)
	if err := p.Derive(dynamo.State{math.Pi / 2, 0}, dx, 0); err != nil {
		t.Fatal(err)
	}

	expectedAccel := -p.Gravity / p.Length
	if math.Abs(dx[1]-expectedAccel) > 1e-6 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestHarmonicExact(t *testing.T) {
	h := NewHarmonic()
	h.Omega = 2

	x0 := dynamo.State{1, 0.5}
	x := h.Exact(x0, 1, 1+math.Pi/4)

	// a quarter period of omega=2 maps (x, v) to (v/omega, -omega*x)
	if math.Abs(x[0]-0.25) > 1e-12 || math.Abs(x[1]+2) > 1e-12 {
		t.Errorf("unexpected exact solution %v", x)
	}
	if math.Abs(h.Energy(x)-h.Energy(x0)) > 1e-12 {
		t.Error("exact solution must conserve energy")
	}
}

func TestDecayAndConstantExact(t *testing.T) {
	d := &Decay{Lambda: 0.5}
	x := d.Exact(dynamo.State{2, -4}, 1, 3)
	if math.Abs(x[0]-2*math.Exp(-1)) > 1e-15 || math.Abs(x[1]+4*math.Exp(-1)) > 1e-15 {
		t.Errorf("decay exact = %v", x)
	}

	c := &Constant{K: 3}
	x = c.Exact(dynamo.State{1}, 0, 2)
	if x[0] != 7 {
		t.Errorf("constant exact = %v, want 7", x[0])
	}
}

func TestMassChainResize(t *testing.T) {
	mc := NewMassChain(3)
	if err := mc.SetParam("n", 5); err != nil {
		t.Fatal(err)
	}
	if len(mc.DefaultState()) != 10 {
		t.Errorf("expected 10 components, got %d", len(mc.DefaultState()))
	}
	if err := mc.SetParam("n", 2.5); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error for fractional n, got %v", err)
	}
}

func TestMassChainEquilibrium(t *testing.T) {
	mc := NewMassChain(4)
	dx := make(dynamo.State, 8)
	if err := mc.Derive(make(dynamo.State, 8), dx, 0); err != nil {
		t.Fatal(err)
	}
	for i, v := range dx {
		if v != 0 {
			t.Errorf("dx[%d] = %v at rest", i, v)
		}
	}
	if mc.Energy(make(dynamo.State, 8)) != 0 {
		t.Error("energy at rest must be zero")
	}
}

func TestLorenzFixedPoint(t *testing.T) {
	l := NewLorenz()
	c := math.Sqrt(l.Beta * (l.Rho - 1))
	x := dynamo.State{c, c, l.Rho - 1}
	dxdt := make(dynamo.State, 3)
	if err := l.Derive(x, dxdt, 0); err != nil {
		t.Fatal(err)
	}
	for i, v := range dxdt {
		if math.Abs(v) > 1e-12 {
			t.Errorf("component %d: expected 0 at fixed point, got %g", i, v)
		}
	}
}

func TestCheckState(t *testing.T) {
	if err := CheckState(NewDecay(), dynamo.State{1, 2, 3}); err != nil {
		t.Errorf("decay accepts any length, got %v", err)
	}
	if err := CheckState(NewHarmonic(), dynamo.State{1, 0}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckState(NewHarmonic(), dynamo.State{1}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
