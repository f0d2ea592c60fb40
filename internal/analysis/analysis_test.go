package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/sim"
	"github.com/san-kum/odestep/internal/systems"
)

var halvingDts = []float64{0.1, 0.05, 0.025, 0.0125}

func TestConvergenceOrders(t *testing.T) {
	tests := []struct {
		name       string
		newStepper func() sim.Stepper
		order      float64
	}{
		{"rk4", func() sim.Stepper { return integrators.NewRK4() }, 4},
		{"euler", func() sim.Stepper { return integrators.NewEuler() }, 1},
	}

	decay := systems.NewDecay()
	x0 := dynamo.State{1.0}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := Convergence(context.Background(), tt.newStepper, decay.Derive, decay.Exact, x0, 0, 1, halvingDts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pts) != len(halvingDts) {
				t.Fatalf("expected %d points, got %d", len(halvingDts), len(pts))
			}
			if !math.IsNaN(pts[0].Order) {
				t.Errorf("first point should have no order, got %f", pts[0].Order)
			}
			for _, p := range pts[1:] {
				if math.Abs(p.Order-tt.order) > 0.1 {
					t.Errorf("dt=%g: observed order %f, want ~%f", p.Dt, p.Order, tt.order)
				}
			}
			if pts[3].Steps != 80 {
				t.Errorf("expected 80 steps at dt=0.0125, got %d", pts[3].Steps)
			}
			if fit := FitOrder(pts); math.Abs(fit-tt.order) > 0.1 {
				t.Errorf("fitted order %f, want ~%f", fit, tt.order)
			}
		})
	}
}

func TestConvergenceUnevenGrid(t *testing.T) {
	constant := systems.NewConstant()
	newStepper := func() sim.Stepper { return integrators.NewRK4() }
	dts := []float64{0.3, 0.15}

	pts, err := Convergence(context.Background(), newStepper, constant.Derive, constant.Exact, dynamo.State{0}, 0, 1, dts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pts[0].Steps != 3 || pts[1].Steps != 7 {
		t.Fatalf("expected 3 and 7 steps, got %d and %d", pts[0].Steps, pts[1].Steps)
	}
	for _, p := range pts {
		if p.Error > 1e-12 {
			t.Errorf("dt=%g: RK4 is exact for constant slope, got error %g", p.Dt, p.Error)
		}
	}
}

func TestConvergenceNoSteps(t *testing.T) {
	decay := systems.NewDecay()
	newStepper := func() sim.Stepper { return integrators.NewRK4() }
	if _, err := Convergence(context.Background(), newStepper, decay.Derive, decay.Exact, dynamo.State{1}, 0, 1, nil); err == nil {
		t.Error("expected error for empty dt list")
	}
}

func TestFitOrderDegenerate(t *testing.T) {
	pts := []ConvergencePoint{{Dt: 0.1, Error: 0}, {Dt: 0.05, Error: 0}}
	if !math.IsNaN(FitOrder(pts)) {
		t.Error("expected NaN for exact results")
	}
}

func TestLyapunovExponent(t *testing.T) {
	t.Run("decay contracts at its rate", func(t *testing.T) {
		d := systems.NewDecay()
		lambda, err := LyapunovExponent(integrators.NewRK4(), d.Derive, dynamo.State{1}, 0.01, 10, 1e-8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(lambda+1) > 1e-3 {
			t.Errorf("expected ~-1, got %f", lambda)
		}
	})

	t.Run("harmonic is neutral", func(t *testing.T) {
		h := systems.NewHarmonic()
		lambda, err := LyapunovExponent(integrators.NewRK4(), h.Derive, h.DefaultState(), 0.01, 20, 1e-8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(lambda) > 1e-2 {
			t.Errorf("expected ~0, got %f", lambda)
		}
	})

	t.Run("lorenz is chaotic", func(t *testing.T) {
		l := systems.NewLorenz()
		lambda, err := LyapunovExponent(integrators.NewRK4(), l.Derive, l.DefaultState(), 0.01, 50, 1e-8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lambda <= 0.3 {
			t.Errorf("expected positive exponent, got %f", lambda)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		d := systems.NewDecay()
		if _, err := LyapunovExponent(integrators.NewRK4(), d.Derive, nil, 0.01, 1, 1e-8); err == nil {
			t.Error("expected error for empty state")
		}
		if _, err := LyapunovExponent(integrators.NewRK4(), d.Derive, dynamo.State{1}, 0, 1, 1e-8); err == nil {
			t.Error("expected error for zero dt")
		}
	})
}
