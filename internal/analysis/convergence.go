package analysis

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/sim"
)

// ExactFunc is a closed-form solution through x0 at t0, evaluated at t.
type ExactFunc func(x0 dynamo.State, t0, t float64) dynamo.State

// ConvergencePoint is the global error of one run. Order compares it with
// the previous point and is NaN for the first one.
type ConvergencePoint struct {
	Dt    float64
	Steps int
	Error float64
	Order float64
}

// Convergence integrates x0 from t0 over duration once per dt, each time with
// a fresh stepper, and measures the Euclidean distance of the final state
// from the exact solution at the time the run actually stopped.
func Convergence(
	ctx context.Context,
	newStepper func() sim.Stepper,
	sys dynamo.Func,
	exact ExactFunc,
	x0 dynamo.State,
	t0, duration float64,
	dts []float64,
) ([]ConvergencePoint, error) {
	if len(dts) == 0 {
		return nil, fmt.Errorf("no step sizes given")
	}

	points := make([]ConvergencePoint, 0, len(dts))

	for i, dt := range dts {
		cfg := sim.Config{
			T0:           t0,
			Dt:           dt,
			Duration:     duration,
			ObserveEvery: math.MaxInt,
		}
		res, err := sim.Integrate(ctx, newStepper(), sys, x0, cfg)
		if err != nil {
			return nil, fmt.Errorf("dt=%g: %w", dt, err)
		}

		// The run ends on the step grid, which overshoots or falls short of
		// t0+duration when dt does not divide it.
		want := exact(x0, t0, res.Times[len(res.Times)-1])
		p := ConvergencePoint{
			Dt:    dt,
			Steps: res.StepsTaken,
			Error: floats.Distance(res.Final, want, 2),
			Order: math.NaN(),
		}
		if i > 0 {
			prev := points[i-1]
			p.Order = math.Log(prev.Error/p.Error) / math.Log(prev.Dt/p.Dt)
		}
		points = append(points, p)
	}

	return points, nil
}

// FitOrder is the slope of log(error) against log(dt). Points with zero
// error carry no information and are skipped.
func FitOrder(points []ConvergencePoint) float64 {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Error > 0 {
			xs = append(xs, math.Log(p.Dt))
			ys = append(ys, math.Log(p.Error))
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}
