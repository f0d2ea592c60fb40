package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference and a perturbed trajectory with the same stepper, pulling the
// perturbed one back to distance perturbation after every step. A positive
// value indicates chaos.
//
// λ ≈ Σ ln(d_k / d0) / (n dt)
func LyapunovExponent(
	stepper sim.Stepper,
	sys dynamo.Func,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) (float64, error) {
	if len(x0) == 0 {
		return 0, fmt.Errorf("%w: empty initial state", dynamo.ErrInvalidState)
	}
	if dt <= 0 || duration <= 0 || perturbation <= 0 {
		return 0, fmt.Errorf("dt, duration and perturbation must be positive")
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	dxdt := make(dynamo.State, len(x0))
	steps := int(math.Round(duration / dt))
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		for _, s := range []dynamo.State{x, xp} {
			if err := sys(s, dxdt, t); err != nil {
				return 0, err
			}
			if err := stepper.Step(sys, s, dxdt, t, s, dt); err != nil {
				return 0, err
			}
		}

		sep := floats.Distance(xp, x, 2)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, &dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}
		sumLog += math.Log(sep / d0)

		// Renormalize so the separation stays in the linear regime.
		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if steps == 0 {
		return 0, nil
	}
	return sumLog / (float64(steps) * dt), nil
}
