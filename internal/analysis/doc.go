// Package analysis measures how steppers behave on a given system.
//
//   - [Convergence]: global error against a closed-form solution for a
//     sequence of step sizes, with the observed order between neighbours
//   - [FitOrder]: least-squares order over all convergence points
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Order Check
//
// A fourth-order stepper should show errors shrinking sixteenfold per
// halving of dt:
//
//	pts, err := analysis.Convergence(ctx, newStepper, sys, exact, x0, 0, 1, dts)
//	order := analysis.FitOrder(pts) // ~4 for RK4
package analysis
