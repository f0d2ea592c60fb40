// Package dynamo provides core primitives for single-step ODE integration.
//
// The package defines the fundamental types shared by steppers, drivers and
// built-in systems for dX/dt = f(X, t):
//
//   - [State]: default container, a vector of float64
//   - [Float]: element and time type constraint
//   - [System]: derivative function writing dX/dt into a caller buffer
//
// # Example
//
//	rk := integrators.NewRK4()
//	x := dynamo.State{1, 0}
//	dxdt := make(dynamo.State, len(x))
//	_ = sys(x, dxdt, 0)
//	err := rk.Step(sys, x, dxdt, 0, x, 0.01)
//
// # Thread Safety
//
// Steppers own scratch buffers and are NOT thread-safe. Use one stepper per
// goroutine; see the sim package's Ensemble.
package dynamo
