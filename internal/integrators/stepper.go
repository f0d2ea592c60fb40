// Package integrators implements explicit single-step ODE steppers.
//
// Steppers are generic over the state container S, its element type V and
// the time type T. The container is described by a resize.Space, iterated
// by an algebra.Algebra and combined with kernels from the operations
// package. Each stepper owns its scratch buffers and sizes them lazily
// according to its resize policy, so a stepper must not be shared between
// goroutines.
package integrators

import (
	"fmt"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/resize"
)

// Stepper advances a state by one fixed step given its derivative at t.
// out may alias in.
type Stepper[S any, T dynamo.Float] interface {
	Order() int
	Step(sys dynamo.System[S, T], in, dxdt S, t T, out S, dt T) error
}

// Option configures a stepper at construction.
type Option func(*options)

type options struct {
	policy  resize.Policy
	resizer resize.Resizer
}

// WithPolicy selects the resize policy for all scratch buffers.
func WithPolicy(p resize.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithResizer installs r for the stage buffers, overriding the policy.
func WithResizer(r resize.Resizer) Option {
	return func(o *options) {
		o.resizer = r
	}
}

func buildOptions(opts []Option) options {
	o := options{policy: resize.PolicyInitially}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resizer == nil {
		o.resizer = o.policy.NewResizer()
	}
	return o
}

// resettable is implemented by resizers that can be re-armed.
type resettable interface {
	Reset()
}

func resetResizer(r resize.Resizer) {
	if rr, ok := r.(resettable); ok {
		rr.Reset()
	}
}

func mismatch(what string, want, got int) error {
	return fmt.Errorf("%w: %s has %d elements, state has %d", dynamo.ErrDimensionMismatch, what, got, want)
}
