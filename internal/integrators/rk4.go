package integrators

import (
	"github.com/san-kum/odestep/internal/algebra"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/operations"
	"github.com/san-kum/odestep/internal/resize"
)

// RK4 is the classical fourth-order Runge-Kutta stepper.
//
//	c = [0, 1/2, 1/2, 1], b = [1/6, 1/3, 1/3, 1/6]
//
// k2, k3 and k4 hold stage derivatives and xTmp the stage input. dxdt is
// only used by the DoStep variants that evaluate the first stage
// themselves.
type RK4[S any, V, T dynamo.Float] struct {
	space   resize.Space[S]
	algebra algebra.Algebra[S, V]

	resizer      resize.Resizer
	derivResizer resize.Resizer

	k2, k3, k4 S
	xTmp       S
	dxdt       S

	evals uint64
}

// NewRK4 returns an RK4 over dynamo.State using the range algebra.
func NewRK4(opts ...Option) *RK4[dynamo.State, float64, float64] {
	return NewRK4For[dynamo.State, float64, float64](
		resize.Slice[dynamo.State, float64]{},
		algebra.Range[dynamo.State, float64]{},
		opts...,
	)
}

// NewRK4For returns an RK4 for an arbitrary container space and algebra.
func NewRK4For[S any, V, T dynamo.Float](space resize.Space[S], alg algebra.Algebra[S, V], opts ...Option) *RK4[S, V, T] {
	o := buildOptions(opts)
	return &RK4[S, V, T]{
		space:        space,
		algebra:      alg,
		resizer:      o.resizer,
		derivResizer: o.policy.NewResizer(),
		k2:           space.New(),
		k3:           space.New(),
		k4:           space.New(),
		xTmp:         space.New(),
		dxdt:         space.New(),
	}
}

func (r *RK4[S, V, T]) Order() int      { return 4 }
func (r *RK4[S, V, T]) StageCount() int { return 4 }

// Evaluations returns the number of system calls made by this stepper.
func (r *RK4[S, V, T]) Evaluations() uint64 { return r.evals }

// Step advances in by dt using the caller-supplied derivative dxdt at t and
// writes the result to out. out may be in. System errors are returned
// unchanged and may leave out partially written.
func (r *RK4[S, V, T]) Step(sys dynamo.System[S, T], in, dxdt S, t T, out S, dt T) error {
	n := r.space.Len(in)
	if got := r.space.Len(dxdt); got != n {
		return mismatch("derivative", n, got)
	}
	if got := r.space.Len(out); got != n {
		return mismatch("output", n, got)
	}

	if _, err := r.resizer.AdjustSize(func() (bool, error) { return r.resizeStages(in) }); err != nil {
		return err
	}
	if err := r.checkStages(n); err != nil {
		return err
	}

	one := V(1)
	dh := dt / 2
	th := t + dh

	// xTmp = x + dh*dxdt
	r.algebra.ForEach3(r.xTmp, in, dxdt, operations.ScaleSum2(one, V(dh)))

	if err := r.eval(sys, r.xTmp, r.k2, th); err != nil {
		return err
	}

	// xTmp = x + dh*k2
	r.algebra.ForEach3(r.xTmp, in, r.k2, operations.ScaleSum2(one, V(dh)))

	if err := r.eval(sys, r.xTmp, r.k3, th); err != nil {
		return err
	}

	// xTmp = x + dt*k3
	r.algebra.ForEach3(r.xTmp, in, r.k3, operations.ScaleSum2(one, V(dt)))

	if err := r.eval(sys, r.xTmp, r.k4, t+dt); err != nil {
		return err
	}

	dt6 := V(dt) / 6
	dt3 := V(dt) / 3
	r.algebra.ForEach6(out, in, dxdt, r.k2, r.k3, r.k4, operations.ScaleSum5(one, dt6, dt3, dt3, dt6))
	return nil
}

// DoStep advances x in place, evaluating the first stage itself.
func (r *RK4[S, V, T]) DoStep(sys dynamo.System[S, T], x S, t, dt T) error {
	return r.DoStepOut(sys, x, t, x, dt)
}

// DoStepOut advances in into out, evaluating the first stage itself.
func (r *RK4[S, V, T]) DoStepOut(sys dynamo.System[S, T], in S, t T, out S, dt T) error {
	if err := r.prepareDeriv(in); err != nil {
		return err
	}
	if err := r.eval(sys, in, r.dxdt, t); err != nil {
		return err
	}
	return r.Step(sys, in, r.dxdt, t, out, dt)
}

// DoStepDeriv advances x in place using the caller-supplied derivative.
func (r *RK4[S, V, T]) DoStepDeriv(sys dynamo.System[S, T], x, dxdt S, t, dt T) error {
	return r.Step(sys, x, dxdt, t, x, dt)
}

// AdjustSize sizes every scratch buffer to match x regardless of policy and
// reports whether any buffer was reallocated.
func (r *RK4[S, V, T]) AdjustSize(x S) (bool, error) {
	resized, err := r.resizeStages(x)
	if err != nil {
		return resized, err
	}
	ok, err := resize.Adjust(r.space, &r.dxdt, x)
	return resized || ok, err
}

// Reset re-arms resizers that only check once, so the next step re-sizes
// the buffers for a new problem.
func (r *RK4[S, V, T]) Reset() {
	resetResizer(r.resizer)
	resetResizer(r.derivResizer)
}

func (r *RK4[S, V, T]) resizeStages(x S) (bool, error) {
	resized := false
	for _, buf := range []*S{&r.xTmp, &r.k2, &r.k3, &r.k4} {
		ok, err := resize.Adjust(r.space, buf, x)
		if err != nil {
			return resized, err
		}
		resized = resized || ok
	}
	return resized, nil
}

func (r *RK4[S, V, T]) checkStages(n int) error {
	if got := r.space.Len(r.xTmp); got != n {
		return mismatch("stage state buffer", n, got)
	}
	for _, buf := range []S{r.k2, r.k3, r.k4} {
		if got := r.space.Len(buf); got != n {
			return mismatch("stage derivative buffer", n, got)
		}
	}
	return nil
}

func (r *RK4[S, V, T]) prepareDeriv(x S) error {
	if _, err := r.derivResizer.AdjustSize(func() (bool, error) { return resize.Adjust(r.space, &r.dxdt, x) }); err != nil {
		return err
	}
	if n, got := r.space.Len(x), r.space.Len(r.dxdt); got != n {
		return mismatch("derivative buffer", n, got)
	}
	return nil
}

func (r *RK4[S, V, T]) eval(sys dynamo.System[S, T], x, dxdt S, t T) error {
	r.evals++
	return sys(x, dxdt, t)
}
