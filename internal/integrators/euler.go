package integrators

import (
	"github.com/san-kum/odestep/internal/algebra"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/operations"
	"github.com/san-kum/odestep/internal/resize"
)

// Euler is the explicit first-order Euler stepper. It needs no stage
// buffers; dxdt is only used by DoStep.
type Euler[S any, V, T dynamo.Float] struct {
	space        resize.Space[S]
	algebra      algebra.Algebra[S, V]
	derivResizer resize.Resizer
	dxdt         S
	evals        uint64
}

func NewEuler(opts ...Option) *Euler[dynamo.State, float64, float64] {
	return NewEulerFor[dynamo.State, float64, float64](
		resize.Slice[dynamo.State, float64]{},
		algebra.Range[dynamo.State, float64]{},
		opts...,
	)
}

func NewEulerFor[S any, V, T dynamo.Float](space resize.Space[S], alg algebra.Algebra[S, V], opts ...Option) *Euler[S, V, T] {
	o := buildOptions(opts)
	return &Euler[S, V, T]{
		space:        space,
		algebra:      alg,
		derivResizer: o.resizer,
		dxdt:         space.New(),
	}
}

func (e *Euler[S, V, T]) Order() int          { return 1 }
func (e *Euler[S, V, T]) StageCount() int     { return 1 }
func (e *Euler[S, V, T]) Evaluations() uint64 { return e.evals }

func (e *Euler[S, V, T]) Step(_ dynamo.System[S, T], in, dxdt S, _ T, out S, dt T) error {
	n := e.space.Len(in)
	if got := e.space.Len(dxdt); got != n {
		return mismatch("derivative", n, got)
	}
	if got := e.space.Len(out); got != n {
		return mismatch("output", n, got)
	}
	e.algebra.ForEach3(out, in, dxdt, operations.ScaleSum2(V(1), V(dt)))
	return nil
}

func (e *Euler[S, V, T]) DoStep(sys dynamo.System[S, T], x S, t, dt T) error {
	if _, err := e.derivResizer.AdjustSize(func() (bool, error) { return resize.Adjust(e.space, &e.dxdt, x) }); err != nil {
		return err
	}
	if n, got := e.space.Len(x), e.space.Len(e.dxdt); got != n {
		return mismatch("derivative buffer", n, got)
	}
	e.evals++
	if err := sys(x, e.dxdt, t); err != nil {
		return err
	}
	return e.Step(sys, x, e.dxdt, t, x, dt)
}

func (e *Euler[S, V, T]) Reset() {
	resetResizer(e.derivResizer)
}
