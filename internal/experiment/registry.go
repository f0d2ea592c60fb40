package experiment

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/algebra"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/resize"
	"github.com/san-kum/odestep/internal/sim"
)

type sliceBuilder func(alg algebra.Algebra[dynamo.State, float64], opts ...integrators.Option) sim.Stepper

type vecBuilder func(opts ...integrators.Option) integrators.Stepper[*mat.VecDense, float64]

type method struct {
	slice sliceBuilder
	vec   vecBuilder
}

type Registry struct {
	methods map[string]method
}

func NewRegistry() *Registry {
	r := &Registry{methods: make(map[string]method)}

	r.methods["rk4"] = method{
		slice: func(alg algebra.Algebra[dynamo.State, float64], opts ...integrators.Option) sim.Stepper {
			return integrators.NewRK4For[dynamo.State, float64, float64](resize.Slice[dynamo.State, float64]{}, alg, opts...)
		},
		vec: func(opts ...integrators.Option) integrators.Stepper[*mat.VecDense, float64] {
			return integrators.NewRK4For[*mat.VecDense, float64, float64](resize.VecDense{}, algebra.Vector{}, opts...)
		},
	}
	r.methods["euler"] = method{
		slice: func(alg algebra.Algebra[dynamo.State, float64], opts ...integrators.Option) sim.Stepper {
			return integrators.NewEulerFor[dynamo.State, float64, float64](resize.Slice[dynamo.State, float64]{}, alg, opts...)
		},
		vec: func(opts ...integrators.Option) integrators.Stepper[*mat.VecDense, float64] {
			return integrators.NewEulerFor[*mat.VecDense, float64, float64](resize.VecDense{}, algebra.Vector{}, opts...)
		},
	}

	return r
}

// NewStepper builds a stepper over dynamo.State. workers only applies to the
// parallel algebra; zero picks GOMAXPROCS.
func (r *Registry) NewStepper(name, alg string, policy resize.Policy, workers int) (sim.Stepper, error) {
	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	opt := integrators.WithPolicy(policy)

	switch alg {
	case "range", "":
		return m.slice(algebra.Range[dynamo.State, float64]{}, opt), nil
	case "parallel":
		p := algebra.NewParallel[dynamo.State, float64]()
		if workers > 0 {
			p.Workers = workers
		}
		return m.slice(p, opt), nil
	case "vector":
		return newVecStepper(m.vec(opt)), nil
	}
	return nil, fmt.Errorf("unknown algebra: %s", alg)
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// vecStepper runs a gonum vector stepper on dynamo.State by viewing the
// caller's slices as *mat.VecDense without copying.
type vecStepper struct {
	inner         integrators.Stepper[*mat.VecDense, float64]
	in, dxdt, out mat.VecDense
}

func newVecStepper(inner integrators.Stepper[*mat.VecDense, float64]) *vecStepper {
	return &vecStepper{inner: inner}
}

func (v *vecStepper) Order() int { return v.inner.Order() }

func (v *vecStepper) Step(sys dynamo.Func, in, dxdt dynamo.State, t float64, out dynamo.State, dt float64) error {
	v.in.SetRawVector(view(in))
	v.dxdt.SetRawVector(view(dxdt))
	v.out.SetRawVector(view(out))

	vsys := func(x, d *mat.VecDense, t float64) error {
		return sys(x.RawVector().Data, d.RawVector().Data, t)
	}
	return v.inner.Step(vsys, &v.in, &v.dxdt, t, &v.out, dt)
}

func (v *vecStepper) Evaluations() uint64 {
	if c, ok := v.inner.(interface{ Evaluations() uint64 }); ok {
		return c.Evaluations()
	}
	return 0
}

func (v *vecStepper) Reset() {
	if rr, ok := v.inner.(interface{ Reset() }); ok {
		rr.Reset()
	}
}

func view(x dynamo.State) blas64.Vector {
	return blas64.Vector{N: len(x), Inc: 1, Data: x}
}
