package integrators

import (
	"testing"

	"github.com/san-kum/odestep/internal/algebra"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/resize"
)

func benchNBody(x, dxdt dynamo.State, t float64) error {
	for i := 0; i < len(x)/4; i++ {
		dxdt[i*4] = x[i*4+2]
		dxdt[i*4+1] = x[i*4+3]
		dxdt[i*4+2] = -x[i*4] * 0.1
		dxdt[i*4+3] = -x[i*4+1] * 0.1
	}
	return nil
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integrator.DoStep(harmonic, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	x := dynamo.State{1.0, 0.0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integrator.DoStep(harmonic, x, 0, 0.01)
	}
}

func BenchmarkRK4_AlwaysResize(b *testing.B) {
	integrator := NewRK4(WithPolicy(resize.PolicyAlways))
	x := dynamo.State{1.0, 0.0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integrator.DoStep(harmonic, x, 0, 0.01)
	}
}

func BenchmarkRK4_NBody5(b *testing.B) {
	integrator := NewRK4()
	x := make(dynamo.State, 20)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integrator.DoStep(benchNBody, x, 0, 0.001)
	}
}

func BenchmarkRK4_Parallel100k(b *testing.B) {
	integrator := NewRK4For[dynamo.State, float64, float64](
		resize.Slice[dynamo.State, float64]{},
		algebra.NewParallel[dynamo.State, float64](),
	)
	x := make(dynamo.State, 100_000)
	for i := range x {
		x[i] = float64(i%17) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integrator.DoStep(benchNBody, x, 0, 0.001)
	}
}
