package algebra

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/operations"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ramp(n int, scale float64) dynamo.State {
	s := make(dynamo.State, n)
	for i := range s {
		s[i] = float64(i) * scale
	}
	return s
}

func TestRange_ForEach3(t *testing.T) {
	alg := Range[dynamo.State, float64]{}
	out := make(dynamo.State, 3)

	alg.ForEach3(out, dynamo.State{1, 2, 3}, dynamo.State{10, 20, 30}, operations.ScaleSum2(1.0, 0.5))

	assert.Equal(t, dynamo.State{6, 12, 18}, out)
}

func TestRange_ForEach6(t *testing.T) {
	alg := Range[[]float32, float32]{}
	out := make([]float32, 2)
	one := []float32{1, 1}

	alg.ForEach6(out, []float32{1, 2}, one, one, one, one, operations.ScaleSum5[float32](1, 1, 2, 3, 4))

	assert.Equal(t, []float32{11, 12}, out)
}

func TestRange_Aliasing(t *testing.T) {
	alg := Range[dynamo.State, float64]{}
	x := dynamo.State{1, 2, 3}

	alg.ForEach3(x, x, dynamo.State{1, 1, 1}, operations.ScaleSum2(2.0, 1.0))

	assert.Equal(t, dynamo.State{3, 5, 7}, x)
}

func TestParallel_MatchesRange(t *testing.T) {
	const n = 10_000
	par := Parallel[dynamo.State, float64]{Workers: 4, MinChunk: 1000}
	seq := Range[dynamo.State, float64]{}

	a, b := ramp(n, 0.5), ramp(n, -0.25)
	c, d, e := ramp(n, 1), ramp(n, 2), ramp(n, 3)

	want := make(dynamo.State, n)
	got := make(dynamo.State, n)
	seq.ForEach3(want, a, b, operations.ScaleSum2(1.0, 0.1))
	par.ForEach3(got, a, b, operations.ScaleSum2(1.0, 0.1))
	require.Equal(t, want, got)

	op := operations.ScaleSum5(1.0, 1.0/6, 1.0/3, 1.0/3, 1.0/6)
	seq.ForEach6(want, a, b, c, d, e, op)
	par.ForEach6(got, a, b, c, d, e, op)
	require.Equal(t, want, got)
}

func TestParallelFor_Coverage(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		minChunk int
		workers  int
	}{
		{"below min chunk", 10, 100, 4},
		{"single worker", 1000, 10, 1},
		{"uneven split", 1001, 100, 4},
		{"more workers than chunks", 250, 100, 8},
		{"zero min chunk", 64, 0, 4},
		{"empty", 0, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.n)
			var calls atomic.Int32
			ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
				calls.Add(1)
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})

			for i, v := range seen {
				if v != 1 {
					t.Fatalf("index %d visited %d times", i, v)
				}
			}
			assert.LessOrEqual(t, int(calls.Load()), max(tt.workers, 1))
		})
	}
}

func TestNewParallel(t *testing.T) {
	p := NewParallel[dynamo.State, float64]()
	assert.GreaterOrEqual(t, p.Workers, 1)
	assert.Equal(t, DefaultMinChunk, p.MinChunk)
}

func TestVector_ForEach(t *testing.T) {
	alg := Vector{}
	out := mat.NewVecDense(3, nil)
	x := mat.NewVecDense(3, []float64{1, 2, 3})
	k := mat.NewVecDense(3, []float64{2, 2, 2})

	alg.ForEach3(out, x, k, operations.ScaleSum2(1.0, 0.5))
	assert.Equal(t, []float64{2, 3, 4}, out.RawVector().Data)

	alg.ForEach6(out, x, k, k, k, k, operations.ScaleSum5(1.0, 1.0, 1.0, 1.0, 1.0))
	assert.Equal(t, []float64{9, 10, 11}, out.RawVector().Data)
}

func TestVector_Strided(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	col := m.ColView(1).(*mat.VecDense)
	out := mat.NewVecDense(3, nil)
	zero := mat.NewVecDense(3, nil)

	Vector{}.ForEach3(out, col, zero, operations.ScaleSum2(1.0, 1.0))

	assert.Equal(t, []float64{10, 20, 30}, out.RawVector().Data)
}
