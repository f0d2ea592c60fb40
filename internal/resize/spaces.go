package resize

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/dynamo"
)

var errNegativeSize = errors.New("negative size")

// Slice is the space of growable slices such as dynamo.State or []float32.
type Slice[S ~[]V, V dynamo.Float] struct{}

func (Slice[S, V]) New() S {
	return nil
}

func (Slice[S, V]) Len(x S) int {
	return len(x)
}

func (Slice[S, V]) Resizeability() Resizeability {
	return Resizeable
}

func (Slice[S, V]) Resize(buf *S, n int) error {
	if n < 0 {
		return errNegativeSize
	}
	if cap(*buf) >= n {
		*buf = (*buf)[:n]
		clear(*buf)
		return nil
	}
	*buf = make(S, n)
	return nil
}

// Fixed is a space of slices whose length is set once, the analogue of a
// compile-time array. Buffers are allocated by New and never resized; a
// state of another length is a caller error reported by the stepper.
type Fixed[S ~[]V, V dynamo.Float] struct {
	N int
}

func (f Fixed[S, V]) New() S {
	return make(S, f.N)
}

func (Fixed[S, V]) Len(x S) int {
	return len(x)
}

func (Fixed[S, V]) Resizeability() Resizeability {
	return FixedSize
}

func (f Fixed[S, V]) Resize(_ *S, n int) error {
	return fmt.Errorf("fixed space of %d elements cannot hold %d", f.N, n)
}

// VecDense is the space of gonum dense vectors.
type VecDense struct{}

func (VecDense) New() *mat.VecDense {
	return &mat.VecDense{}
}

func (VecDense) Len(x *mat.VecDense) int {
	if x == nil {
		return 0
	}
	return x.Len()
}

func (VecDense) Resizeability() Resizeability {
	return Resizeable
}

func (VecDense) Resize(buf **mat.VecDense, n int) error {
	if n < 0 {
		return errNegativeSize
	}
	if *buf == nil {
		*buf = &mat.VecDense{}
	}
	(*buf).Reset()
	if n > 0 {
		(*buf).ReuseAsVec(n)
	}
	return nil
}
