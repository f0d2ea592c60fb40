// Package algebra applies operation kernels element-wise across aligned
// state containers.
//
// An Algebra knows how to walk a container type; the kernels from the
// operations package know what to compute per element. Steppers combine
// the two so the same Runge-Kutta code runs over slices, fixed-length
// arrays or gonum vectors.
//
// Kernels are called through func values: one indirect call per element.
// The element loops themselves are monomorphised per container type.
package algebra

import (
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/operations"
)

// Algebra iterates a kernel over 3 or 6 containers of equal length. The
// first container is the target and may alias any source.
type Algebra[S any, V dynamo.Float] interface {
	ForEach3(s1, s2, s3 S, op operations.Op3[V])
	ForEach6(s1, s2, s3, s4, s5, s6 S, op operations.Op6[V])
}

// Range walks slices in index order.
type Range[S ~[]V, V dynamo.Float] struct{}

func (Range[S, V]) ForEach3(s1, s2, s3 S, op operations.Op3[V]) {
	n := len(s1)
	s2, s3 = s2[:n], s3[:n]
	for i := range s1 {
		op(&s1[i], s2[i], s3[i])
	}
}

func (Range[S, V]) ForEach6(s1, s2, s3, s4, s5, s6 S, op operations.Op6[V]) {
	n := len(s1)
	s2, s3, s4, s5, s6 = s2[:n], s3[:n], s4[:n], s5[:n], s6[:n]
	for i := range s1 {
		op(&s1[i], s2[i], s3[i], s4[i], s5[i], s6[i])
	}
}
