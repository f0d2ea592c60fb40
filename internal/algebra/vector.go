package algebra

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/operations"
)

// Vector walks gonum dense vectors through their raw storage, honouring
// each vector's stride.
type Vector struct{}

func (Vector) ForEach3(s1, s2, s3 *mat.VecDense, op operations.Op3[float64]) {
	v1, v2, v3 := s1.RawVector(), s2.RawVector(), s3.RawVector()
	for i := 0; i < v1.N; i++ {
		op(&v1.Data[i*v1.Inc], v2.Data[i*v2.Inc], v3.Data[i*v3.Inc])
	}
}

func (Vector) ForEach6(s1, s2, s3, s4, s5, s6 *mat.VecDense, op operations.Op6[float64]) {
	v1, v2, v3 := s1.RawVector(), s2.RawVector(), s3.RawVector()
	v4, v5, v6 := s4.RawVector(), s5.RawVector(), s6.RawVector()
	for i := 0; i < v1.N; i++ {
		op(&v1.Data[i*v1.Inc],
			v2.Data[i*v2.Inc], v3.Data[i*v3.Inc], v4.Data[i*v4.Inc],
			v5.Data[i*v5.Inc], v6.Data[i*v6.Inc])
	}
}
