// Package operations holds the per-element arithmetic kernels applied by an
// algebra. A kernel is built once from scalar coefficients and then called
// for every element of the aligned containers.
package operations

import "github.com/san-kum/odestep/internal/dynamo"

// Op3 writes a combination of two source elements into t1.
type Op3[V dynamo.Float] func(t1 *V, t2, t3 V)

// Op6 writes a combination of five source elements into t1.
type Op6[V dynamo.Float] func(t1 *V, t2, t3, t4, t5, t6 V)

// ScaleSum2 returns t1 = a1*t2 + a2*t3.
func ScaleSum2[V dynamo.Float](a1, a2 V) Op3[V] {
	return func(t1 *V, t2, t3 V) {
		*t1 = a1*t2 + a2*t3
	}
}

// ScaleSum5 returns t1 = a1*t2 + a2*t3 + a3*t4 + a4*t5 + a5*t6.
func ScaleSum5[V dynamo.Float](a1, a2, a3, a4, a5 V) Op6[V] {
	return func(t1 *V, t2, t3, t4, t5, t6 V) {
		*t1 = a1*t2 + a2*t3 + a3*t4 + a4*t5 + a5*t6
	}
}
