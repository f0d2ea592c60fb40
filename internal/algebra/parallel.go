package algebra

import (
	"runtime"
	"sync"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/operations"
)

// DefaultMinChunk is the smallest slice length worth splitting.
const DefaultMinChunk = 4096

// Parallel splits slice loops into contiguous chunks processed by separate
// goroutines. Element order inside a chunk is preserved; chunks run in no
// particular order. Short slices run on the calling goroutine.
type Parallel[S ~[]V, V dynamo.Float] struct {
	Workers  int
	MinChunk int
}

// NewParallel returns a Parallel algebra using GOMAXPROCS workers.
func NewParallel[S ~[]V, V dynamo.Float]() Parallel[S, V] {
	return Parallel[S, V]{
		Workers:  runtime.GOMAXPROCS(0),
		MinChunk: DefaultMinChunk,
	}
}

func (p Parallel[S, V]) ForEach3(s1, s2, s3 S, op operations.Op3[V]) {
	n := len(s1)
	s2, s3 = s2[:n], s3[:n]
	ParallelFor(n, p.MinChunk, p.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			op(&s1[i], s2[i], s3[i])
		}
	})
}

func (p Parallel[S, V]) ForEach6(s1, s2, s3, s4, s5, s6 S, op operations.Op6[V]) {
	n := len(s1)
	s2, s3, s4, s5, s6 = s2[:n], s3[:n], s4[:n], s5[:n], s6[:n]
	ParallelFor(n, p.MinChunk, p.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			op(&s1[i], s2[i], s3[i], s4[i], s5[i], s6[i])
		}
	})
}

// ParallelFor executes fn over [0, n) split into at most numWorkers chunks
// of at least minChunk elements, and waits for all of them.
func ParallelFor(n, minChunk, numWorkers int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
