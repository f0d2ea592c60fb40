package metrics

import (
	"github.com/san-kum/odestep/internal/dynamo"
)

// Stability is the fraction of observed states whose norm stays within
// threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	if x.Norm() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxNorm tracks the largest state norm seen.
type MaxNorm struct {
	max float64
}

func NewMaxNorm() *MaxNorm { return &MaxNorm{} }

func (m *MaxNorm) Name() string { return "max_norm" }

func (m *MaxNorm) Observe(x dynamo.State, t float64) {
	if n := x.Norm(); n > m.max {
		m.max = n
	}
}

func (m *MaxNorm) Value() float64 { return m.max }

func (m *MaxNorm) Reset() { m.max = 0 }
