package metrics

import (
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// Settling measures how steadily the system is calming down: the fraction
// of iterations in which the maximum displacement did not increase over
// the previous iteration.
type Settling struct {
	name     string
	prev     float64
	samples  int
	settling int
}

func NewSettling() *Settling {
	return &Settling{name: "settling"}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(positions []geom.Vec3, displacements []float64, iter int) {
	max := 0.0
	for _, d := range displacements {
		if d > max {
			max = d
		}
	}

	if s.samples > 0 && max <= s.prev {
		s.settling++
	}
	s.prev = max
	s.samples++
}

func (s *Settling) Value() float64 {
	if s.samples <= 1 {
		return 1.0
	}
	return float64(s.settling) / float64(s.samples-1)
}

func (s *Settling) Reset() {
	s.prev = 0
	s.samples = 0
	s.settling = 0
}
