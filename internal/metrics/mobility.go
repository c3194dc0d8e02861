package metrics

import (
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// Mobility is the mean of the per-iteration maximum displacement, a rough
// measure of how much total motion a run needed to settle.
type Mobility struct {
	name    string
	sum     float64
	samples int
}

func NewMobility() *Mobility {
	return &Mobility{name: "mobility"}
}

func (m *Mobility) Name() string { return m.name }

func (m *Mobility) Observe(positions []geom.Vec3, displacements []float64, iter int) {
	max := 0.0
	for _, d := range displacements {
		if d > max {
			max = d
		}
	}
	m.sum += max
	m.samples++
}

func (m *Mobility) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mobility) Reset() {
	m.sum = 0
	m.samples = 0
}
