package metrics

import (
	"math"

	"github.com/san-kum/sandbox/internal/sim"
)

// Momentum reports the magnitude of the total linear momentum in the last
// observed frame.
type Momentum struct {
	name string
	last float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(f sim.Frame) {
	var px, py float64
	for _, b := range f.Bodies {
		px += b.Mass * b.Velocity.X
		py += b.Mass * b.Velocity.Y
	}
	m.last = math.Hypot(px, py)
}

func (m *Momentum) Value() float64 { return m.last }
func (m *Momentum) Reset()         { m.last = 0 }

// Bounces reports the cumulative wall contact count.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string        { return b.name }
func (b *Bounces) Observe(f sim.Frame) { b.count = f.Bounces }
func (b *Bounces) Value() float64      { return float64(b.count) }
func (b *Bounces) Reset()              { b.count = 0 }
