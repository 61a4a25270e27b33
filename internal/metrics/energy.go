package metrics

import (
	"math"

	"github.com/san-kum/sandbox/internal/sim"
)

func totalKE(f sim.Frame) float64 {
	var ke float64
	for _, b := range f.Bodies {
		ke += b.KineticEnergy()
	}
	return ke
}

// KineticEnergy averages the total kinetic energy over observed frames.
type KineticEnergy struct {
	name    string
	samples int
	sum     float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f sim.Frame) {
	e.sum += totalKE(f)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change in total kinetic energy
// from the first observed frame. Frames whose body count differs from the
// first one are skipped since spawning adds energy by construction.
type EnergyDrift struct {
	name     string
	initial  float64
	bodies   int
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	energy := totalKE(f)
	if e.samples == 0 {
		e.initial = energy
		e.bodies = len(f.Bodies)
	}
	e.samples++

	if len(f.Bodies) != e.bodies || e.initial == 0 {
		return
	}
	drift := math.Abs(energy-e.initial) / e.initial
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.bodies = 0
	e.maxDrift = 0
	e.samples = 0
}
