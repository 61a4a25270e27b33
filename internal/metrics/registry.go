package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/sandbox/internal/sim"
)

// DefaultStabilitySpeed is the speed limit used by the "stability" metric
// when built by name.
const DefaultStabilitySpeed = 1000.0

var builders = map[string]func() sim.Metric{
	"kinetic_energy": func() sim.Metric { return NewKineticEnergy() },
	"energy_drift":   func() sim.Metric { return NewEnergyDrift() },
	"momentum":       func() sim.Metric { return NewMomentum() },
	"bounces":        func() sim.Metric { return NewBounces() },
	"stability":      func() sim.Metric { return NewStability(DefaultStabilitySpeed) },
	"peak_speed":     func() sim.Metric { return NewPeakSpeed() },
}

func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build returns fresh metrics for names. An empty list builds all of them.
func Build(names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, n := range names {
		b, ok := builders[n]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", n)
		}
		out = append(out, b())
	}
	return out, nil
}
