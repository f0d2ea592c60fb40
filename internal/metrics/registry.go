package metrics

import (
	"fmt"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/sim"
)

// DefaultStabilityThreshold bounds the state norm for the stability metric.
const DefaultStabilityThreshold = 100.0

// Names lists the metrics Build understands.
func Names() []string {
	return []string{"energy", "energy_drift", "max_norm", "stability"}
}

// Build constructs metrics by name. Energy based metrics are rejected for
// systems without a conserved energy.
func Build(names []string, sys any) ([]sim.Metric, error) {
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		switch name {
		case "stability":
			out = append(out, NewStability(DefaultStabilityThreshold))
		case "max_norm":
			out = append(out, NewMaxNorm())
		case "energy", "energy_drift":
			h, ok := sys.(dynamo.Hamiltonian)
			if !ok {
				return nil, fmt.Errorf("metric %s: system has no energy", name)
			}
			if name == "energy" {
				out = append(out, NewEnergy(h))
			} else {
				out = append(out, NewEnergyDrift(h))
			}
		default:
			return nil, fmt.Errorf("unknown metric: %s", name)
		}
	}
	return out, nil
}
