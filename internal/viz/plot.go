package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// MaxPlots caps how many state components PlotComponents draws.
const MaxPlots = 6

// PlotComponents draws one chart per state component against sample index.
// labels name components in order; missing labels fall back to x<i>.
func PlotComponents(states [][]float64, labels []string, width, height int) []string {
	if len(states) == 0 || len(states[0]) == 0 {
		return nil
	}

	numVars := len(states[0])
	if numVars > MaxPlots {
		numVars = MaxPlots
	}

	graphs := make([]string, 0, numVars)
	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("x%d vs time", varIdx)
		if varIdx < len(labels) {
			caption = labels[varIdx]
		}

		graphs = append(graphs, asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		))
	}
	return graphs
}

// ComponentLabels names the state components of the built-in systems.
func ComponentLabels(system string) []string {
	switch system {
	case "pendulum":
		return []string{"theta (angle)", "omega (angular velocity)"}
	case "harmonic":
		return []string{"x (position)", "v (velocity)"}
	case "vanderpol":
		return []string{"x", "y"}
	case "duffing":
		return []string{"x (position)", "v (velocity)", "phi (forcing phase)"}
	case "lorenz":
		return []string{"x", "y", "z"}
	}
	return nil
}
