// Package export renders stored trajectories to files outside the terminal.
package export

import (
	"bufio"
	"fmt"
	"io"
)

// PhaseSVG draws the path of state components xIdx and yIdx as an SVG
// polyline scaled to width x height with ten percent padding.
func PhaseSVG(w io.Writer, states [][]float64, xIdx, yIdx, width, height int, strokeColor string) error {
	if len(states) < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", len(states))
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	dim := len(states[0])
	if xIdx < 0 || xIdx >= dim || yIdx < 0 || yIdx >= dim {
		return fmt.Errorf("axes (%d, %d) out of range for %d components", xIdx, yIdx, dim)
	}

	minX, maxX := states[0][xIdx], states[0][xIdx]
	minY, maxY := states[0][yIdx], states[0][yIdx]
	for _, s := range states {
		minX, maxX = min(minX, s[xIdx]), max(maxX, s[xIdx])
		minY, maxY = min(minY, s[yIdx]), max(maxY, s[yIdx])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, s := range states {
		x := (s[xIdx] - minX) / rangeX * float64(width)
		y := float64(height) - (s[yIdx]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}

	bw.WriteString("\"/>\n</svg>\n")
	return bw.Flush()
}
