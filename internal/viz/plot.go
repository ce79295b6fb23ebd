// Package viz renders heating runs in the terminal: static trace plots
// and a live view of a run in progress.
package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/thermal"
)

// Plot renders the temperature trace of a run as an ASCII graph.
func Plot(samples []thermal.Sample, width, height int) string {
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Temperature
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("temperature (°C) vs step"),
	)
}
