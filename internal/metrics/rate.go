package metrics

import "github.com/san-kum/heatsim/internal/thermal"

// HeatingRate reports the mean temperature rise over a run in °C per
// minute, measured from the initial temperature to the last observed
// state.
type HeatingRate struct {
	initialTemp float64
	last        thermal.State
	samples     int
}

func NewHeatingRate(initialTemp float64) *HeatingRate {
	return &HeatingRate{initialTemp: initialTemp}
}

func (h *HeatingRate) Name() string { return "heating_rate_c_per_min" }

func (h *HeatingRate) Observe(s thermal.State, dt float64) {
	h.last = s
	h.samples++
}

func (h *HeatingRate) Value() float64 {
	if h.samples == 0 || h.last.Elapsed == 0 {
		return 0
	}
	return (h.last.Temperature - h.initialTemp) / (h.last.Elapsed / 60)
}

func (h *HeatingRate) Reset() {
	h.last = thermal.State{}
	h.samples = 0
}
