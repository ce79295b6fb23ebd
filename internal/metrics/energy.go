package metrics

import "github.com/san-kum/heatsim/internal/thermal"

// EnergyDelivered accumulates the total heat input over a run, in joules.
type EnergyDelivered struct {
	power float64 // watts
	total float64
}

func NewEnergyDelivered(powerWatts float64) *EnergyDelivered {
	return &EnergyDelivered{power: powerWatts}
}

func (e *EnergyDelivered) Name() string { return "energy_delivered_j" }

func (e *EnergyDelivered) Observe(s thermal.State, dt float64) {
	e.total += e.power * dt
}

func (e *EnergyDelivered) Value() float64 { return e.total }

func (e *EnergyDelivered) Reset() { e.total = 0 }
