package thermal

import (
	"fmt"
	"math"
)

const (
	// DefaultSpecificHeat is the specific heat capacity of water in J/kg°C.
	DefaultSpecificHeat = 4186.0

	// DefaultTimeStep is the simulation step in seconds.
	DefaultTimeStep = 60.0
)

// Params holds the physical and simulation parameters for one heating run.
type Params struct {
	Mass           float64 // water mass, kg
	SpecificHeat   float64 // J/kg°C
	InitialTemp    float64 // °C
	TargetTemp     float64 // °C
	Collectors     int     // number of collector units
	CollectorPower float64 // per-collector output, kW
	TimeStep       float64 // seconds per step
}

// WithDefaults returns a copy with zero-valued optional fields replaced by
// the named defaults. Required fields (mass, temperatures, collectors) are
// left untouched.
func (p Params) WithDefaults() Params {
	if p.SpecificHeat == 0 {
		p.SpecificHeat = DefaultSpecificHeat
	}
	if p.TimeStep == 0 {
		p.TimeStep = DefaultTimeStep
	}
	return p
}

func (p Params) Validate() error {
	if p.Mass <= 0 || math.IsNaN(p.Mass) {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidParameter, p.Mass)
	}
	if p.SpecificHeat <= 0 || math.IsNaN(p.SpecificHeat) {
		return fmt.Errorf("%w: specific heat must be positive, got %g", ErrInvalidParameter, p.SpecificHeat)
	}
	if p.TimeStep <= 0 || math.IsNaN(p.TimeStep) {
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidParameter, p.TimeStep)
	}
	if math.IsNaN(p.InitialTemp) || math.IsInf(p.InitialTemp, 0) {
		return fmt.Errorf("%w: initial temperature must be finite, got %g", ErrInvalidParameter, p.InitialTemp)
	}
	if math.IsNaN(p.TargetTemp) || math.IsInf(p.TargetTemp, 0) {
		return fmt.Errorf("%w: target temperature must be finite, got %g", ErrInvalidParameter, p.TargetTemp)
	}
	if p.Collectors < 0 {
		return fmt.Errorf("%w: collector count must be non-negative, got %d", ErrInvalidParameter, p.Collectors)
	}
	if p.CollectorPower < 0 || math.IsNaN(p.CollectorPower) {
		return fmt.Errorf("%w: collector power must be non-negative, got %g", ErrInvalidParameter, p.CollectorPower)
	}
	return nil
}

// State is the mutable simulation state: current water temperature and the
// simulated time elapsed so far. Elapsed is always an integer multiple of
// the configured time step.
type State struct {
	Temperature float64 // °C
	Elapsed     float64 // seconds
}

func (s State) IsValid() bool {
	return !math.IsNaN(s.Temperature) && !math.IsInf(s.Temperature, 0)
}

// Sample is one trace point for plotting and export.
type Sample struct {
	Time        float64 // seconds
	Temperature float64 // °C
}

// Result is the outcome of one heating run.
type Result struct {
	ElapsedSeconds float64
	Steps          int
	FinalTemp      float64
	Stalled        bool // per-step rise was zero, negative, or non-finite
	Trace          []Sample
	Metrics        map[string]float64
}

// Metric accumulates an observation each step and reports a scalar value
// at the end of a run.
type Metric interface {
	Name() string
	Observe(s State, dt float64)
	Value() float64
	Reset()
}

// Observer is notified after every applied step.
type Observer interface {
	OnStep(s State)
}
