// Package integrator runs the fixed-step heating loop: explicit Euler
// integration of a constant-power heat input, advancing until the target
// temperature is reached or the per-step rise stalls.
package integrator

import (
	"context"
	"math"

	"github.com/san-kum/heatsim/internal/thermal"
)

// Runner executes heating runs for one parameter set. It does not
// validate the parameters; use Simulate for the checked entry point.
// A Runner is not safe for concurrent use, but distinct Runners are
// fully independent.
type Runner struct {
	params    thermal.Params
	metrics   []thermal.Metric
	observers []thermal.Observer

	// KeepTrace records a Sample per step (plus the initial state) in
	// the Result.
	KeepTrace bool

	// MaxSteps aborts the run with ErrStepLimit once this many steps
	// have been applied without reaching the target. Zero means no cap.
	MaxSteps int
}

func New(params thermal.Params) *Runner {
	return &Runner{params: params}
}

func (r *Runner) AddMetric(m thermal.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o thermal.Observer) { r.observers = append(r.observers, o) }

// Run advances the temperature by StepRise per time step until it reaches
// the target. The loop stops early when the rise is zero, negative, or
// non-finite, or when adding the rise leaves the temperature unchanged
// (a positive rise below the float spacing at the current temperature
// makes no progress and would otherwise loop forever). The step that
// exposed the stall still counts toward the elapsed time, so a
// zero-power run returns exactly one time step.
func (r *Runner) Run(ctx context.Context) (*thermal.Result, error) {
	p := r.params
	dt := p.TimeStep

	for _, m := range r.metrics {
		m.Reset()
	}

	state := thermal.State{Temperature: p.InitialTemp}
	result := &thermal.Result{Metrics: make(map[string]float64)}
	if r.KeepTrace {
		result.Trace = append(result.Trace, thermal.Sample{Time: 0, Temperature: state.Temperature})
	}

	for state.Temperature < p.TargetTemp {
		select {
		case <-ctx.Done():
			r.finish(result, state)
			return result, ctx.Err()
		default:
		}

		rise := p.StepRise(dt)
		prev := state.Temperature
		state.Temperature += rise
		state.Elapsed += dt
		result.Steps++

		for _, m := range r.metrics {
			m.Observe(state, dt)
		}
		for _, o := range r.observers {
			o.OnStep(state)
		}
		if r.KeepTrace {
			result.Trace = append(result.Trace, thermal.Sample{Time: state.Elapsed, Temperature: state.Temperature})
		}

		if math.IsNaN(rise) || math.IsInf(rise, 0) {
			result.Stalled = true
			r.finish(result, state)
			return result, thermal.ErrNonFiniteRise
		}
		if rise <= 0 || state.Temperature == prev {
			result.Stalled = true
			break
		}
		if r.MaxSteps > 0 && result.Steps >= r.MaxSteps && state.Temperature < p.TargetTemp {
			r.finish(result, state)
			return result, thermal.ErrStepLimit
		}
	}

	r.finish(result, state)
	return result, nil
}

func (r *Runner) finish(result *thermal.Result, state thermal.State) {
	result.ElapsedSeconds = state.Elapsed
	result.FinalTemp = state.Temperature
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Simulate validates the parameters, fills defaults, and runs the heating
// loop to completion. A target at or below the initial temperature is a
// normal outcome returning zero elapsed time. Pure: identical inputs give
// identical results, and concurrent calls are safe.
func Simulate(ctx context.Context, params thermal.Params) (*thermal.Result, error) {
	tank, err := thermal.NewTank(params)
	if err != nil {
		return nil, err
	}
	r := New(tank.Params())
	r.KeepTrace = true
	return r.Run(ctx)
}
