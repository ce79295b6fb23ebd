// Package thermal provides the core types for simulating a fixed-mass
// water store heated at constant power.
//
// The package defines:
//
//   - [Params]: physical and simulation parameters with named defaults
//   - [Tank]: the constant-power heating model
//   - [State], [Sample], [Result]: per-run simulation state and output
//   - [Metric], [Observer]: per-step observation hooks
//
// # Example
//
//	tank, _ := thermal.NewTank(thermal.Params{
//		Mass:           10000,
//		InitialTemp:    20,
//		TargetTemp:     60,
//		Collectors:     25,
//		CollectorPower: 4,
//	})
//	rise := tank.StepRise(tank.Params().TimeStep)
//
// # Thread Safety
//
// Params and Tank are immutable after construction and safe to share.
// Result values belong to a single run.
package thermal
