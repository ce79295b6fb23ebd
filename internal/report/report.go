// Package report renders heating-run results for display and export.
package report

import "fmt"

// Elapsed is a three-way rendering of a duration in simulated seconds.
type Elapsed struct {
	Seconds float64
	Minutes float64
	Hours   float64
}

func Breakdown(seconds float64) Elapsed {
	return Elapsed{
		Seconds: seconds,
		Minutes: seconds / 60,
		Hours:   seconds / 3600,
	}
}

func (e Elapsed) String() string {
	return fmt.Sprintf("%.2f seconds (%.2f minutes, %.2f hours)", e.Seconds, e.Minutes, e.Hours)
}
