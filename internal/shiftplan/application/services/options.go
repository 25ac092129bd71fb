package services

import (
	"math"
	"time"
)

// SolverOptions are the operator-tunable knobs passed to a solve, matching
// spec.md's "single struct passed to solve".
type SolverOptions struct {
	MinWorkHours     float64
	NewbieMaxPerSlot int
	DefaultDemandMin int
	DefaultDemandTgt int
	DefaultDemandMax int
	SolverTimeLimit  time.Duration
}

// DefaultSolverOptions returns the documented defaults from spec.md §6.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MinWorkHours:     3.0,
		NewbieMaxPerSlot: 2,
		DefaultDemandMin: 2,
		DefaultDemandTgt: 3,
		DefaultDemandMax: 4,
		SolverTimeLimit:  30 * time.Second,
	}
}

// minSlots computes MIN_SLOTS = max(6, floor(2 * min_work_hours)).
func minSlots(minWorkHours float64) int {
	m := int(math.Floor(2 * minWorkHours))
	if m < 6 {
		return 6
	}
	return m
}
