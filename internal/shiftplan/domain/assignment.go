package domain

import "github.com/google/uuid"

// Assignment is the solver's decision matrix: A[i][s] == true means staff
// at roster position i is scheduled in slot s. Only defined for staff with
// a non-empty availability mask; always a subset of the availability mask.
type Assignment [][NumSlots]bool

// SolveStatus is the typed outcome of a solve(date) invocation.
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "Optimal"
	StatusFeasible   SolveStatus = "Feasible" // timeout with incumbent
	StatusInfeasible SolveStatus = "Infeasible"
	StatusUnknown    SolveStatus = "Unknown"
	StatusNoStaff    SolveStatus = "NoStaff"
)

// SolveOutcome is the structured result of a solve, matching the core API's
// SolveOutcome sum type. Only one of Assignment/Reason/Diagnosis is ever
// populated, depending on Status.
type SolveOutcome struct {
	Status     SolveStatus
	Assignment Assignment
	Staff      []Staff
	Reason     string
	Diagnosis  []DiagnosisEntry // populated only when Status == StatusInfeasible
}

// Feasible reports whether the outcome carries a usable assignment.
func (o SolveOutcome) Feasible() bool {
	return o.Status == StatusOptimal || o.Status == StatusFeasible
}

// Interval is a contiguous, half-open [Start, End) span of slot indices
// assigned to one staff member, with display labels attached.
type Interval struct {
	StaffID    uuid.UUID
	Name       string
	Role       RoleLabel
	Start      int
	End        int
	StartLabel string
	EndLabel   string
}

// DiagnosisCause enumerates the root-cause families the diagnoser reports.
type DiagnosisCause string

const (
	CauseInsufficientAvailable  DiagnosisCause = "InsufficientAvailable"
	CauseNoKeyPersonAvailable   DiagnosisCause = "NoKeyPersonAvailable"
	CauseNewbieCapBlocksMinimum DiagnosisCause = "NewbieCapBlocksMinimum"
)

// DiagnosisEntry is one per-slot finding from the infeasibility diagnoser.
type DiagnosisEntry struct {
	Slot       int
	SlotLabel  string
	Cause      DiagnosisCause
	Required   int // min[s]
	Available  int // total available staff, set for InsufficientAvailable
	Cap        int // assignable cap after the newbie rule, set for NewbieCapBlocksMinimum
}
