package domain

import "errors"

var (
	// ErrNoStaff indicates the staff roster is empty at solve time. This is
	// surfaced distinctly from Infeasible: an empty roster is not a
	// constraint failure, it is a precondition the caller must fix.
	ErrNoStaff = errors.New("no staff registered for this day")

	// ErrSolverUnavailable is the reason attached to an Unknown outcome when
	// the circuit breaker protecting the CP-SAT backend is open.
	ErrSolverUnavailable = errors.New("solver backend unavailable")

	// ErrSolverTimeout is the reason attached to an Unknown outcome when the
	// solver exhausted its time budget without finding a feasible incumbent.
	ErrSolverTimeout = errors.New("solver timed out without a feasible incumbent")
)
