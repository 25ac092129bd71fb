package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// Solver is the solve driver named in spec.md §4.5: it turns a day instance
// into a CP-SAT model, runs it behind a circuit breaker, and translates the
// result into a typed SolveOutcome. On Infeasible it hands off to the
// Diagnoser so callers get a cause, not just a status.
type solveResult struct {
	status     domain.SolveStatus
	assignment domain.Assignment
}

type Solver struct {
	breaker   *gobreaker.CircuitBreaker[solveResult]
	diagnoser *Diagnoser
	logger    *slog.Logger
	opts      SolverOptions
}

func NewSolver(diagnoser *Diagnoser, logger *slog.Logger, opts SolverOptions) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:    "shiftplan.solve",
		Timeout: opts.SolverTimeLimit,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("shiftplan solver circuit breaker state changed",
				"from", from.String(), "to", to.String())
		},
	}
	return &Solver{
		breaker:   gobreaker.NewCircuitBreaker[solveResult](settings),
		diagnoser: diagnoser,
		logger:    logger,
		opts:      opts,
	}
}

// Solve runs the optimizer for a single day instance.
func (s *Solver) Solve(ctx context.Context, instance domain.DayInstance) domain.SolveOutcome {
	if len(instance.Staff) == 0 {
		return domain.SolveOutcome{Status: domain.StatusNoStaff, Staff: instance.Staff, Reason: "no staff on roster"}
	}

	result, err := s.breaker.Execute(func() (solveResult, error) {
		model, err := buildModel(instance, s.opts)
		if err != nil {
			return solveResult{}, err
		}
		response, err := solveCpModel(model, s.opts.SolverTimeLimit)
		if err != nil {
			return solveResult{}, err
		}
		status := statusOf(response)
		switch status {
		case domain.StatusInfeasible:
			return solveResult{}, errInfeasible
		case domain.StatusUnknown:
			return solveResult{}, domain.ErrSolverTimeout
		default:
			return solveResult{status: status, assignment: extractAssignment(model, response, len(instance.Staff))}, nil
		}
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		s.logger.Error("shiftplan solver circuit open, refusing to solve", "date", instance.Date)
		return domain.SolveOutcome{Status: domain.StatusUnknown, Staff: instance.Staff, Reason: domain.ErrSolverUnavailable.Error()}
	case errors.Is(err, errInfeasible):
		diagnosis := s.diagnoser.Diagnose(instance)
		return domain.SolveOutcome{Status: domain.StatusInfeasible, Staff: instance.Staff, Reason: "no feasible assignment satisfies all constraints", Diagnosis: diagnosis}
	case errors.Is(err, domain.ErrSolverTimeout):
		return domain.SolveOutcome{Status: domain.StatusUnknown, Staff: instance.Staff, Reason: domain.ErrSolverTimeout.Error()}
	case err != nil:
		s.logger.Error("shiftplan solve failed", "date", instance.Date, "error", err)
		return domain.SolveOutcome{Status: domain.StatusUnknown, Staff: instance.Staff, Reason: err.Error()}
	default:
		return domain.SolveOutcome{Status: result.status, Assignment: result.assignment, Staff: instance.Staff}
	}
}

var errInfeasible = errors.New("shiftplan: model is infeasible")
