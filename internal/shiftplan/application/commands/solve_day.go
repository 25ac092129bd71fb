package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/services"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	sharedApplication "github.com/felixgeelhaar/orbita/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/orbita/internal/shared/domain"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/outbox"
)

// SolveDayCommand requests a solve for a single operating day.
type SolveDayCommand struct {
	Date time.Time
}

func (SolveDayCommand) CommandName() string { return "shiftplan.solve_day" }

// SolveDayResult carries the solve outcome plus the projected intervals
// when a feasible assignment was found.
type SolveDayResult struct {
	Outcome   domain.SolveOutcome
	Intervals []domain.Interval
}

// SolveDayHandler orchestrates build -> solve -> project -> publish for one
// day, recording the result as a domain event through the outbox so
// downstream consumers (notifications, dashboards) learn about it without
// the core depending on them directly.
type SolveDayHandler struct {
	instanceBuilder *services.InstanceBuilder
	solver          *services.Solver
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
}

func NewSolveDayHandler(instanceBuilder *services.InstanceBuilder, solver *services.Solver, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SolveDayHandler {
	return &SolveDayHandler{
		instanceBuilder: instanceBuilder,
		solver:          solver,
		outboxRepo:      outboxRepo,
		uow:             uow,
	}
}

// Handle runs a solve for cmd.Date and persists the resulting domain event.
// The assignment itself is not persisted by this handler: spec.md treats a
// solve as a read-through computation, not a stored schedule, so only the
// event (and its summary) is written.
func (h *SolveDayHandler) Handle(ctx context.Context, cmd SolveDayCommand) (*SolveDayResult, error) {
	instance, err := h.instanceBuilder.Build(ctx, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("solve day: %w", err)
	}

	outcome := h.solver.Solve(ctx, instance)

	result := &SolveDayResult{Outcome: outcome}
	if outcome.Feasible() {
		intervals, err := services.Project(outcome)
		if err != nil {
			return nil, fmt.Errorf("solve day: %w", err)
		}
		result.Intervals = intervals
	}

	// NoStaff and Unknown are precondition/infrastructure failures, not
	// solve results worth recording as a domain event.
	if outcome.Status == domain.StatusOptimal || outcome.Status == domain.StatusFeasible || outcome.Status == domain.StatusInfeasible {
		event := eventFor(instance.Date, outcome)
		err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			return h.outboxRepo.SaveBatch(txCtx, []*outbox.Message{msg})
		})
		if err != nil {
			return nil, fmt.Errorf("solve day: record event: %w", err)
		}
	}

	return result, nil
}

func eventFor(date string, outcome domain.SolveOutcome) sharedDomain.DomainEvent {
	if outcome.Feasible() {
		assigned := 0
		used := 0
		for _, row := range outcome.Assignment {
			worked := false
			for _, v := range row {
				if v {
					used++
					worked = true
				}
			}
			if worked {
				assigned++
			}
		}
		return domain.NewDaySolved(date, outcome.Status, assigned, used)
	}
	return domain.NewDayInfeasible(date, outcome.Reason, outcome.Diagnosis)
}
