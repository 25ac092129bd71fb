package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/services"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// DiagnoseDayQuery runs the independent infeasibility diagnoser for a date
// without invoking the CP-SAT solver, for a fast "why might this day fail"
// check before committing to a full solve.
type DiagnoseDayQuery struct {
	Date time.Time
}

type DiagnoseDayHandler struct {
	builder   *services.InstanceBuilder
	diagnoser *services.Diagnoser
}

func NewDiagnoseDayHandler(builder *services.InstanceBuilder, diagnoser *services.Diagnoser) *DiagnoseDayHandler {
	return &DiagnoseDayHandler{builder: builder, diagnoser: diagnoser}
}

func (h *DiagnoseDayHandler) Handle(ctx context.Context, q DiagnoseDayQuery) ([]domain.DiagnosisEntry, error) {
	instance, err := h.builder.Build(ctx, q.Date)
	if err != nil {
		return nil, fmt.Errorf("diagnose day: %w", err)
	}
	return h.diagnoser.Diagnose(instance), nil
}
