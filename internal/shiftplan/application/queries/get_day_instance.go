package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/services"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// GetDayInstanceQuery asks for the fully assembled solve input for a date,
// without running the solver. Useful for inspection and for the diagnose
// path, which needs the instance but never the optimizer.
type GetDayInstanceQuery struct {
	Date time.Time
}

type GetDayInstanceHandler struct {
	builder *services.InstanceBuilder
}

func NewGetDayInstanceHandler(builder *services.InstanceBuilder) *GetDayInstanceHandler {
	return &GetDayInstanceHandler{builder: builder}
}

func (h *GetDayInstanceHandler) Handle(ctx context.Context, q GetDayInstanceQuery) (domain.DayInstance, error) {
	instance, err := h.builder.Build(ctx, q.Date)
	if err != nil {
		return domain.DayInstance{}, fmt.Errorf("get day instance: %w", err)
	}
	return instance, nil
}
