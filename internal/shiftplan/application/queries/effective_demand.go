package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/services"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// EffectiveDemandQuery asks for the resolved per-slot demand on a date.
type EffectiveDemandQuery struct {
	Date time.Time
}

// EffectiveDemandResult is the resolved demand plus which tier supplied it.
type EffectiveDemandResult struct {
	Demand [domain.NumSlots]domain.DemandTriple
	Source domain.DemandSource
}

// EffectiveDemandHandler answers EffectiveDemandQuery, optionally reading
// through a cache since the result is cheap to recompute but read often
// (every CLI/MCP inspection of a day hits this).
type EffectiveDemandHandler struct {
	resolver *services.DemandResolver
	cache    DemandCache
}

// DemandCache is the read-through cache seam in front of the resolver.
// Implementations that never cache (e.g. a no-op) are valid.
type DemandCache interface {
	Get(ctx context.Context, date time.Time) (EffectiveDemandResult, bool, error)
	Set(ctx context.Context, date time.Time, result EffectiveDemandResult) error
}

func NewEffectiveDemandHandler(resolver *services.DemandResolver, cache DemandCache) *EffectiveDemandHandler {
	return &EffectiveDemandHandler{resolver: resolver, cache: cache}
}

func (h *EffectiveDemandHandler) Handle(ctx context.Context, q EffectiveDemandQuery) (EffectiveDemandResult, error) {
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(ctx, q.Date); err == nil && ok {
			return cached, nil
		}
	}

	demand, source, err := h.resolver.Resolve(ctx, q.Date)
	if err != nil {
		return EffectiveDemandResult{}, fmt.Errorf("effective demand: %w", err)
	}
	result := EffectiveDemandResult{Demand: demand, Source: source}

	if h.cache != nil {
		_ = h.cache.Set(ctx, q.Date, result)
	}
	return result, nil
}
