package services

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// DemandResolver computes the effective per-slot demand for a given date,
// falling back through override -> weekday template -> default triple.
type DemandResolver struct {
	demandRepo domain.DemandRepository
	defaults   domain.DemandTriple
}

func NewDemandResolver(demandRepo domain.DemandRepository, defaults domain.DemandTriple) *DemandResolver {
	return &DemandResolver{demandRepo: demandRepo, defaults: defaults}
}

// Resolve returns the 25-slot demand array for date along with the source
// tier that supplied the majority of slots. A date with at least one
// override is reported as DemandSourceOverride even if other slots fall
// back further, matching the per-slot resolution the CP-SAT model actually
// consumes; the reported source is informational only.
func (r *DemandResolver) Resolve(ctx context.Context, date time.Time) ([domain.NumSlots]domain.DemandTriple, domain.DemandSource, error) {
	var out [domain.NumSlots]domain.DemandTriple
	for s := range out {
		out[s] = r.defaults
	}
	source := domain.DemandSourceDefault

	template, err := r.demandRepo.TemplateForWeekday(ctx, date.Weekday())
	if err != nil {
		return out, source, fmt.Errorf("resolve effective demand: load weekday template: %w", err)
	}
	for slot, triple := range template {
		out[slot] = triple
		source = domain.DemandSourceTemplate
	}

	overrides, err := r.demandRepo.OverridesForDate(ctx, date)
	if err != nil {
		return out, source, fmt.Errorf("resolve effective demand: load overrides: %w", err)
	}
	for slot, triple := range overrides {
		out[slot] = triple
		source = domain.DemandSourceOverride
	}

	for slot, triple := range out {
		if err := triple.Validate(); err != nil {
			return out, source, fmt.Errorf("resolve effective demand: slot %d: %w", slot, err)
		}
	}
	return out, source, nil
}
