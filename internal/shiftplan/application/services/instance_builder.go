package services

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// InstanceBuilder assembles the day's solve input: the roster, each staff
// member's availability mask, and the effective demand.
type InstanceBuilder struct {
	staffRepo domain.StaffRepository
	availRepo domain.AvailabilityRepository
	resolver  *DemandResolver
}

func NewInstanceBuilder(staffRepo domain.StaffRepository, availRepo domain.AvailabilityRepository, resolver *DemandResolver) *InstanceBuilder {
	return &InstanceBuilder{staffRepo: staffRepo, availRepo: availRepo, resolver: resolver}
}

// Build assembles a domain.DayInstance for date. Staff with no availability
// window recorded for the date are included with an all-false mask rather
// than excluded, so a diagnoser run afterwards can see exactly who was
// unavailable.
func (b *InstanceBuilder) Build(ctx context.Context, date time.Time) (domain.DayInstance, error) {
	staff, err := b.staffRepo.ListAll(ctx)
	if err != nil {
		return domain.DayInstance{}, fmt.Errorf("build day instance: load staff: %w", err)
	}

	windows, err := b.availRepo.ListForDate(ctx, date)
	if err != nil {
		return domain.DayInstance{}, fmt.Errorf("build day instance: load availability: %w", err)
	}

	demand, source, err := b.resolver.Resolve(ctx, date)
	if err != nil {
		return domain.DayInstance{}, fmt.Errorf("build day instance: resolve demand: %w", err)
	}

	avail := make([][domain.NumSlots]bool, len(staff))
	for i, s := range staff {
		if w, ok := windows[s.ID]; ok {
			if err := w.Validate(); err != nil {
				return domain.DayInstance{}, fmt.Errorf("build day instance: staff %s: %w", s.ID, err)
			}
			avail[i] = w.Mask()
		}
	}

	return domain.DayInstance{
		Date:     date.Format("2006-01-02"),
		Staff:    staff,
		Avail:    avail,
		Demand:   demand,
		DemandOf: source,
	}, nil
}
