package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StaffRepository defines persistence for the staff roster. The core only
// ever reads staff by id and the two role flags.
type StaffRepository interface {
	// ListAll returns the full roster in stable id order.
	ListAll(ctx context.Context) ([]Staff, error)
}

// AvailabilityRepository defines persistence for per-(staff, date) windows.
type AvailabilityRepository interface {
	// ListForDate returns every staff's window for the date, keyed by staff id.
	// Staff with no window on the date are simply absent from the map.
	ListForDate(ctx context.Context, date time.Time) (map[uuid.UUID]AvailabilityWindow, error)

	// Upsert creates or replaces the window for (staff, date); last-writer-wins.
	Upsert(ctx context.Context, w AvailabilityWindow) error
}

// DemandRepository defines persistence for the two demand tiers (override,
// template) behind the effective-demand resolver.
type DemandRepository interface {
	// OverridesForDate returns the per-date override triples that exist,
	// keyed by slot index. Absent slots fall through to the template tier.
	OverridesForDate(ctx context.Context, date time.Time) (map[int]DemandTriple, error)

	// TemplateForWeekday returns the per-weekday template triples that
	// exist, keyed by slot index.
	TemplateForWeekday(ctx context.Context, weekday time.Weekday) (map[int]DemandTriple, error)

	// UpsertOverride creates or replaces a (date, slot) override.
	UpsertOverride(ctx context.Context, d DaySlotDemand) error

	// UpsertTemplate creates or replaces a (weekday, slot) template entry.
	UpsertTemplate(ctx context.Context, w WeekdaySlotDemand) error

	// ApplyDefault bulk-writes the given triple as an override across every
	// slot for a date; a convenience for seeding a fresh day.
	ApplyDefault(ctx context.Context, date time.Time, triple DemandTriple) error
}
