package services_test

import (
	"context"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/google/uuid"
)

type fakeStaffRepo struct {
	staff []domain.Staff
	err   error
}

func (f *fakeStaffRepo) ListAll(ctx context.Context) ([]domain.Staff, error) {
	return f.staff, f.err
}

type fakeAvailRepo struct {
	windows map[uuid.UUID]domain.AvailabilityWindow
	err     error
}

func (f *fakeAvailRepo) ListForDate(ctx context.Context, date time.Time) (map[uuid.UUID]domain.AvailabilityWindow, error) {
	return f.windows, f.err
}

func (f *fakeAvailRepo) Upsert(ctx context.Context, w domain.AvailabilityWindow) error {
	if f.windows == nil {
		f.windows = make(map[uuid.UUID]domain.AvailabilityWindow)
	}
	f.windows[w.StaffID] = w
	return nil
}

type fakeDemandRepo struct {
	overrides map[int]domain.DemandTriple
	templates map[int]domain.DemandTriple
	err       error
}

func (f *fakeDemandRepo) OverridesForDate(ctx context.Context, date time.Time) (map[int]domain.DemandTriple, error) {
	return f.overrides, f.err
}

func (f *fakeDemandRepo) TemplateForWeekday(ctx context.Context, weekday time.Weekday) (map[int]domain.DemandTriple, error) {
	return f.templates, f.err
}

func (f *fakeDemandRepo) UpsertOverride(ctx context.Context, d domain.DaySlotDemand) error {
	if f.overrides == nil {
		f.overrides = make(map[int]domain.DemandTriple)
	}
	f.overrides[d.SlotIndex] = d.DemandTriple
	return nil
}

func (f *fakeDemandRepo) UpsertTemplate(ctx context.Context, w domain.WeekdaySlotDemand) error {
	if f.templates == nil {
		f.templates = make(map[int]domain.DemandTriple)
	}
	f.templates[w.SlotIndex] = w.DemandTriple
	return nil
}

func (f *fakeDemandRepo) ApplyDefault(ctx context.Context, date time.Time, triple domain.DemandTriple) error {
	if f.overrides == nil {
		f.overrides = make(map[int]domain.DemandTriple)
	}
	for s := 0; s < domain.NumSlots; s++ {
		f.overrides[s] = triple
	}
	return nil
}
