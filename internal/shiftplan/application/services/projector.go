package services

import (
	"fmt"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// Project converts a solved assignment matrix into one contiguous interval
// per staff member who worked that day. Staff assigned zero slots are
// omitted. Since the model enforces a single block per staff, any run of
// more than one contiguous block found here indicates a modeling bug rather
// than a legitimate schedule, and is reported as an error instead of being
// silently collapsed.
func Project(outcome domain.SolveOutcome) ([]domain.Interval, error) {
	if !outcome.Feasible() {
		return nil, fmt.Errorf("project intervals: outcome is not feasible (status %s)", outcome.Status)
	}

	var intervals []domain.Interval
	for i, st := range outcome.Staff {
		row := outcome.Assignment[i]
		start := -1
		blocks := 0
		for s := 0; s <= domain.NumSlots; s++ {
			working := s < domain.NumSlots && row[s]
			if working && start == -1 {
				start = s
			}
			if !working && start != -1 {
				blocks++
				if blocks > 1 {
					return nil, fmt.Errorf("project intervals: staff %s has multiple blocks, expected a single contiguous shift", st.ID)
				}
				startLabel, err := domain.SlotToLabel(start)
				if err != nil {
					return nil, fmt.Errorf("project intervals: %w", err)
				}
				endLabel, err := endBoundaryLabel(s)
				if err != nil {
					return nil, fmt.Errorf("project intervals: %w", err)
				}
				intervals = append(intervals, domain.Interval{
					StaffID:    st.ID,
					Name:       st.Name,
					Role:       st.Role(),
					Start:      start,
					End:        s,
					StartLabel: startLabel,
					EndLabel:   endLabel,
				})
				start = -1
			}
		}
	}
	return intervals, nil
}

// endBoundaryLabel labels the exclusive end of a block that finishes at
// slot index boundary (one past the last worked slot). A block running
// through the last slot (24) ends at the operating day's own close, 29:30,
// which has no slot index of its own.
func endBoundaryLabel(boundary int) (string, error) {
	if boundary == domain.NumSlots {
		return "29:30", nil
	}
	return domain.SlotToLabel(boundary)
}
