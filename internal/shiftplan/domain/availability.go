package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityWindow is a staff member's declared start/end window for a
// single date. At most one exists per (staff, date); half-open [start, end).
type AvailabilityWindow struct {
	StaffID   uuid.UUID
	Date      time.Time
	StartSlot int
	EndSlot   int
}

// ErrInvalidWindow indicates a window with EndSlot <= StartSlot, or slots
// outside 0..NumSlots-1. The core treats this as corrupt input: the
// embedding layer's uniqueness constraint and validation at the write
// path are responsible for preventing it, not silent repair here.
var ErrInvalidWindow = fmt.Errorf("invalid availability window")

// Validate checks the window's internal invariant: end > start, and both
// bounds fall within the slot index space.
func (w AvailabilityWindow) Validate() error {
	if w.StartSlot < 0 || w.EndSlot > NumSlots || w.EndSlot <= w.StartSlot {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidWindow, w.StartSlot, w.EndSlot)
	}
	return nil
}

// Mask returns the boolean availability row for this window: true for
// every slot s such that StartSlot <= s < EndSlot.
func (w AvailabilityWindow) Mask() [NumSlots]bool {
	var row [NumSlots]bool
	for s := w.StartSlot; s < w.EndSlot && s < NumSlots; s++ {
		if s >= 0 {
			row[s] = true
		}
	}
	return row
}
