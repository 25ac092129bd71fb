package services

import (
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// Diagnoser independently checks necessary (not sufficient) conditions for
// feasibility, slot by slot, so an Infeasible outcome comes with a cause
// instead of a bare status. It never invokes the optimizer itself.
type Diagnoser struct {
	opts SolverOptions
}

func NewDiagnoser(opts SolverOptions) *Diagnoser {
	return &Diagnoser{opts: opts}
}

// Diagnose walks every slot and reports the first necessary condition that
// fails, in the order: insufficient total availability, no key person
// available (when one is required), newbie cap pushing the effective
// ceiling below the minimum demand. A slot can satisfy all of these checks
// and still be part of an infeasible instance, since the diagnoser does not
// account for cross-slot contiguity or minimum-length interactions.
func (d *Diagnoser) Diagnose(instance domain.DayInstance) []domain.DiagnosisEntry {
	var entries []domain.DiagnosisEntry

	for s := 0; s < domain.NumSlots; s++ {
		demand := instance.Demand[s]
		label, _ := domain.SlotToLabel(s)
		totalAvail := instance.AvailableCount(s)
		keyAvail := instance.KeyPersonAvailableCount(s)
		newbieAvail := instance.NewbieAvailableCount(s)

		if totalAvail < demand.Min {
			entries = append(entries, domain.DiagnosisEntry{
				Slot:      s,
				SlotLabel: label,
				Cause:     domain.CauseInsufficientAvailable,
				Required:  demand.Min,
				Available: totalAvail,
			})
			continue
		}

		if keyAvail == 0 && anyKeyPerson(instance) {
			entries = append(entries, domain.DiagnosisEntry{
				Slot:      s,
				SlotLabel: label,
				Cause:     domain.CauseNoKeyPersonAvailable,
				Required:  1,
				Available: keyAvail,
			})
			continue
		}

		newbieCapped := newbieAvail
		if newbieCapped > d.opts.NewbieMaxPerSlot {
			newbieCapped = d.opts.NewbieMaxPerSlot
		}
		effectiveCap := totalAvail - newbieAvail + newbieCapped
		if effectiveCap < demand.Min {
			entries = append(entries, domain.DiagnosisEntry{
				Slot:      s,
				SlotLabel: label,
				Cause:     domain.CauseNewbieCapBlocksMinimum,
				Required:  demand.Min,
				Available: totalAvail,
				Cap:       effectiveCap,
			})
		}
	}

	return entries
}

func anyKeyPerson(instance domain.DayInstance) bool {
	for _, s := range instance.Staff {
		if s.IsKeyPerson {
			return true
		}
	}
	return false
}
