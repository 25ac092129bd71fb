package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/orbita/internal/shared/domain"
)

const aggregateTypeDay = "shiftplan.day"

const (
	RoutingKeyDaySolved     = "shiftplan.day.solved"
	RoutingKeyDayInfeasible = "shiftplan.day.infeasible"
)

// dayAggregateID derives a stable aggregate id for a given date so events
// for the same operating day route to the same event-stream key. Dates
// carry no natural UUID, so one is derived deterministically.
func dayAggregateID(date string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("shiftplan:day:"+date))
}

// DaySolved is emitted when a solve produces a usable (Optimal or Feasible)
// assignment for a day.
type DaySolved struct {
	sharedDomain.BaseEvent
	Date           string      `json:"date"`
	Status         SolveStatus `json:"status"`
	AssignedStaff  int         `json:"assigned_staff"`
	TotalSlotsUsed int         `json:"total_slots_used"`
}

func NewDaySolved(date string, status SolveStatus, assignedStaff, totalSlotsUsed int) DaySolved {
	return DaySolved{
		BaseEvent:      sharedDomain.NewBaseEvent(dayAggregateID(date), aggregateTypeDay, RoutingKeyDaySolved),
		Date:           date,
		Status:         status,
		AssignedStaff:  assignedStaff,
		TotalSlotsUsed: totalSlotsUsed,
	}
}

// DayInfeasible is emitted when a solve cannot find a feasible assignment.
type DayInfeasible struct {
	sharedDomain.BaseEvent
	Date      string           `json:"date"`
	Reason    string           `json:"reason"`
	Diagnosis []DiagnosisEntry `json:"diagnosis"`
}

func NewDayInfeasible(date, reason string, diagnosis []DiagnosisEntry) DayInfeasible {
	return DayInfeasible{
		BaseEvent: sharedDomain.NewBaseEvent(dayAggregateID(date), aggregateTypeDay, RoutingKeyDayInfeasible),
		Date:      date,
		Reason:    reason,
		Diagnosis: diagnosis,
	}
}
