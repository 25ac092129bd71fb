package domain

import "github.com/google/uuid"

// Staff is a roster member who can be assigned to slots on a given day.
// The two role flags may both be true.
type Staff struct {
	ID          uuid.UUID
	Name        string
	IsKeyPerson bool
	IsNewbie    bool
}

// RoleLabel describes the combination of role flags for result projection.
type RoleLabel string

const (
	RoleKeyPersonAndNewbie RoleLabel = "KeyPersonAndNewbie"
	RoleKeyPerson          RoleLabel = "KeyPerson"
	RoleNewbie             RoleLabel = "Newbie"
	RoleRegular            RoleLabel = "Regular"
)

// Role derives the staff's role label from its two flags.
func (s Staff) Role() RoleLabel {
	switch {
	case s.IsKeyPerson && s.IsNewbie:
		return RoleKeyPersonAndNewbie
	case s.IsKeyPerson:
		return RoleKeyPerson
	case s.IsNewbie:
		return RoleNewbie
	default:
		return RoleRegular
	}
}
