package attendee

import (
	"errors"
	"time"
)

var (
	ErrAttendeeNotFound    = errors.New("attendee not found")
	ErrAttendeeDataInvalid = errors.New("attendee data invalid")
)

type Status string

const (
	StatusAttending Status = "attending"
	StatusMaybe     Status = "maybe"
	StatusDeclined  Status = "declined"
)

// KnownStatus reports whether s is one of the three RSVP statuses.
// Transitions between them are unrestricted.
func KnownStatus(s Status) bool {
	switch s {
	case StatusAttending, StatusMaybe, StatusDeclined:
		return true
	}
	return false
}

// Attendee is one person's RSVP on an event.
type Attendee struct {
	ID        string
	EventID   string
	Name      string
	Email     string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Draft struct {
	Name   string
	Email  string
	Status Status
}

// Update carries a partial attendee mutation; nil fields are left unchanged.
type Update struct {
	Name   *string
	Email  *string
	Status *Status
}
