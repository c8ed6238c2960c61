package todo

import (
	"errors"
	"time"
)

var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrTodoDataInvalid = errors.New("todo data invalid")
)

// Todo is a preparation task for an event. The assignee name is resolved
// from the attendee record at read time and is absent when the attendee has
// been removed.
type Todo struct {
	ID                   string
	EventID              string
	Title                string
	Description          string
	Completed            bool
	AssignedAttendeeID   *string
	AssignedAttendeeName *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Draft struct {
	Title              string
	Description        string
	AssignedAttendeeID *string
}

// Update is partial; an empty-string AssignedAttendeeID clears the
// assignment.
type Update struct {
	Title              *string
	Description        *string
	Completed          *bool
	AssignedAttendeeID *string
}
