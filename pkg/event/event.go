package event

import (
	"errors"
	"time"

	"github.com/potluck/potluck/pkg/attendee"
	"github.com/potluck/potluck/pkg/meal"
	"github.com/potluck/potluck/pkg/todo"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventDataInvalid = errors.New("event data invalid")
	ErrEventForbidden   = errors.New("not allowed to modify this event")
)

// Event is a gathering with a time window, e.g. a weekend at the farm.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventWithAll is the full event aggregate returned by a single-event read.
type EventWithAll struct {
	Event
	Attendees []attendee.Attendee
	Meals     []meal.MealWithItems
	Todos     []todo.Todo
}

type Draft struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

type Update struct {
	Title       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
}
