package meal

import (
	"errors"
	"time"
)

var (
	ErrMealNotFound       = errors.New("meal not found")
	ErrMealDataInvalid    = errors.New("meal data invalid")
	ErrMealItemNotFound   = errors.New("meal item not found")
	ErrAttendeeNotInEvent = errors.New("assigned attendee does not belong to the event")
	ErrAlreadySignedUp    = errors.New("already signed up for this item")
	ErrSignupNotFound     = errors.New("signup not found")
)

type Type string

const (
	TypeBreakfast Type = "breakfast"
	TypeLunch     Type = "lunch"
	TypeDinner    Type = "dinner"
	TypeSnacks    Type = "snacks"
	TypeOther     Type = "other"
)

var typeLabels = map[Type]string{
	TypeBreakfast: "Breakfast",
	TypeLunch:     "Lunch",
	TypeDinner:    "Dinner",
	TypeSnacks:    "Snacks",
	TypeOther:     "Other",
}

// Label returns the human display name of a meal type, used as the meal
// name when none is given.
func Label(t Type) string {
	return typeLabels[t]
}

func KnownType(t Type) bool {
	_, ok := typeLabels[t]
	return ok
}

// Meal is a shared meal within an event, e.g. "Saturday Dinner".
type Meal struct {
	ID      string
	EventID string
	Name    string
	Type    Type
	// Date is an optional YYYY-MM-DD day the meal belongs to.
	Date      *string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MealItem is something needed for a meal, e.g. "Burgers". The assignee
// name is resolved from the attendee record at read time and is absent when
// the attendee has been removed.
type MealItem struct {
	ID                   string
	MealID               string
	Name                 string
	Description          string
	AssignedAttendeeID   *string
	AssignedAttendeeName *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MealSignup is a user's claim to bring an item. At most one signup exists
// per (item, user). User name and email are joined from the user record at
// read time.
type MealSignup struct {
	ID         string
	MealItemID string
	UserID     string
	UserName   string
	UserEmail  string
	Notes      string
	CreatedAt  time.Time
}

type MealItemWithSignups struct {
	MealItem
	Signups []MealSignup
}

type MealWithItems struct {
	Meal
	Items []MealItemWithSignups
}

type Draft struct {
	Name  string
	Type  Type
	Date  *string
	Notes string
}

type Update struct {
	Name  *string
	Type  *Type
	Date  *string
	Notes *string
}

type ItemDraft struct {
	Name               string
	Description        string
	AssignedAttendeeID *string
}

// ItemUpdate is partial; an empty-string AssignedAttendeeID clears the
// assignment.
type ItemUpdate struct {
	Name               *string
	Description        *string
	AssignedAttendeeID *string
}
