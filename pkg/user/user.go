package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDataInvalid = errors.New("user data invalid")
)

// User is an identity resolved from Google sign-in.
type User struct {
	ID       string
	GoogleID string
	Email    string
	Name     string
	Picture  string
	// IsAdmin grants every permission, including event modification and
	// the admin surface.
	IsAdmin bool
	// CanCreateEvents is the per-user grant for creating new events.
	CanCreateEvents bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
