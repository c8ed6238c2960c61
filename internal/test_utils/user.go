package test_utils

import (
	"context"

	"github.com/potluck/potluck/pkg/user"
)

// TestUser is a regular signed-in user for tests.
func TestUser() user.User {
	return user.User{
		ID:       "user-1",
		GoogleID: "google-1",
		Email:    "test@example.com",
		Name:     "Test User",
	}
}

// TestAdmin is a signed-in administrator for tests.
func TestAdmin() user.User {
	return user.User{
		ID:       "admin-1",
		GoogleID: "google-admin",
		Email:    "admin@example.com",
		Name:     "Test Admin",
		IsAdmin:  true,
	}
}

// ContextWithUser returns a context carrying u, as the auth middleware
// would produce.
func ContextWithUser(u user.User) context.Context {
	return user.WithUser(context.Background(), u)
}
