package attendee

import (
	"context"
	"testing"
	"time"

	"github.com/potluck/potluck/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func setupService() (context.Context, *RepositoryStub, Service) {
	repo := NewRepositoryStub()
	service := NewService(repo, &utils.MockClock{FixedNow: fixedNow})
	return context.Background(), repo, service
}

func TestServiceImpl_Add(t *testing.T) {
	t.Run("defaults status to attending", func(t *testing.T) {
		ctx, _, service := setupService()

		added, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com"})

		require.NoError(t, err)
		assert.Equal(t, StatusAttending, added.Status)
		assert.NotEmpty(t, added.ID)
		assert.Equal(t, fixedNow, added.CreatedAt)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		ctx, _, service := setupService()

		_, err := service.Add(ctx, "event-1", Draft{Email: "ana@example.com"})

		assert.ErrorIs(t, err, ErrAttendeeDataInvalid)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		ctx, _, service := setupService()

		_, err := service.Add(ctx, "event-1", Draft{Name: "Ana"})

		assert.ErrorIs(t, err, ErrAttendeeDataInvalid)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		ctx, _, service := setupService()

		_, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com", Status: "napping"})

		assert.ErrorIs(t, err, ErrAttendeeDataInvalid)
	})

	t.Run("allows a duplicate email on the same event", func(t *testing.T) {
		ctx, _, service := setupService()

		_, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "shared@example.com"})
		require.NoError(t, err)
		_, err = service.Add(ctx, "event-1", Draft{Name: "Another Ana", Email: "shared@example.com"})

		assert.NoError(t, err)
	})
}

func TestServiceImpl_FindByEmail(t *testing.T) {
	t.Run("matches case-insensitively", func(t *testing.T) {
		ctx, _, service := setupService()
		added, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "Ana@Example.com"})
		require.NoError(t, err)

		found, err := service.FindByEmail(ctx, "event-1", "ana@example.com")

		require.NoError(t, err)
		assert.Equal(t, added.ID, found.ID)
	})

	t.Run("does not match across events", func(t *testing.T) {
		ctx, _, service := setupService()
		_, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		_, err = service.FindByEmail(ctx, "event-2", "ana@example.com")

		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("allows any status transition", func(t *testing.T) {
		ctx, _, service := setupService()
		added, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com", Status: StatusDeclined})
		require.NoError(t, err)

		declined := StatusAttending
		updated, err := service.Update(ctx, added.ID, Update{Status: &declined})

		require.NoError(t, err)
		assert.Equal(t, StatusAttending, updated.Status)
	})

	t.Run("keeps untouched fields on partial update", func(t *testing.T) {
		ctx, _, service := setupService()
		added, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		name := "Ana Maria"
		updated, err := service.Update(ctx, added.ID, Update{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", updated.Name)
		assert.Equal(t, "ana@example.com", updated.Email)
		assert.Equal(t, StatusAttending, updated.Status)
	})

	t.Run("returns not found for unknown attendee", func(t *testing.T) {
		ctx, _, service := setupService()

		name := "Nobody"
		_, err := service.Update(ctx, "missing", Update{Name: &name})

		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})
}

func TestServiceImpl_Remove(t *testing.T) {
	t.Run("removes the RSVP", func(t *testing.T) {
		ctx, _, service := setupService()
		added, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		err = service.Remove(ctx, "event-1", added.ID)

		require.NoError(t, err)
		_, err = service.Get(ctx, added.ID)
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})

	t.Run("is scoped to the event", func(t *testing.T) {
		ctx, _, service := setupService()
		added, err := service.Add(ctx, "event-1", Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		err = service.Remove(ctx, "event-2", added.ID)

		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})
}
