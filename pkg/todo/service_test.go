package todo

import (
	"context"
	"testing"
	"time"

	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/attendee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

type todoFixture struct {
	repo      *RepositoryStub
	attendees attendee.Service
	service   Service
}

func setupService() todoFixture {
	clock := &utils.MockClock{FixedNow: fixedNow}
	repo := NewRepositoryStub()
	attendees := attendee.NewService(attendee.NewRepositoryStub(), clock)
	return todoFixture{
		repo:      repo,
		attendees: attendees,
		service:   NewService(repo, attendees, clock),
	}
}

func TestServiceImpl_Add(t *testing.T) {
	t.Run("creates an open task", func(t *testing.T) {
		f := setupService()

		added, err := f.service.Add(context.Background(), "event-1", Draft{Title: "Buy charcoal"})

		require.NoError(t, err)
		assert.Equal(t, "Buy charcoal", added.Title)
		assert.False(t, added.Completed)
		assert.Equal(t, fixedNow, added.CreatedAt)
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		f := setupService()

		_, err := f.service.Add(context.Background(), "event-1", Draft{})

		assert.ErrorIs(t, err, ErrTodoDataInvalid)
	})

	t.Run("rejects an assignee from another event", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		a, err := f.attendees.Add(ctx, "event-2", attendee.Draft{Name: "Bob", Email: "bob@example.com"})
		require.NoError(t, err)

		_, err = f.service.Add(ctx, "event-1", Draft{Title: "Buy charcoal", AssignedAttendeeID: &a.ID})

		assert.ErrorIs(t, err, ErrTodoDataInvalid)
	})

	t.Run("resolves the assignee name", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		a, err := f.attendees.Add(ctx, "event-1", attendee.Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)
		f.repo.RegisterAttendee(a.ID, a.Name)

		added, err := f.service.Add(ctx, "event-1", Draft{Title: "Buy charcoal", AssignedAttendeeID: &a.ID})

		require.NoError(t, err)
		require.NotNil(t, added.AssignedAttendeeName)
		assert.Equal(t, "Ana", *added.AssignedAttendeeName)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("toggles completion without touching other fields", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		added, err := f.service.Add(ctx, "event-1", Draft{Title: "Buy charcoal", Description: "the big bag"})
		require.NoError(t, err)

		done := true
		updated, err := f.service.Update(ctx, added.ID, Update{Completed: &done})

		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Buy charcoal", updated.Title)
		assert.Equal(t, "the big bag", updated.Description)
	})

	t.Run("rejects blanking the title", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		added, err := f.service.Add(ctx, "event-1", Draft{Title: "Buy charcoal"})
		require.NoError(t, err)

		empty := ""
		_, err = f.service.Update(ctx, added.ID, Update{Title: &empty})

		assert.ErrorIs(t, err, ErrTodoDataInvalid)
	})

	t.Run("clears the assignment with an empty id", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		a, err := f.attendees.Add(ctx, "event-1", attendee.Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)
		f.repo.RegisterAttendee(a.ID, a.Name)
		added, err := f.service.Add(ctx, "event-1", Draft{Title: "Buy charcoal", AssignedAttendeeID: &a.ID})
		require.NoError(t, err)

		none := ""
		updated, err := f.service.Update(ctx, added.ID, Update{AssignedAttendeeID: &none})

		require.NoError(t, err)
		assert.Nil(t, updated.AssignedAttendeeID)
		assert.Nil(t, updated.AssignedAttendeeName)
	})

	t.Run("returns not found for an unknown task", func(t *testing.T) {
		f := setupService()

		done := true
		_, err := f.service.Update(context.Background(), "missing", Update{Completed: &done})

		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}

func TestServiceImpl_Remove(t *testing.T) {
	t.Run("is scoped to the event", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		added, err := f.service.Add(ctx, "event-1", Draft{Title: "Buy charcoal"})
		require.NoError(t, err)

		err = f.service.Remove(ctx, "other-event", added.ID)
		assert.ErrorIs(t, err, ErrTodoNotFound)

		err = f.service.Remove(ctx, "event-1", added.ID)
		require.NoError(t, err)
	})
}
