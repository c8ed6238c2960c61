package attendee

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/potluck/potluck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertEvent(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	now := time.Now().UnixMilli()
	_, err := db.Exec(`INSERT INTO events (id, title, start_time, end_time, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, "Test Event", now, now+3600_000, "user-1", now, now)
	require.NoError(t, err)
}

func testAttendee(id, eventID, name string) Attendee {
	now := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	return Attendee{
		ID:        id,
		EventID:   eventID,
		Name:      name,
		Email:     name + "@example.com",
		Status:    StatusAttending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepositoryImpl_StoreAndGet(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	insertEvent(t, db, "event-1")
	repo := NewRepository(db)
	ctx := context.Background()

	// when
	err := repo.Store(ctx, testAttendee("att-1", "event-1", "ana"))
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, "att-1")
	require.NoError(t, err)
	assert.Equal(t, "ana", stored.Name)
	assert.Equal(t, "event-1", stored.EventID)
	assert.Equal(t, StatusAttending, stored.Status)
}

func TestRepositoryImpl_ListByEvent_OrdersByName(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	insertEvent(t, db, "event-1")
	insertEvent(t, db, "event-2")
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, testAttendee("att-1", "event-1", "zoe")))
	require.NoError(t, repo.Store(ctx, testAttendee("att-2", "event-1", "ana")))
	require.NoError(t, repo.Store(ctx, testAttendee("att-3", "event-2", "bob")))

	// when
	attendees, err := repo.ListByEvent(ctx, "event-1")

	// then
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	assert.Equal(t, "ana", attendees[0].Name)
	assert.Equal(t, "zoe", attendees[1].Name)
}

func TestRepositoryImpl_Update(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	insertEvent(t, db, "event-1")
	repo := NewRepository(db)
	ctx := context.Background()

	a := testAttendee("att-1", "event-1", "ana")
	require.NoError(t, repo.Store(ctx, a))

	// when
	a.Status = StatusDeclined
	a.UpdatedAt = a.UpdatedAt.Add(time.Hour)
	err := repo.Update(ctx, a)

	// then
	require.NoError(t, err)
	stored, err := repo.Get(ctx, "att-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, stored.Status)
}

func TestRepositoryImpl_Delete(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	insertEvent(t, db, "event-1")
	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, testAttendee("att-1", "event-1", "ana")))

	t.Run("requires a matching event", func(t *testing.T) {
		err := repo.Delete(context.Background(), "other-event", "att-1")
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})

	t.Run("removes the attendee", func(t *testing.T) {
		err := repo.Delete(ctx, "event-1", "att-1")
		require.NoError(t, err)
		_, err = repo.Get(ctx, "att-1")
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})
}
