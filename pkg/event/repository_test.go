package event

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/potluck/potluck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(id, title string, start time.Time) Event {
	return Event{
		ID:        id,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(4 * time.Hour),
		CreatedBy: "user-1",
		CreatedAt: start,
		UpdatedAt: start,
	}
}

// seedAggregate hangs an attendee, a meal with an item, a signup, and a todo
// off the event.
func seedAggregate(t *testing.T, db *sql.DB, eventID string) {
	t.Helper()
	now := time.Now().UnixMilli()

	_, err := db.Exec(`INSERT INTO users (id, google_id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		"user-"+eventID, "google-"+eventID, eventID+"@example.com", "Ana", now, now)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO attendees (id, event_id, name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		"att-"+eventID, eventID, "Ana", "ana@example.com", "attending", now, now)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO meals (id, event_id, name, meal_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		"meal-"+eventID, eventID, "Dinner", "dinner", now, now)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO meal_items (id, meal_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"item-"+eventID, "meal-"+eventID, "Salad", now, now)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO meal_signups (id, meal_item_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		"signup-"+eventID, "item-"+eventID, "user-"+eventID, now)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO todos (id, event_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"todo-"+eventID, eventID, "Buy charcoal", now, now)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestRepositoryImpl_List_OrdersByStartTime(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Store(ctx, testEvent("e-later", "Later", base.AddDate(0, 1, 0))))
	require.NoError(t, repo.Store(ctx, testEvent("e-sooner", "Sooner", base)))

	// when
	events, err := repo.List(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e-sooner", events[0].ID)
	assert.Equal(t, "e-later", events[1].ID)
}

func TestRepositoryImpl_DeleteCascade(t *testing.T) {
	// given two events, each with a full aggregate
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Store(ctx, testEvent("e-1", "Doomed", base)))
	require.NoError(t, repo.Store(ctx, testEvent("e-2", "Survivor", base)))
	seedAggregate(t, db, "e-1")
	seedAggregate(t, db, "e-2")

	// when the whole aggregate of e-1 goes in one transaction
	err := repo.WithTransaction(ctx, func(txRepo Repository) error {
		if err := txRepo.DeleteSignupsByEvent(ctx, "e-1"); err != nil {
			return err
		}
		if err := txRepo.DeleteItemsByEvent(ctx, "e-1"); err != nil {
			return err
		}
		if err := txRepo.DeleteMealsByEvent(ctx, "e-1"); err != nil {
			return err
		}
		if err := txRepo.DeleteTodosByEvent(ctx, "e-1"); err != nil {
			return err
		}
		if err := txRepo.DeleteAttendeesByEvent(ctx, "e-1"); err != nil {
			return err
		}
		return txRepo.Delete(ctx, "e-1")
	})

	// then only the other event's rows remain
	require.NoError(t, err)
	_, err = repo.Get(ctx, "e-1")
	assert.ErrorIs(t, err, ErrEventNotFound)
	_, err = repo.Get(ctx, "e-2")
	assert.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, "attendees"))
	assert.Equal(t, 1, countRows(t, db, "meals"))
	assert.Equal(t, 1, countRows(t, db, "meal_items"))
	assert.Equal(t, 1, countRows(t, db, "meal_signups"))
	assert.Equal(t, 1, countRows(t, db, "todos"))
	// users are not part of the aggregate
	assert.Equal(t, 2, countRows(t, db, "users"))
}

func TestRepositoryImpl_Update(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	e := testEvent("e-1", "Original", base)
	require.NoError(t, repo.Store(ctx, e))

	// when
	e.Title = "Renamed"
	e.UpdatedAt = base.Add(time.Hour)
	err := repo.Update(ctx, e)

	// then
	require.NoError(t, err)
	stored, err := repo.Get(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, base.Add(time.Hour).UnixMilli(), stored.UpdatedAt.UnixMilli())

	t.Run("unknown event reports not found", func(t *testing.T) {
		missing := testEvent("missing", "Ghost", base)
		assert.ErrorIs(t, repo.Update(ctx, missing), ErrEventNotFound)
	})
}
