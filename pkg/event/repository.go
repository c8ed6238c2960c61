package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error

	Store(ctx context.Context, e Event) error
	Get(ctx context.Context, id string) (Event, error)
	// List returns all events ordered by start time ascending.
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error

	// Cascade deletes for everything hanging off an event, called inside a
	// transaction bottom-up before Delete. The schema's ON DELETE CASCADE
	// is a backstop for the same rows.
	DeleteSignupsByEvent(ctx context.Context, eventID string) error
	DeleteItemsByEvent(ctx context.Context, eventID string) error
	DeleteMealsByEvent(ctx context.Context, eventID string) error
	DeleteTodosByEvent(ctx context.Context, eventID string) error
	DeleteAttendeesByEvent(ctx context.Context, eventID string) error
}

type RepositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, tx: nil}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const eventColumns = `id, title, description, location, start_time, end_time, created_by, created_at, updated_at`

func (r *RepositoryImpl) Store(ctx context.Context, e Event) error {
	query := `INSERT INTO events (` + eventColumns + `)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.getQueryer().ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Location,
		e.StartTime.UnixMilli(), e.EndTime.UnixMilli(), e.CreatedBy,
		e.CreatedAt.UnixMilli(), e.UpdatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store event: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEventFrom(r.getQueryer().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return e, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_time ASC`
	rows, err := r.getQueryer().QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		e, err := scanEventFrom(rows)
		if err != nil {
			err := fmt.Errorf("could not scan event row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, e Event) error {
	query := `UPDATE events SET title = $1, description = $2, location = $3, start_time = $4, end_time = $5, updated_at = $6
				WHERE id = $7`
	res, err := r.getQueryer().ExecContext(ctx, query,
		e.Title, e.Description, e.Location,
		e.StartTime.UnixMilli(), e.EndTime.UnixMilli(), e.UpdatedAt.UnixMilli(), e.ID)
	if err != nil {
		err := fmt.Errorf("could not update event: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrEventNotFound)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.getQueryer().ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete event: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrEventNotFound)
}

func (r *RepositoryImpl) DeleteSignupsByEvent(ctx context.Context, eventID string) error {
	query := `DELETE FROM meal_signups
				WHERE meal_item_id IN (
					SELECT i.id FROM meal_items i
					JOIN meals m ON i.meal_id = m.id
					WHERE m.event_id = $1)`
	return r.execCascade(ctx, query, eventID, "signups")
}

func (r *RepositoryImpl) DeleteItemsByEvent(ctx context.Context, eventID string) error {
	query := `DELETE FROM meal_items
				WHERE meal_id IN (SELECT id FROM meals WHERE event_id = $1)`
	return r.execCascade(ctx, query, eventID, "meal items")
}

func (r *RepositoryImpl) DeleteMealsByEvent(ctx context.Context, eventID string) error {
	return r.execCascade(ctx, `DELETE FROM meals WHERE event_id = $1`, eventID, "meals")
}

func (r *RepositoryImpl) DeleteTodosByEvent(ctx context.Context, eventID string) error {
	return r.execCascade(ctx, `DELETE FROM todos WHERE event_id = $1`, eventID, "todos")
}

func (r *RepositoryImpl) DeleteAttendeesByEvent(ctx context.Context, eventID string) error {
	return r.execCascade(ctx, `DELETE FROM attendees WHERE event_id = $1`, eventID, "attendees")
}

func (r *RepositoryImpl) execCascade(ctx context.Context, query, eventID, what string) error {
	_, err := r.getQueryer().ExecContext(ctx, query, eventID)
	if err != nil {
		err := fmt.Errorf("could not delete %s for event %s: %w", what, eventID, err)
		log.Error(err)
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEventFrom(s rowScanner) (Event, error) {
	var e Event
	var startTime, endTime, createdAt, updatedAt int64
	err := s.Scan(&e.ID, &e.Title, &e.Description, &e.Location,
		&startTime, &endTime, &e.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return Event{}, err
	}
	e.StartTime = time.UnixMilli(startTime)
	e.EndTime = time.UnixMilli(endTime)
	e.CreatedAt = time.UnixMilli(createdAt)
	e.UpdatedAt = time.UnixMilli(updatedAt)
	return e, nil
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
