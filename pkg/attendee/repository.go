package attendee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, a Attendee) error
	Get(ctx context.Context, id string) (Attendee, error)
	// ListByEvent returns the event's attendees ordered by name ascending.
	ListByEvent(ctx context.Context, eventID string) ([]Attendee, error)
	Update(ctx context.Context, a Attendee) error
	Delete(ctx context.Context, eventID, id string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, a Attendee) error {
	query := `INSERT INTO attendees (id, event_id, name, email, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.EventID, a.Name, a.Email, string(a.Status), a.CreatedAt.UnixMilli(), a.UpdatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store attendee: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Attendee, error) {
	query := `SELECT id, event_id, name, email, status, created_at, updated_at
				FROM attendees WHERE id = $1`
	var a Attendee
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.Status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Attendee{}, ErrAttendeeNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan attendee: %w", err)
		log.Error(err)
		return Attendee{}, err
	}
	a.CreatedAt = time.UnixMilli(createdAt)
	a.UpdatedAt = time.UnixMilli(updatedAt)
	return a, nil
}

func (r *RepositoryImpl) ListByEvent(ctx context.Context, eventID string) ([]Attendee, error) {
	query := `SELECT id, event_id, name, email, status, created_at, updated_at
				FROM attendees WHERE event_id = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		err := fmt.Errorf("could not query attendees: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	attendees := make([]Attendee, 0, 10)
	for rows.Next() {
		var a Attendee
		var createdAt, updatedAt int64
		if err := rows.Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.Status, &createdAt, &updatedAt); err != nil {
			err := fmt.Errorf("could not scan attendee row: %w", err)
			log.Error(err)
			return nil, err
		}
		a.CreatedAt = time.UnixMilli(createdAt)
		a.UpdatedAt = time.UnixMilli(updatedAt)
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, a Attendee) error {
	query := `UPDATE attendees SET name = $1, email = $2, status = $3, updated_at = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, a.Name, a.Email, string(a.Status), a.UpdatedAt.UnixMilli(), a.ID)
	if err != nil {
		err := fmt.Errorf("could not update attendee: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttendeeNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, eventID, id string) error {
	query := `DELETE FROM attendees WHERE id = $1 AND event_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, eventID)
	if err != nil {
		err := fmt.Errorf("could not delete attendee: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttendeeNotFound
	}
	return nil
}
