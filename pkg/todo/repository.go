package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, t Todo) error
	Get(ctx context.Context, id string) (Todo, error)
	// ListByEvent returns open todos first, each group ordered by creation
	// time.
	ListByEvent(ctx context.Context, eventID string) ([]Todo, error)
	Update(ctx context.Context, t Todo) error
	Delete(ctx context.Context, eventID, id string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const todoColumns = `t.id, t.event_id, t.title, t.description, t.completed, t.assigned_attendee_id, a.name, t.created_at, t.updated_at`

func (r *RepositoryImpl) Store(ctx context.Context, t Todo) error {
	query := `INSERT INTO todos (id, event_id, title, description, completed, assigned_attendee_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.EventID, t.Title, t.Description, t.Completed, t.AssignedAttendeeID,
		t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store todo: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Todo, error) {
	query := `SELECT ` + todoColumns + `
				FROM todos t
				LEFT JOIN attendees a ON t.assigned_attendee_id = a.id
				WHERE t.id = $1`
	t, err := scanTodoFrom(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrTodoNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan todo: %w", err)
		log.Error(err)
		return Todo{}, err
	}
	return t, nil
}

func (r *RepositoryImpl) ListByEvent(ctx context.Context, eventID string) ([]Todo, error) {
	query := `SELECT ` + todoColumns + `
				FROM todos t
				LEFT JOIN attendees a ON t.assigned_attendee_id = a.id
				WHERE t.event_id = $1
				ORDER BY t.completed ASC, t.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		err := fmt.Errorf("could not query todos: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	todos := make([]Todo, 0, 10)
	for rows.Next() {
		t, err := scanTodoFrom(rows)
		if err != nil {
			err := fmt.Errorf("could not scan todo row: %w", err)
			log.Error(err)
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, t Todo) error {
	query := `UPDATE todos SET title = $1, description = $2, completed = $3, assigned_attendee_id = $4, updated_at = $5
				WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Completed, t.AssignedAttendeeID, t.UpdatedAt.UnixMilli(), t.ID)
	if err != nil {
		err := fmt.Errorf("could not update todo: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE event_id = $1 AND id = $2`, eventID, id)
	if err != nil {
		err := fmt.Errorf("could not delete todo: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodoFrom(s rowScanner) (Todo, error) {
	var t Todo
	var assigneeName sql.NullString
	var createdAt, updatedAt int64
	err := s.Scan(&t.ID, &t.EventID, &t.Title, &t.Description, &t.Completed,
		&t.AssignedAttendeeID, &assigneeName, &createdAt, &updatedAt)
	if err != nil {
		return Todo{}, err
	}
	// A dangling assignment (attendee removed) reads as unassigned.
	if t.AssignedAttendeeID != nil && assigneeName.Valid {
		t.AssignedAttendeeName = &assigneeName.String
	}
	t.CreatedAt = time.UnixMilli(createdAt)
	t.UpdatedAt = time.UnixMilli(updatedAt)
	return t, nil
}
