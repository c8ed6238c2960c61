package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	Update(ctx context.Context, u User) error
	ListAll(ctx context.Context) ([]User, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const userColumns = `id, google_id, email, name, picture, is_admin, can_create_events, created_at, updated_at`

func (r *RepositoryImpl) Store(ctx context.Context, u User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.GoogleID, u.Email, u.Name, u.Picture, u.IsAdmin, u.CanCreateEvents,
		u.CreatedAt.UnixMilli(), u.UpdatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store user: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *RepositoryImpl) GetByGoogleID(ctx context.Context, googleID string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *RepositoryImpl) Update(ctx context.Context, u User) error {
	query := `UPDATE users SET email = $1, name = $2, picture = $3, is_admin = $4, can_create_events = $5, updated_at = $6
				WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		u.Email, u.Name, u.Picture, u.IsAdmin, u.CanCreateEvents, u.UpdatedAt.UnixMilli(), u.ID)
	if err != nil {
		err := fmt.Errorf("could not update user: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListAll(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0, 10)
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *RepositoryImpl) scanUser(row *sql.Row) (User, error) {
	var u User
	var createdAt, updatedAt int64
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.IsAdmin, &u.CanCreateEvents, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan user: %w", err)
		log.Error(err)
		return User{}, err
	}
	u.CreatedAt = time.UnixMilli(createdAt)
	u.UpdatedAt = time.UnixMilli(updatedAt)
	return u, nil
}

func scanUserRow(rows *sql.Rows) (User, error) {
	var u User
	var createdAt, updatedAt int64
	if err := rows.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.IsAdmin, &u.CanCreateEvents, &createdAt, &updatedAt); err != nil {
		err := fmt.Errorf("could not scan user row: %w", err)
		log.Error(err)
		return User{}, err
	}
	u.CreatedAt = time.UnixMilli(createdAt)
	u.UpdatedAt = time.UnixMilli(updatedAt)
	return u, nil
}
