package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a server-side login session referenced by the browser cookie.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

type SessionRepositoryImpl struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, userID string, ttl time.Duration) (Session, error) {
	now := time.Now()
	s := Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.CreatedAt.UnixMilli(), s.ExpiresAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store session: %w", err)
		log.Error(err)
		return Session{}, err
	}
	return s, nil
}

func (r *SessionRepositoryImpl) Get(ctx context.Context, id string) (Session, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`
	var s Session
	var createdAt, expiresAt int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan session: %w", err)
		log.Error(err)
		return Session{}, err
	}
	s.CreatedAt = time.UnixMilli(createdAt)
	s.ExpiresAt = time.UnixMilli(expiresAt)
	return s, nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now().UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not delete expired sessions: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
