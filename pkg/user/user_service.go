package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/potluck/potluck/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Upsert records a Google identity, creating the user on first sign-in
	// and refreshing profile fields on every later one.
	Upsert(ctx context.Context, googleID, email, name, picture string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	ListAll(ctx context.Context) ([]User, error)
	UpdatePermissions(ctx context.Context, id string, canCreateEvents *bool) (User, error)
}

type ServiceImpl struct {
	repo Repository
	// adminEmails are promoted to admin when they sign in.
	adminEmails []string
	clock       utils.Clock
}

func NewService(repo Repository, adminEmails []string, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, adminEmails: adminEmails, clock: clock}
}

func (s *ServiceImpl) Upsert(ctx context.Context, googleID, email, name, picture string) (User, error) {
	if googleID == "" || email == "" {
		return User{}, fmt.Errorf("%w: google id and email are required", ErrUserDataInvalid)
	}

	now := s.clock.Now()
	existing, err := s.repo.GetByGoogleID(ctx, googleID)
	if err == nil {
		existing.Email = email
		existing.Name = name
		existing.Picture = picture
		if s.isConfiguredAdmin(email) {
			existing.IsAdmin = true
		}
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return User{}, fmt.Errorf("failed to refresh user: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	u := User{
		ID:        uuid.New().String(),
		GoogleID:  googleID,
		Email:     email,
		Name:      name,
		Picture:   picture,
		IsAdmin:   s.isConfiguredAdmin(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Store(ctx, u); err != nil {
		return User{}, fmt.Errorf("failed to store user: %w", err)
	}
	log.Infof("registered new user %s", u.ID)
	return u, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) ListAll(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}

func (s *ServiceImpl) UpdatePermissions(ctx context.Context, id string, canCreateEvents *bool) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if canCreateEvents != nil {
		u.CanCreateEvents = *canCreateEvents
	}
	u.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *ServiceImpl) isConfiguredAdmin(email string) bool {
	for _, admin := range s.adminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
