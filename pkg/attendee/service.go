package attendee

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/potluck/potluck/internal/utils"
)

type Service interface {
	Add(ctx context.Context, eventID string, draft Draft) (Attendee, error)
	Get(ctx context.Context, id string) (Attendee, error)
	ListByEvent(ctx context.Context, eventID string) ([]Attendee, error)
	FindByEmail(ctx context.Context, eventID, email string) (Attendee, error)
	Update(ctx context.Context, id string, update Update) (Attendee, error)
	Remove(ctx context.Context, eventID, id string) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

// Add registers an RSVP. A second entry with the same email is allowed;
// email lookups return the first case-insensitive match.
func (s *ServiceImpl) Add(ctx context.Context, eventID string, draft Draft) (Attendee, error) {
	if draft.Name == "" {
		return Attendee{}, fmt.Errorf("%w: name is required", ErrAttendeeDataInvalid)
	}
	if draft.Email == "" {
		return Attendee{}, fmt.Errorf("%w: email is required", ErrAttendeeDataInvalid)
	}
	if draft.Status == "" {
		draft.Status = StatusAttending
	}
	if !KnownStatus(draft.Status) {
		return Attendee{}, fmt.Errorf("%w: unknown status %q", ErrAttendeeDataInvalid, draft.Status)
	}

	now := s.clock.Now()
	a := Attendee{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Name:      draft.Name,
		Email:     draft.Email,
		Status:    draft.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Store(ctx, a); err != nil {
		return Attendee{}, fmt.Errorf("failed to store attendee: %w", err)
	}
	return a, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Attendee, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) ListByEvent(ctx context.Context, eventID string) ([]Attendee, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// FindByEmail returns the first attendee of the event whose email matches
// case-insensitively, or ErrAttendeeNotFound.
func (s *ServiceImpl) FindByEmail(ctx context.Context, eventID, email string) (Attendee, error) {
	attendees, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return Attendee{}, err
	}
	for _, a := range attendees {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Attendee{}, ErrAttendeeNotFound
}

func (s *ServiceImpl) Update(ctx context.Context, id string, update Update) (Attendee, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return Attendee{}, err
	}

	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Email != nil {
		a.Email = *update.Email
	}
	if update.Status != nil {
		if !KnownStatus(*update.Status) {
			return Attendee{}, fmt.Errorf("%w: unknown status %q", ErrAttendeeDataInvalid, *update.Status)
		}
		a.Status = *update.Status
	}
	a.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Attendee{}, err
	}
	return a, nil
}

// Remove deletes the RSVP only. Meal item and todo assignments pointing at
// the attendee are left in place and resolve to unassigned at read time.
func (s *ServiceImpl) Remove(ctx context.Context, eventID, id string) error {
	return s.repo.Delete(ctx, eventID, id)
}
