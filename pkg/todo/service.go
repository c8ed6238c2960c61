package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/attendee"
)

// AttendeeDirectory validates task assignments against the event's
// attendee list.
type AttendeeDirectory interface {
	Get(ctx context.Context, id string) (attendee.Attendee, error)
}

type Service interface {
	Add(ctx context.Context, eventID string, draft Draft) (Todo, error)
	ListByEvent(ctx context.Context, eventID string) ([]Todo, error)
	Update(ctx context.Context, todoID string, update Update) (Todo, error)
	Remove(ctx context.Context, eventID, todoID string) error
}

type ServiceImpl struct {
	repo      Repository
	attendees AttendeeDirectory
	clock     utils.Clock
}

func NewService(repo Repository, attendees AttendeeDirectory, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, attendees: attendees, clock: clock}
}

func (s *ServiceImpl) Add(ctx context.Context, eventID string, draft Draft) (Todo, error) {
	if draft.Title == "" {
		return Todo{}, fmt.Errorf("%w: title is required", ErrTodoDataInvalid)
	}
	if err := s.validateAssignment(ctx, eventID, draft.AssignedAttendeeID); err != nil {
		return Todo{}, err
	}

	now := s.clock.Now()
	t := Todo{
		ID:                 uuid.New().String(),
		EventID:            eventID,
		Title:              draft.Title,
		Description:        draft.Description,
		Completed:          false,
		AssignedAttendeeID: draft.AssignedAttendeeID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Store(ctx, t); err != nil {
		return Todo{}, fmt.Errorf("failed to store todo: %w", err)
	}
	return s.repo.Get(ctx, t.ID)
}

func (s *ServiceImpl) ListByEvent(ctx context.Context, eventID string) ([]Todo, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *ServiceImpl) Update(ctx context.Context, todoID string, update Update) (Todo, error) {
	t, err := s.repo.Get(ctx, todoID)
	if err != nil {
		return Todo{}, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return Todo{}, fmt.Errorf("%w: title is required", ErrTodoDataInvalid)
		}
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Completed != nil {
		t.Completed = *update.Completed
	}
	if update.AssignedAttendeeID != nil {
		if *update.AssignedAttendeeID == "" {
			t.AssignedAttendeeID = nil
		} else {
			if err := s.validateAssignment(ctx, t.EventID, update.AssignedAttendeeID); err != nil {
				return Todo{}, err
			}
			t.AssignedAttendeeID = update.AssignedAttendeeID
		}
	}
	t.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return Todo{}, err
	}
	return s.repo.Get(ctx, todoID)
}

func (s *ServiceImpl) Remove(ctx context.Context, eventID, todoID string) error {
	return s.repo.Delete(ctx, eventID, todoID)
}

func (s *ServiceImpl) validateAssignment(ctx context.Context, eventID string, assignedAttendeeID *string) error {
	if assignedAttendeeID == nil {
		return nil
	}
	a, err := s.attendees.Get(ctx, *assignedAttendeeID)
	if err != nil {
		if errors.Is(err, attendee.ErrAttendeeNotFound) {
			return fmt.Errorf("%w: attendee %s is not part of the event", ErrTodoDataInvalid, *assignedAttendeeID)
		}
		return err
	}
	if a.EventID != eventID {
		return fmt.Errorf("%w: attendee %s is not part of the event", ErrTodoDataInvalid, *assignedAttendeeID)
	}
	return nil
}
