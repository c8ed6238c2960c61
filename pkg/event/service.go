package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/attendee"
	"github.com/potluck/potluck/pkg/meal"
	"github.com/potluck/potluck/pkg/todo"
	"github.com/potluck/potluck/pkg/user"
)

// PermissionGate decides who may create events and who may change a given
// event.
type PermissionGate interface {
	CanCreateEvent(actor user.User) bool
	CanModifyEvent(actor user.User, creatorID string) bool
}

// AttendeeLister, MealLister, and TodoLister pull the aggregate's child
// collections for a single-event read.
type AttendeeLister interface {
	ListByEvent(ctx context.Context, eventID string) ([]attendee.Attendee, error)
}

type MealLister interface {
	ListWithItems(ctx context.Context, eventID string) ([]meal.MealWithItems, error)
}

type TodoLister interface {
	ListByEvent(ctx context.Context, eventID string) ([]todo.Todo, error)
}

// MealPlanner seeds a new event with its default meal schedule.
type MealPlanner interface {
	PlanForEvent(ctx context.Context, eventID string, start, end time.Time)
}

type Service interface {
	Create(ctx context.Context, draft Draft) (Event, error)
	Get(ctx context.Context, id string) (EventWithAll, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, id string, update Update) (Event, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo      Repository
	gate      PermissionGate
	attendees AttendeeLister
	meals     MealLister
	todos     TodoLister
	planner   MealPlanner
	clock     utils.Clock
}

func NewService(
	repo Repository,
	gate PermissionGate,
	attendees AttendeeLister,
	meals MealLister,
	todos TodoLister,
	planner MealPlanner,
	clock utils.Clock,
) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		gate:      gate,
		attendees: attendees,
		meals:     meals,
		todos:     todos,
		planner:   planner,
		clock:     clock,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, draft Draft) (Event, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return Event{}, err
	}
	if !s.gate.CanCreateEvent(actor) {
		return Event{}, ErrEventForbidden
	}
	if err := validateWindow(draft.Title, draft.StartTime, draft.EndTime); err != nil {
		return Event{}, err
	}

	now := s.clock.Now()
	e := Event{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Store(ctx, e); err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}

	// Planner failures are logged inside; a partial schedule never fails
	// the create.
	s.planner.PlanForEvent(ctx, e.ID, e.StartTime, e.EndTime)
	return e, nil
}

// Get returns the event with all attendees, meals, and todos. Empty
// collections come back as empty slices, never nil.
func (s *ServiceImpl) Get(ctx context.Context, id string) (EventWithAll, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return EventWithAll{}, err
	}

	attendees, err := s.attendees.ListByEvent(ctx, id)
	if err != nil {
		return EventWithAll{}, err
	}
	meals, err := s.meals.ListWithItems(ctx, id)
	if err != nil {
		return EventWithAll{}, err
	}
	todos, err := s.todos.ListByEvent(ctx, id)
	if err != nil {
		return EventWithAll{}, err
	}

	return EventWithAll{
		Event:     e,
		Attendees: attendees,
		Meals:     meals,
		Todos:     todos,
	}, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, update Update) (Event, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return Event{}, err
	}

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if !s.gate.CanModifyEvent(actor, e.CreatedBy) {
		return Event{}, ErrEventForbidden
	}

	if update.Title != nil {
		e.Title = *update.Title
	}
	if update.Description != nil {
		e.Description = *update.Description
	}
	if update.Location != nil {
		e.Location = *update.Location
	}
	if update.StartTime != nil {
		e.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		e.EndTime = *update.EndTime
	}
	if err := validateWindow(e.Title, e.StartTime, e.EndTime); err != nil {
		return Event{}, err
	}
	e.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Delete removes the event and everything hanging off it in a single
// transaction; a partially deleted aggregate is never observable.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return err
	}

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.gate.CanModifyEvent(actor, e.CreatedBy) {
		return ErrEventForbidden
	}

	return s.repo.WithTransaction(ctx, func(repo Repository) error {
		if err := repo.DeleteSignupsByEvent(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteItemsByEvent(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteMealsByEvent(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteTodosByEvent(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteAttendeesByEvent(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func validateWindow(title string, start, end time.Time) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrEventDataInvalid)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end times are required", ErrEventDataInvalid)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start time must be before end time", ErrEventDataInvalid)
	}
	return nil
}
