package meal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/attendee"
	"github.com/potluck/potluck/pkg/user"
	log "github.com/sirupsen/logrus"
)

// AttendeeDirectory is the slice of the attendee service the meal domain
// needs: assignment validation and the signup auto-RSVP.
type AttendeeDirectory interface {
	Get(ctx context.Context, id string) (attendee.Attendee, error)
	FindByEmail(ctx context.Context, eventID, email string) (attendee.Attendee, error)
	Add(ctx context.Context, eventID string, draft attendee.Draft) (attendee.Attendee, error)
}

type Service interface {
	Create(ctx context.Context, eventID string, draft Draft) (Meal, error)
	Update(ctx context.Context, mealID string, update Update) (Meal, error)
	Delete(ctx context.Context, eventID, mealID string) error
	ListWithItems(ctx context.Context, eventID string) ([]MealWithItems, error)

	AddItem(ctx context.Context, mealID string, draft ItemDraft) (MealItem, error)
	UpdateItem(ctx context.Context, itemID string, update ItemUpdate) (MealItem, error)
	DeleteItem(ctx context.Context, mealID, itemID string) error

	SignUp(ctx context.Context, mealID, itemID, notes string) (MealSignup, error)
	RemoveSignup(ctx context.Context, itemID string) error
}

type ServiceImpl struct {
	repo      Repository
	attendees AttendeeDirectory
	clock     utils.Clock
}

func NewService(repo Repository, attendees AttendeeDirectory, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, attendees: attendees, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, eventID string, draft Draft) (Meal, error) {
	if !KnownType(draft.Type) {
		return Meal{}, fmt.Errorf("%w: unknown meal type %q", ErrMealDataInvalid, draft.Type)
	}
	if draft.Name == "" {
		draft.Name = Label(draft.Type)
	}

	now := s.clock.Now()
	m := Meal{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Name:      draft.Name,
		Type:      draft.Type,
		Date:      draft.Date,
		Notes:     draft.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.StoreMeal(ctx, m); err != nil {
		return Meal{}, fmt.Errorf("failed to store meal: %w", err)
	}
	return m, nil
}

func (s *ServiceImpl) Update(ctx context.Context, mealID string, update Update) (Meal, error) {
	m, err := s.repo.GetMeal(ctx, mealID)
	if err != nil {
		return Meal{}, err
	}

	if update.Name != nil {
		m.Name = *update.Name
	}
	if update.Type != nil {
		if !KnownType(*update.Type) {
			return Meal{}, fmt.Errorf("%w: unknown meal type %q", ErrMealDataInvalid, *update.Type)
		}
		m.Type = *update.Type
	}
	if update.Date != nil {
		if *update.Date == "" {
			m.Date = nil
		} else {
			m.Date = update.Date
		}
	}
	if update.Notes != nil {
		m.Notes = *update.Notes
	}
	m.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateMeal(ctx, m); err != nil {
		return Meal{}, err
	}
	return m, nil
}

// Delete removes the meal, its items, and their signups in one transaction.
func (s *ServiceImpl) Delete(ctx context.Context, eventID, mealID string) error {
	m, err := s.repo.GetMeal(ctx, mealID)
	if err != nil {
		return err
	}
	if m.EventID != eventID {
		return ErrMealNotFound
	}

	return s.repo.WithTransaction(ctx, func(repo Repository) error {
		if err := repo.DeleteSignupsByMeal(ctx, mealID); err != nil {
			return err
		}
		if err := repo.DeleteItemsByMeal(ctx, mealID); err != nil {
			return err
		}
		return repo.DeleteMeal(ctx, mealID)
	})
}

func (s *ServiceImpl) ListWithItems(ctx context.Context, eventID string) ([]MealWithItems, error) {
	meals, err := s.repo.ListMealsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]MealWithItems, 0, len(meals))
	for _, m := range meals {
		items, err := s.repo.ListItemsByMeal(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		withSignups := make([]MealItemWithSignups, 0, len(items))
		for _, item := range items {
			signups, err := s.repo.ListSignupsByItem(ctx, item.ID)
			if err != nil {
				return nil, err
			}
			withSignups = append(withSignups, MealItemWithSignups{MealItem: item, Signups: signups})
		}
		result = append(result, MealWithItems{Meal: m, Items: withSignups})
	}
	return result, nil
}

func (s *ServiceImpl) AddItem(ctx context.Context, mealID string, draft ItemDraft) (MealItem, error) {
	m, err := s.repo.GetMeal(ctx, mealID)
	if err != nil {
		return MealItem{}, err
	}
	if draft.Name == "" {
		return MealItem{}, fmt.Errorf("%w: name is required", ErrMealDataInvalid)
	}
	if err := s.validateAssignment(ctx, m.EventID, draft.AssignedAttendeeID); err != nil {
		return MealItem{}, err
	}

	now := s.clock.Now()
	item := MealItem{
		ID:                 uuid.New().String(),
		MealID:             mealID,
		Name:               draft.Name,
		Description:        draft.Description,
		AssignedAttendeeID: draft.AssignedAttendeeID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.StoreItem(ctx, item); err != nil {
		return MealItem{}, fmt.Errorf("failed to store meal item: %w", err)
	}
	return s.repo.GetItem(ctx, item.ID)
}

func (s *ServiceImpl) UpdateItem(ctx context.Context, itemID string, update ItemUpdate) (MealItem, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return MealItem{}, err
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.AssignedAttendeeID != nil {
		if *update.AssignedAttendeeID == "" {
			item.AssignedAttendeeID = nil
		} else {
			m, err := s.repo.GetMeal(ctx, item.MealID)
			if err != nil {
				return MealItem{}, err
			}
			if err := s.validateAssignment(ctx, m.EventID, update.AssignedAttendeeID); err != nil {
				return MealItem{}, err
			}
			item.AssignedAttendeeID = update.AssignedAttendeeID
		}
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return MealItem{}, err
	}
	return s.repo.GetItem(ctx, itemID)
}

// DeleteItem removes the item and its signups in one transaction.
func (s *ServiceImpl) DeleteItem(ctx context.Context, mealID, itemID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.MealID != mealID {
		return ErrMealItemNotFound
	}

	return s.repo.WithTransaction(ctx, func(repo Repository) error {
		if err := repo.DeleteSignupsByItem(ctx, itemID); err != nil {
			return err
		}
		return repo.DeleteItem(ctx, itemID)
	})
}

// SignUp claims an item for the acting user. At most one signup may exist
// per (item, user); a concurrent duplicate attempt loses to the storage
// uniqueness constraint and reports ErrAlreadySignedUp. The event for the
// auto-RSVP comes from the item's own meal, never from the caller.
func (s *ServiceImpl) SignUp(ctx context.Context, mealID, itemID, notes string) (MealSignup, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return MealSignup{}, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return MealSignup{}, err
	}
	if item.MealID != mealID {
		return MealSignup{}, ErrMealItemNotFound
	}
	m, err := s.repo.GetMeal(ctx, item.MealID)
	if err != nil {
		return MealSignup{}, err
	}

	if _, err := s.repo.FindSignup(ctx, itemID, actor.ID); err == nil {
		return MealSignup{}, ErrAlreadySignedUp
	} else if !errors.Is(err, ErrSignupNotFound) {
		return MealSignup{}, err
	}

	signup := MealSignup{
		ID:         uuid.New().String(),
		MealItemID: itemID,
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserEmail:  actor.Email,
		Notes:      notes,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.StoreSignup(ctx, signup); err != nil {
		// Lost a race: the constraint rejected the insert.
		if _, findErr := s.repo.FindSignup(ctx, itemID, actor.ID); findErr == nil {
			return MealSignup{}, ErrAlreadySignedUp
		}
		return MealSignup{}, err
	}

	s.ensureAttendee(ctx, m.EventID, actor)
	return signup, nil
}

// RemoveSignup deletes the acting user's own signup. Other users' signups
// are unreachable because the user id always comes from the context.
func (s *ServiceImpl) RemoveSignup(ctx context.Context, itemID string) error {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteSignup(ctx, itemID, actor.ID)
}

func (s *ServiceImpl) validateAssignment(ctx context.Context, eventID string, assignedAttendeeID *string) error {
	if assignedAttendeeID == nil {
		return nil
	}
	a, err := s.attendees.Get(ctx, *assignedAttendeeID)
	if err != nil {
		if errors.Is(err, attendee.ErrAttendeeNotFound) {
			return fmt.Errorf("%w: %s", ErrAttendeeNotInEvent, *assignedAttendeeID)
		}
		return err
	}
	if a.EventID != eventID {
		return fmt.Errorf("%w: %s", ErrAttendeeNotInEvent, *assignedAttendeeID)
	}
	return nil
}

// ensureAttendee adds the signer as an attending attendee when their email
// is not yet on the list. Failures are logged and never fail the signup.
func (s *ServiceImpl) ensureAttendee(ctx context.Context, eventID string, actor user.User) {
	if _, err := s.attendees.FindByEmail(ctx, eventID, actor.Email); err == nil {
		return
	} else if !errors.Is(err, attendee.ErrAttendeeNotFound) {
		log.Warnf("could not check attendee list for event %s: %v", eventID, err)
		return
	}
	_, err := s.attendees.Add(ctx, eventID, attendee.Draft{
		Name:   actor.Name,
		Email:  actor.Email,
		Status: attendee.StatusAttending,
	})
	if err != nil {
		log.Warnf("could not auto-add attendee to event %s: %v", eventID, err)
	}
}
