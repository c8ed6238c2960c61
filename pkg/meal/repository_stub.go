package meal

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// RepositoryStub keeps the meal aggregate in memory. The mutex makes the
// signup uniqueness guard behave like the database constraint under
// concurrent use.
type RepositoryStub struct {
	mu      sync.Mutex
	meals   map[string]Meal
	items   map[string]MealItem
	signups map[string]MealSignup // key: itemID + "|" + userID
	// assignees lets the stub resolve read-time names the way the SQL
	// LEFT JOIN does; tests register attendee names here.
	assignees map[string]string
	// users resolves signup user name/email like the users join.
	userNames  map[string]string
	userEmails map[string]string
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		meals:      make(map[string]Meal),
		items:      make(map[string]MealItem),
		signups:    make(map[string]MealSignup),
		assignees:  make(map[string]string),
		userNames:  make(map[string]string),
		userEmails: make(map[string]string),
	}
}

// RegisterAttendee teaches the stub an attendee name for assignment joins.
func (r *RepositoryStub) RegisterAttendee(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignees[id] = name
}

// UnregisterAttendee simulates attendee removal, leaving assignments dangling.
func (r *RepositoryStub) UnregisterAttendee(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assignees, id)
}

// RegisterUser teaches the stub a user identity for signup joins.
func (r *RepositoryStub) RegisterUser(id, name, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userNames[id] = name
	r.userEmails[id] = email
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	// The stub applies mutations directly; rollback is not simulated.
	return fn(r)
}

func (r *RepositoryStub) StoreMeal(ctx context.Context, m Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meals[m.ID] = m
	return nil
}

func (r *RepositoryStub) GetMeal(ctx context.Context, id string) (Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meals[id]
	if !ok {
		return Meal{}, ErrMealNotFound
	}
	return m, nil
}

func (r *RepositoryStub) ListMealsByEvent(ctx context.Context, eventID string) ([]Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meals := make([]Meal, 0)
	for _, m := range r.meals {
		if m.EventID == eventID {
			meals = append(meals, m)
		}
	}
	sort.Slice(meals, func(i, j int) bool {
		a, b := meals[i], meals[j]
		switch {
		case a.Date == nil && b.Date == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		case *a.Date != *b.Date:
			return *a.Date < *b.Date
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return meals, nil
}

func (r *RepositoryStub) UpdateMeal(ctx context.Context, m Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meals[m.ID]; !ok {
		return ErrMealNotFound
	}
	r.meals[m.ID] = m
	return nil
}

func (r *RepositoryStub) DeleteMeal(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meals[id]; !ok {
		return ErrMealNotFound
	}
	delete(r.meals, id)
	return nil
}

func (r *RepositoryStub) StoreItem(ctx context.Context, item MealItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *RepositoryStub) GetItem(ctx context.Context, id string) (MealItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return MealItem{}, ErrMealItemNotFound
	}
	return r.withAssigneeName(item), nil
}

func (r *RepositoryStub) ListItemsByMeal(ctx context.Context, mealID string) ([]MealItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]MealItem, 0)
	for _, item := range r.items {
		if item.MealID == mealID {
			items = append(items, r.withAssigneeName(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *RepositoryStub) UpdateItem(ctx context.Context, item MealItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrMealItemNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *RepositoryStub) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrMealItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RepositoryStub) DeleteItemsByMeal(ctx context.Context, mealID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.MealID == mealID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *RepositoryStub) StoreSignup(ctx context.Context, s MealSignup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := s.MealItemID + "|" + s.UserID
	if _, ok := r.signups[key]; ok {
		return fmt.Errorf("unique constraint violated for %s", key)
	}
	r.signups[key] = s
	return nil
}

func (r *RepositoryStub) FindSignup(ctx context.Context, itemID, userID string) (MealSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.signups[itemID+"|"+userID]
	if !ok {
		return MealSignup{}, ErrSignupNotFound
	}
	return r.withUserFields(s), nil
}

func (r *RepositoryStub) ListSignupsByItem(ctx context.Context, itemID string) ([]MealSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	signups := make([]MealSignup, 0)
	for _, s := range r.signups {
		if s.MealItemID == itemID {
			signups = append(signups, r.withUserFields(s))
		}
	}
	sort.Slice(signups, func(i, j int) bool { return signups[i].CreatedAt.Before(signups[j].CreatedAt) })
	return signups, nil
}

func (r *RepositoryStub) DeleteSignup(ctx context.Context, itemID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := itemID + "|" + userID
	if _, ok := r.signups[key]; !ok {
		return ErrSignupNotFound
	}
	delete(r.signups, key)
	return nil
}

func (r *RepositoryStub) DeleteSignupsByItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.signups {
		if s.MealItemID == itemID {
			delete(r.signups, key)
		}
	}
	return nil
}

func (r *RepositoryStub) DeleteSignupsByMeal(ctx context.Context, mealID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	itemIDs := make(map[string]bool)
	for id, item := range r.items {
		if item.MealID == mealID {
			itemIDs[id] = true
		}
	}
	for key, s := range r.signups {
		if itemIDs[s.MealItemID] {
			delete(r.signups, key)
		}
	}
	return nil
}

func (r *RepositoryStub) withAssigneeName(item MealItem) MealItem {
	item.AssignedAttendeeName = nil
	if item.AssignedAttendeeID != nil {
		if name, ok := r.assignees[*item.AssignedAttendeeID]; ok {
			item.AssignedAttendeeName = &name
		}
	}
	return item
}

func (r *RepositoryStub) withUserFields(s MealSignup) MealSignup {
	s.UserName = r.userNames[s.UserID]
	s.UserEmail = r.userEmails[s.UserID]
	return s
}
