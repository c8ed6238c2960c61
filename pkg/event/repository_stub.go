package event

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu     sync.Mutex
	events map[string]Event
	// Cascaded counts the cascade calls per event id, so tests can assert
	// the delete path walked the whole aggregate.
	Cascaded map[string]int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		events:   make(map[string]Event),
		Cascaded: make(map[string]int),
	}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	// The stub applies mutations directly; rollback is not simulated.
	return fn(r)
}

func (r *RepositoryStub) Store(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.ID] = e
	return nil
}

func (r *RepositoryStub) Get(ctx context.Context, id string) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (r *RepositoryStub) List(ctx context.Context) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

func (r *RepositoryStub) Update(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return ErrEventNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *RepositoryStub) DeleteSignupsByEvent(ctx context.Context, eventID string) error {
	return r.cascade(eventID)
}

func (r *RepositoryStub) DeleteItemsByEvent(ctx context.Context, eventID string) error {
	return r.cascade(eventID)
}

func (r *RepositoryStub) DeleteMealsByEvent(ctx context.Context, eventID string) error {
	return r.cascade(eventID)
}

func (r *RepositoryStub) DeleteTodosByEvent(ctx context.Context, eventID string) error {
	return r.cascade(eventID)
}

func (r *RepositoryStub) DeleteAttendeesByEvent(ctx context.Context, eventID string) error {
	return r.cascade(eventID)
}

func (r *RepositoryStub) cascade(eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cascaded[eventID]++
	return nil
}
