package todo

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu    sync.Mutex
	todos map[string]Todo
	// assignees resolves read-time names the way the SQL LEFT JOIN does;
	// tests register attendee names here.
	assignees map[string]string
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		todos:     make(map[string]Todo),
		assignees: make(map[string]string),
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

func (r *RepositoryStub) Store(ctx context.Context, t Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos[t.ID] = t
	return nil
}

func (r *RepositoryStub) Get(ctx context.Context, id string) (Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return Todo{}, ErrTodoNotFound
	}
	return r.withAssigneeName(t), nil
}

func (r *RepositoryStub) ListByEvent(ctx context.Context, eventID string) ([]Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todos := make([]Todo, 0)
	for _, t := range r.todos {
		if t.EventID == eventID {
			todos = append(todos, r.withAssigneeName(t))
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return todos, nil
}

func (r *RepositoryStub) Update(ctx context.Context, t Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[t.ID]; !ok {
		return ErrTodoNotFound
	}
	r.todos[t.ID] = t
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, eventID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.EventID != eventID {
		return ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *RepositoryStub) withAssigneeName(t Todo) Todo {
	t.AssignedAttendeeName = nil
	if t.AssignedAttendeeID != nil {
		if name, ok := r.assignees[*t.AssignedAttendeeID]; ok {
			t.AssignedAttendeeName = &name
		}
	}
	return t
}
