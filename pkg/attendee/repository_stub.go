package attendee

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu   sync.RWMutex
	data map[string]Attendee // id -> attendee
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: make(map[string]Attendee)}
}

func (r *RepositoryStub) Store(ctx context.Context, a Attendee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.ID] = a
	return nil
}

func (r *RepositoryStub) Get(ctx context.Context, id string) (Attendee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok {
		return Attendee{}, ErrAttendeeNotFound
	}
	return a, nil
}

func (r *RepositoryStub) ListByEvent(ctx context.Context, eventID string) ([]Attendee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attendees := make([]Attendee, 0)
	for _, a := range r.data {
		if a.EventID == eventID {
			attendees = append(attendees, a)
		}
	}
	sort.Slice(attendees, func(i, j int) bool { return attendees[i].Name < attendees[j].Name })
	return attendees, nil
}

func (r *RepositoryStub) Update(ctx context.Context, a Attendee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[a.ID]; !ok {
		return ErrAttendeeNotFound
	}
	r.data[a.ID] = a
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, eventID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok || a.EventID != eventID {
		return ErrAttendeeNotFound
	}
	delete(r.data, id)
	return nil
}
