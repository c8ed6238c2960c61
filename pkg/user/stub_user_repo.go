package user

import (
	"context"
	"sort"
)

type StubUserRepository struct {
	data map[string]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{data: map[string]User{}}
}

func (s *StubUserRepository) Store(ctx context.Context, u User) error {
	s.data[u.ID] = u
	return nil
}

func (s *StubUserRepository) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubUserRepository) GetByGoogleID(ctx context.Context, googleID string) (User, error) {
	for _, u := range s.data {
		if u.GoogleID == googleID {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) Update(ctx context.Context, u User) error {
	if _, ok := s.data[u.ID]; !ok {
		return ErrUserNotFound
	}
	s.data[u.ID] = u
	return nil
}

func (s *StubUserRepository) ListAll(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(s.data))
	for _, u := range s.data {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
