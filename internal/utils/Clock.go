package utils

import "time"

// Clock supplies the current time to the domain services, which stamp
// events, RSVPs, meals, and todos with it. Injecting it keeps the
// created_at/updated_at values deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock pins Now to a fixed instant for tests.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
