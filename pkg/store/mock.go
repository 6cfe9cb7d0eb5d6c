package store

import (
	"context"
	"sync"
)

// Memory is an in-memory Repository for tests and local development.
type Memory struct {
	mu       sync.Mutex
	allowed  map[int64]bool
	settings map[int64]UserSettings
	feedback []Feedback
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		allowed:  make(map[int64]bool),
		settings: make(map[int64]UserSettings),
	}
}

// IsAllowed reports allow-list membership.
func (m *Memory) IsAllowed(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowed[userID], nil
}

// Allow adds the user to the allow-list.
func (m *Memory) Allow(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowed[userID] = true
	return nil
}

// Settings returns saved settings or nil.
func (m *Memory) Settings(_ context.Context, userID int64) (*UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, nil
	}
	out := s
	return &out, nil
}

// SaveSettings upserts settings.
func (m *Memory) SaveSettings(_ context.Context, s *UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.UserID] = *s
	return nil
}

// AllSettings returns every saved row.
func (m *Memory) AllSettings(_ context.Context) ([]*UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*UserSettings, 0, len(m.settings))
	for _, s := range m.settings {
		row := s
		out = append(out, &row)
	}
	return out, nil
}

// AppendFeedback logs a feedback message.
func (m *Memory) AppendFeedback(_ context.Context, f *Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, *f)
	return nil
}

// FeedbackCount reports the number of logged messages.
func (m *Memory) FeedbackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feedback)
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Verify Memory implements Repository at compile time.
var _ Repository = (*Memory)(nil)
