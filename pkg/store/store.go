// Package store persists the user allow-list, per-user voice settings,
// and the feedback log in SQLite.
package store

import (
	"context"
	"time"
)

// UserSettings is the persisted slice of a user's session settings.
type UserSettings struct {
	UserID  int64
	VoiceID string
	Mode    string
}

// Feedback is one logged feedback message.
type Feedback struct {
	ID        int64
	UserID    int64
	UserName  string
	Message   string
	CreatedAt time.Time
}

// Repository is the persistence contract.
type Repository interface {
	// IsAllowed reports whether the user is on the allow-list.
	IsAllowed(ctx context.Context, userID int64) (bool, error)

	// Allow adds the user to the allow-list. Idempotent.
	Allow(ctx context.Context, userID int64) error

	// Settings returns the persisted settings, or nil when the user
	// has none saved.
	Settings(ctx context.Context, userID int64) (*UserSettings, error)

	// SaveSettings upserts the user's settings.
	SaveSettings(ctx context.Context, s *UserSettings) error

	// AllSettings returns every saved settings row, for warm-up at
	// startup.
	AllSettings(ctx context.Context) ([]*UserSettings, error)

	// AppendFeedback logs a feedback message.
	AppendFeedback(ctx context.Context, f *Feedback) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the database.
	Close() error
}
