package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS allowed_users (
		user_id INTEGER PRIMARY KEY,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_settings (
		user_id INTEGER PRIMARY KEY,
		voice_id TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_user ON feedback(user_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Seed adds a batch of user IDs to the allow-list, skipping existing
// entries.
func (s *SQLiteStore) Seed(ctx context.Context, userIDs []int64) error {
	for _, id := range userIDs {
		if err := s.Allow(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// IsAllowed reports whether the user is on the allow-list.
func (s *SQLiteStore) IsAllowed(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM allowed_users WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query allow-list: %w", err)
	}
	return true, nil
}

// Allow adds the user to the allow-list. Idempotent.
func (s *SQLiteStore) Allow(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO allowed_users (user_id, created_at) VALUES (?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert allowed user: %w", err)
	}
	return nil
}

// Settings returns the persisted settings, or nil when none are saved.
func (s *SQLiteStore) Settings(ctx context.Context, userID int64) (*UserSettings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, voice_id, mode FROM user_settings WHERE user_id = ?`, userID)

	var us UserSettings
	err := row.Scan(&us.UserID, &us.VoiceID, &us.Mode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	return &us, nil
}

// SaveSettings upserts the user's settings.
func (s *SQLiteStore) SaveSettings(ctx context.Context, us *UserSettings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, voice_id, mode, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			voice_id = excluded.voice_id,
			mode = excluded.mode,
			updated_at = excluded.updated_at`,
		us.UserID, us.VoiceID, us.Mode, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// AllSettings returns every saved settings row.
func (s *SQLiteStore) AllSettings(ctx context.Context) ([]*UserSettings, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, voice_id, mode FROM user_settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var all []*UserSettings
	for rows.Next() {
		var us UserSettings
		if err := rows.Scan(&us.UserID, &us.VoiceID, &us.Mode); err != nil {
			return nil, fmt.Errorf("scan settings row: %w", err)
		}
		all = append(all, &us)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return all, nil
}

// AppendFeedback logs a feedback message.
func (s *SQLiteStore) AppendFeedback(ctx context.Context, f *Feedback) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (user_id, user_name, message, created_at)
		 VALUES (?, ?, ?, ?)`,
		f.UserID, f.UserName, f.Message, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// Verify SQLiteStore implements Repository at compile time.
var _ Repository = (*SQLiteStore)(nil)
