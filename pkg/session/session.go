// Package session owns per-user conversation history and settings.
//
// The store is the only shared mutable state in the engine. Histories are
// kept in full; callers read bounded windows for model input. Turns from a
// single user are serialized through Acquire so that overlapping requests
// never interleave partial history writes.
package session

import (
	"sync"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one role-tagged message in a conversation history.
// Turns are immutable once appended.
type Turn struct {
	Role    Role
	Content string

	// Tool metadata, set only for RoleTool turns.
	ToolName   string
	ToolCallID string
}

// Window sizes presented to the language model. The full history is
// retained; these bound the read-time view only.
const (
	// ChatWindow is the history window for conversational turns.
	ChatWindow = 20

	// SummarizeWindow is the narrower window used for summarization calls.
	SummarizeWindow = 10
)

// Store keeps conversation history and settings keyed by user ID.
type Store struct {
	mu    sync.Mutex
	users map[int64]*userState
}

type userState struct {
	mu       sync.Mutex
	history  []Turn
	settings Settings
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{users: make(map[int64]*userState)}
}

// user returns the state record for a user, creating it on first access.
func (s *Store) user(userID int64) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &userState{settings: DefaultSettings()}
		s.users[userID] = u
	}
	return u
}

// Acquire takes the per-user turn lock and returns its release func.
// Hold it for the whole turn (append user, call provider, append
// assistant) so turn pairs from one user commit atomically.
func (s *Store) Acquire(userID int64) (release func()) {
	u := s.user(userID)
	u.mu.Lock()
	return u.mu.Unlock
}

// History returns the full stored history for a user, inserting the
// system turn lazily on first read. The returned slice is a copy.
func (s *Store) History(userID int64, systemPrompt string) []Turn {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(u.history) == 0 && systemPrompt != "" {
		u.history = append(u.history, Turn{Role: RoleSystem, Content: systemPrompt})
	}

	out := make([]Turn, len(u.history))
	copy(out, u.history)
	return out
}

// Append adds a turn to a user's history unconditionally.
func (s *Store) Append(userID int64, turn Turn) {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	u.history = append(u.history, turn)
}

// Clear empties the stored history for a user. The system turn is
// re-inserted lazily on the next read, not here.
func (s *Store) Clear(userID int64) {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	u.history = nil
}

// Window returns the last n turns for a user, oldest first, never more
// than stored. It performs the same lazy system-turn insertion as History.
func (s *Store) Window(userID int64, n int, systemPrompt string) []Turn {
	h := s.History(userID, systemPrompt)
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Len reports the number of stored turns for a user.
func (s *Store) Len(userID int64) int {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(u.history)
}
