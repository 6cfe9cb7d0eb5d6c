package session

// Mode selects the synthesis preset for a user's voice replies.
type Mode string

const (
	// ModeStable is the default, coherent preset.
	ModeStable Mode = "stable"

	// ModeUnstable distorts both the reply text and the synthesis
	// parameters. Responses will be almost completely incoherent.
	ModeUnstable Mode = "unstable"
)

// DefaultVoiceID is the fallback ElevenLabs voice used when a user has
// not selected one.
const DefaultVoiceID = "7kRUX4UzUC1zcoeqNF4s"

// Settings holds per-user voice preferences. Mutated only by explicit
// user commands; reads within the same pipeline invocation observe the
// write that preceded them.
type Settings struct {
	// VoiceID is the selected ElevenLabs voice, empty for the default.
	VoiceID string

	// Mode is the synthesis mode.
	Mode Mode
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings() Settings {
	return Settings{Mode: ModeStable}
}

// Voice returns the selected voice ID or the fixed fallback.
func (s Settings) Voice() string {
	if s.VoiceID != "" {
		return s.VoiceID
	}
	return DefaultVoiceID
}

// Settings returns the current settings for a user.
func (s *Store) Settings(userID int64) Settings {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return u.settings
}

// SetVoice records a user's selected voice.
func (s *Store) SetVoice(userID int64, voiceID string) {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	u.settings.VoiceID = voiceID
}

// SetMode records a user's synthesis mode.
func (s *Store) SetMode(userID int64, mode Mode) {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	u.settings.Mode = mode
}

// RestoreSettings seeds a user's settings, typically from durable
// storage at startup. It does not touch history.
func (s *Store) RestoreSettings(userID int64, settings Settings) {
	u := s.user(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	u.settings = settings
}
