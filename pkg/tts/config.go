package tts

import (
	"log/slog"
	"time"
)

// Config holds TTS provider configuration.
type Config struct {
	// Connection
	BaseURL string
	APIKey  string

	// DefaultVoiceID is used when a request carries no voice.
	DefaultVoiceID string

	// ModelID selects the synthesis model.
	ModelID string

	// Retry
	MaxRetries int
	RetryDelay time.Duration

	// Timeouts
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring providers.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithDefaultVoice sets the fallback voice ID.
func WithDefaultVoice(id string) Option {
	return func(c *Config) { c.DefaultVoiceID = id }
}

// WithModel sets the synthesis model.
func WithModel(id string) Option {
	return func(c *Config) { c.ModelID = id }
}

// WithMaxRetries sets the retry count for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Config) { c.MaxRetries = n }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible ElevenLabs defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        elevenLabsBaseURL,
		DefaultVoiceID: "7kRUX4UzUC1zcoeqNF4s",
		ModelID:        ModelMonolingualV1,
		MaxRetries:     2,
		RetryDelay:     time.Second,
		Timeout:        60 * time.Second,
		Logger:         slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
