package stt

import (
	"log/slog"
	"time"
)

// Config holds transcription provider configuration.
type Config struct {
	// Connection
	BaseURL string
	APIKey  string

	// Model selects the Deepgram model.
	Model string

	// SmartFormat enables punctuation and formatting.
	SmartFormat bool

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

// WithModel sets the transcription model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithSmartFormat toggles smart formatting.
func WithSmartFormat(on bool) Option {
	return func(c *Config) { c.SmartFormat = on }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible Deepgram defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.deepgram.com/v1",
		Model:       "nova",
		SmartFormat: true,
		Timeout:     30 * time.Second,
		Logger:      slog.Default(),
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
