// Package config loads process configuration for hermes commands.
//
// Configuration comes from the environment, with an optional .env file
// loaded on startup for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process-level configuration.
type Config struct {
	// Transport
	TelegramToken string

	// Providers
	OpenAIKey     string
	ElevenKey     string
	DeepgramKey   string
	BingKey       string
	WeatherKey    string
	YouTubeKey    string

	// Storage
	DBPath string

	// Access control
	Passcode     string
	AllowedUsers []int64

	// Status server
	StatusAddr string

	// Logging
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first if present (never overriding
// variables already set in the environment).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		ElevenKey:     os.Getenv("ELEVEN_API_KEY"),
		DeepgramKey:   os.Getenv("DEEPGRAM_API_KEY"),
		BingKey:       os.Getenv("BING_API_KEY"),
		WeatherKey:    os.Getenv("WEATHER_API_KEY"),
		YouTubeKey:    os.Getenv("YOUTUBE_API_KEY"),
		DBPath:        envOr("HERMES_DB_PATH", "hermes.db"),
		Passcode:      envOr("HERMES_PASSCODE", "4309"),
		StatusAddr:    envOr("STATUS_ADDR", ":8090"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}

	ids, err := parseUserIDs(os.Getenv("ALLOWED_USER_IDS"))
	if err != nil {
		return Config{}, err
	}
	cfg.AllowedUsers = ids

	return cfg, cfg.Validate()
}

// Validate checks that the required credentials are present.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("config: TELEGRAM_BOT_TOKEN is required")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseUserIDs parses a comma-separated list of numeric user IDs.
func parseUserIDs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid user id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
