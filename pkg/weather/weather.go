// Package weather looks up current conditions via OpenWeatherMap.
// It backs the get_current_weather tool exposed to the language model.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// Sentinel errors.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("weather: API key required")

	// ErrNotFound is returned when the location is unknown.
	ErrNotFound = errors.New("weather: location not found")
)

// Reading is a current-conditions report.
type Reading struct {
	// Location is the resolved place name.
	Location string

	// Description is the short conditions summary ("light rain").
	Description string

	// TempC is the temperature in Celsius.
	TempC float64

	// FeelsLikeC is the perceived temperature in Celsius.
	FeelsLikeC float64

	// Humidity is relative humidity percent.
	Humidity int

	// WindSpeed is meters per second.
	WindSpeed float64
}

// Provider looks up current weather.
type Provider interface {
	Current(ctx context.Context, location string) (*Reading, error)
}

// Client implements Provider over the OpenWeatherMap API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a weather client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		baseURL: openWeatherBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "weather")
	return c, nil
}

// Current returns current conditions for a free-form location string.
func (c *Client) Current(ctx context.Context, location string) (*Reading, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather: API error %d: %s", resp.StatusCode, body)
	}

	var result struct {
		Name    string `json:"name"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}

	reading := &Reading{
		Location:   result.Name,
		TempC:      kelvinToCelsius(result.Main.Temp),
		FeelsLikeC: kelvinToCelsius(result.Main.FeelsLike),
		Humidity:   result.Main.Humidity,
		WindSpeed:  result.Wind.Speed,
	}
	if len(result.Weather) > 0 {
		reading.Description = result.Weather[0].Description
	}
	return reading, nil
}

// kelvinToCelsius converts the API's default Kelvin readings.
func kelvinToCelsius(k float64) float64 {
	return k - 273.15
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
