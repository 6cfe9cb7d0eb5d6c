// Package images generates images from text prompts via the OpenAI
// images API.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const openAIBaseURL = "https://api.openai.com/v1"

// Sentinel errors.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("images: API key required")

	// ErrEmptyPrompt is returned when there is nothing to draw.
	ErrEmptyPrompt = errors.New("images: empty prompt")

	// ErrNoImage is returned when the API responds without image data.
	ErrNoImage = errors.New("images: no image in response")
)

// Provider generates images from prompts.
type Provider interface {
	// Generate returns PNG bytes for the prompt.
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Client implements Provider over the OpenAI images endpoint.
type Client struct {
	baseURL string
	apiKey  string
	size    string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithSize sets the generated image size (e.g. "1024x1024").
func WithSize(size string) ClientOption {
	return func(c *Client) { c.size = size }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an image generation client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		baseURL: openAIBaseURL,
		apiKey:  apiKey,
		size:    "1024x1024",
		http:    &http.Client{Timeout: 120 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "images")
	return c, nil
}

// Generate creates one image and returns its decoded bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	start := time.Now()

	payload := map[string]interface{}{
		"prompt":          prompt,
		"n":               1,
		"size":            c.size,
		"response_format": "b64_json",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("images: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("images: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("images: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("images: API error %d: %s", resp.StatusCode, respBody)
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("images: decode response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return nil, ErrNoImage
	}

	img, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("images: decode image: %w", err)
	}

	c.logger.Debug("image generated",
		"prompt_chars", len(prompt),
		"bytes", len(img),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return img, nil
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
