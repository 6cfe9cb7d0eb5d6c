package search

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

const bingBaseURL = "https://api.bing.microsoft.com/v7.0"

// ErrNoAPIKey is returned when the search key is missing.
var ErrNoAPIKey = errors.New("search: API key required")

// Bing implements Provider using the Bing Web Search API.
type Bing struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// BingOption configures the Bing client.
type BingOption func(*Bing)

// WithBingBaseURL overrides the API base URL.
func WithBingBaseURL(u string) BingOption {
	return func(b *Bing) { b.baseURL = u }
}

// WithBingHTTPClient overrides the HTTP client.
func WithBingHTTPClient(c *http.Client) BingOption {
	return func(b *Bing) { b.http = c }
}

// WithBingLogger sets the structured logger.
func WithBingLogger(l *slog.Logger) BingOption {
	return func(b *Bing) { b.logger = l }
}

// NewBing creates a Bing search provider.
func NewBing(apiKey string, opts ...BingOption) (*Bing, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	b := &Bing{
		baseURL: bingBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "search.bing")
	return b, nil
}

// Search returns ranked web results for the query.
func (b *Bing) Search(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, "GET", b.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.apiKey)

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search: API error %d: %s", resp.StatusCode, body)
	}

	var result struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	results := make([]Result, 0, len(result.WebPages.Value))
	for _, v := range result.WebPages.Value {
		results = append(results, Result{Title: v.Name, URL: v.URL, Snippet: v.Snippet})
	}

	b.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}

// Verify Bing implements Provider at compile time.
var _ Provider = (*Bing)(nil)
