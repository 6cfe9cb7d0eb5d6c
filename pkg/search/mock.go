package search

import (
	"context"
	"sync"
)

// MockProvider implements Provider for testing.
type MockProvider struct {
	// SearchFunc is called when Search is invoked.
	SearchFunc func(ctx context.Context, query string) ([]Result, error)

	mu      sync.Mutex
	queries []string
}

// NewMockProvider creates a mock returning the given results.
func NewMockProvider(results []Result) *MockProvider {
	return &MockProvider{
		SearchFunc: func(ctx context.Context, query string) ([]Result, error) {
			return results, nil
		},
	}
}

// Search calls SearchFunc and records the query.
func (m *MockProvider) Search(ctx context.Context, query string) ([]Result, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

// Queries returns all recorded search queries.
func (m *MockProvider) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// MockFetcher implements Fetcher with a fixed URL-to-content map.
type MockFetcher struct {
	// Pages maps URL to content. Missing URLs fetch empty.
	Pages map[string]string
}

// Fetch returns the mapped content for url.
func (m *MockFetcher) Fetch(ctx context.Context, url string) string {
	return m.Pages[url]
}

var (
	_ Provider = (*MockProvider)(nil)
	_ Fetcher  = (*MockFetcher)(nil)
)
