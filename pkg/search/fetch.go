package search

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchTimeout bounds a single page fetch. A fetch that runs past it
// yields empty content, not a failure.
const FetchTimeout = 10 * time.Second

// PageFetcher implements Fetcher with an HTTP GET plus HTML text
// extraction. All failure modes collapse to empty text.
type PageFetcher struct {
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// PageFetcherOption configures a PageFetcher.
type PageFetcherOption func(*PageFetcher)

// WithFetchTimeout overrides the per-fetch timeout.
func WithFetchTimeout(d time.Duration) PageFetcherOption {
	return func(f *PageFetcher) { f.timeout = d }
}

// WithFetchHTTPClient overrides the HTTP client.
func WithFetchHTTPClient(c *http.Client) PageFetcherOption {
	return func(f *PageFetcher) { f.http = c }
}

// WithFetchLogger sets the structured logger.
func WithFetchLogger(l *slog.Logger) PageFetcherOption {
	return func(f *PageFetcher) { f.logger = l }
}

// NewPageFetcher creates a page fetcher.
func NewPageFetcher(opts ...PageFetcherOption) *PageFetcher {
	f := &PageFetcher{
		http:    &http.Client{},
		timeout: FetchTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "search.fetch")
	return f
}

// Fetch returns the visible text of the page at url. Timeouts, network
// errors, non-200 responses, and unparseable bodies all return "".
func (f *PageFetcher) Fetch(ctx context.Context, url string) string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; hermes/1.0)")

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", "url", url, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug("fetch non-200", "url", url, "status", resp.StatusCode)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()
	text := doc.Find("body").Text()
	return strings.Join(strings.Fields(text), " ")
}

// Verify PageFetcher implements Fetcher at compile time.
var _ Fetcher = (*PageFetcher)(nil)
