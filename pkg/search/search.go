// Package search provides web search, page content fetching, and
// token-budgeted content selection for search-augmented replies.
//
// The flow is: query the search provider for ranked results, fetch the
// top candidates' page text, then run the two-stage budget selector to
// build a combined context that fits the model's limits.
package search

import "context"

// Result is one ranked hit from the search provider.
type Result struct {
	// Title of the page.
	Title string

	// URL of the page.
	URL string

	// Snippet is the provider's summary of the page.
	Snippet string
}

// Document is a candidate for inclusion in model context.
type Document struct {
	Result

	// Content is the fetched page text. Empty content is a valid
	// zero-length document, not an error.
	Content string
}

// Provider performs web searches.
type Provider interface {
	// Search returns ranked results for the query. An empty slice is
	// a valid "no results" outcome.
	Search(ctx context.Context, query string) ([]Result, error)
}

// Fetcher retrieves page text for a URL.
type Fetcher interface {
	// Fetch returns page text. Failures and timeouts yield empty
	// text, never an error.
	Fetch(ctx context.Context, url string) string
}
