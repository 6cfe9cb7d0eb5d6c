package search

import (
	"context"
	"log/slog"
	"strings"
)

// Budget limits for search-augmented context.
const (
	// AdmissionBudget is the coarse per-request token cap. Documents
	// are admitted in rank order while the running total stays at or
	// under it.
	AdmissionBudget = 16385

	// TrimBudget is the tighter combined-content cap applied after
	// admission.
	TrimBudget = 11000

	// MaxCandidates is how many ranked results are considered.
	MaxCandidates = 3
)

// Estimator counts model tokens for a text string.
type Estimator interface {
	Estimate(text string) int
}

// Selector builds token-budgeted combined content from ranked results.
type Selector struct {
	fetcher   Fetcher
	estimator Estimator
	logger    *slog.Logger
}

// NewSelector creates a content selector.
func NewSelector(fetcher Fetcher, estimator Estimator, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		fetcher:   fetcher,
		estimator: estimator,
		logger:    logger.With("component", "search.selector"),
	}
}

// Select fetches content for the top-ranked results and returns the
// admitted documents plus their combined text.
//
// Stage one admits documents in rank order while the running token
// total stays at or under AdmissionBudget, stopping at the first
// candidate that would exceed it. Stage two re-walks the admitted
// documents and rebuilds the combined text under TrimBudget when the
// stage-one total runs past it. The two limits are independent:
// overall request size versus a tighter summarization margin.
func (s *Selector) Select(ctx context.Context, results []Result) ([]Document, string) {
	candidates := results
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	var admitted []Document
	total := 0
	for _, r := range candidates {
		content := s.fetcher.Fetch(ctx, r.URL)
		doc := Document{Result: r, Content: content}

		cost := s.estimator.Estimate(content)
		if total+cost > AdmissionBudget {
			s.logger.Debug("budget reached, stopping admission",
				"url", r.URL, "cost", cost, "total", total)
			break
		}
		admitted = append(admitted, doc)
		total += cost
	}

	combined := combine(admitted)
	if s.estimator.Estimate(combined) > TrimBudget {
		combined = s.trim(admitted)
	}

	s.logger.Debug("selection complete",
		"candidates", len(candidates),
		"admitted", len(admitted),
		"tokens", s.estimator.Estimate(combined),
	)
	return admitted, combined
}

// docSeparator joins document contents in the combined text.
const docSeparator = "\n\n"

// trim rebuilds combined content under TrimBudget, walking the
// admitted documents in order and taking each only if it still fits.
func (s *Selector) trim(docs []Document) string {
	var kept []string
	total := 0
	for _, d := range docs {
		cost := s.estimator.Estimate(d.Content)
		if total+cost > TrimBudget {
			continue
		}
		if d.Content != "" {
			kept = append(kept, d.Content)
		}
		total += cost
	}
	return strings.Join(kept, docSeparator)
}

func combine(docs []Document) string {
	var parts []string
	for _, d := range docs {
		if d.Content != "" {
			parts = append(parts, d.Content)
		}
	}
	return strings.Join(parts, docSeparator)
}
