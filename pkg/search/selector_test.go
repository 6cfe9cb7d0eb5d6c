package search

import (
	"context"
	"strings"
	"testing"
)

// wordEstimator counts whitespace-separated words, which makes test
// document sizes easy to construct.
type wordEstimator struct{}

func (wordEstimator) Estimate(text string) int {
	return len(strings.Fields(text))
}

func words(word string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = word
	}
	return strings.Join(parts, " ")
}

func newTestSelector(pages map[string]string) *Selector {
	return NewSelector(&MockFetcher{Pages: pages}, wordEstimator{}, nil)
}

func TestAdmissionStopsAtFirstOverBudget(t *testing.T) {
	// Three documents at ~6000 tokens each: the first two fit under
	// 16385, the third would push the total to 18000 and admission
	// stops there.
	sel := newTestSelector(map[string]string{
		"u1": words("a", 6000),
		"u2": words("b", 6000),
		"u3": words("c", 6000),
	})
	results := []Result{
		{Title: "one", URL: "u1"},
		{Title: "two", URL: "u2"},
		{Title: "three", URL: "u3"},
	}

	admitted, combined := sel.Select(context.Background(), results)
	if len(admitted) != 2 {
		t.Fatalf("admitted = %d, want 2", len(admitted))
	}
	if admitted[0].URL != "u1" || admitted[1].URL != "u2" {
		t.Errorf("admitted order wrong: %v, %v", admitted[0].URL, admitted[1].URL)
	}

	// 12000 tokens exceeds the 11000 trim budget, so the second stage
	// rebuilds: doc one fits (6000), doc two would run to 12000 and is
	// dropped.
	est := wordEstimator{}
	if got := est.Estimate(combined); got != 6000 {
		t.Errorf("combined tokens = %d, want 6000 after trim", got)
	}
	if !strings.HasPrefix(combined, "a") {
		t.Errorf("trimmed content should start with document one")
	}
	if strings.Contains(combined, "b") {
		t.Errorf("document two should be trimmed out")
	}
}

func TestNoSkipAheadOnAdmission(t *testing.T) {
	// A huge second document blocks admission even though the third
	// would fit: strict in-order greedy, no skipping ahead.
	sel := newTestSelector(map[string]string{
		"u1": words("a", 100),
		"u2": words("b", 17000),
		"u3": words("c", 100),
	})
	results := []Result{{URL: "u1"}, {URL: "u2"}, {URL: "u3"}}

	admitted, combined := sel.Select(context.Background(), results)
	if len(admitted) != 1 {
		t.Fatalf("admitted = %d, want 1", len(admitted))
	}
	if admitted[0].URL != "u1" {
		t.Errorf("admitted = %q", admitted[0].URL)
	}
	if strings.Contains(combined, "c") {
		t.Error("later candidate must not be admitted after stop")
	}
}

func TestUnderBothBudgetsKeepsEverything(t *testing.T) {
	sel := newTestSelector(map[string]string{
		"u1": words("a", 3000),
		"u2": words("b", 3000),
		"u3": words("c", 3000),
	})
	results := []Result{{URL: "u1"}, {URL: "u2"}, {URL: "u3"}}

	admitted, combined := sel.Select(context.Background(), results)
	if len(admitted) != 3 {
		t.Fatalf("admitted = %d, want 3", len(admitted))
	}
	est := wordEstimator{}
	if got := est.Estimate(combined); got != 9000 {
		t.Errorf("combined tokens = %d, want 9000", got)
	}
	// Documents are joined with a blank line, in rank order.
	want := words("a", 3000) + "\n\n" + words("b", 3000) + "\n\n" + words("c", 3000)
	if combined != want {
		t.Error("combined content should be the separator-joined documents")
	}
}

func TestTrimWalksAllAdmittedDocuments(t *testing.T) {
	// Trim is a per-document check, not a hard stop: when a middle
	// document busts the trim budget, a smaller later one still fits.
	sel := newTestSelector(map[string]string{
		"u1": words("a", 6000),
		"u2": words("b", 9000),
		"u3": words("c", 1000),
	})
	results := []Result{{URL: "u1"}, {URL: "u2"}, {URL: "u3"}}

	admitted, combined := sel.Select(context.Background(), results)
	if len(admitted) != 3 {
		t.Fatalf("admitted = %d, want 3 (total 16000 <= 16385)", len(admitted))
	}

	// Trim: a (6000) fits; b would run to 15000 and is skipped;
	// c runs to 7000 and fits.
	if !strings.Contains(combined, "a") || !strings.Contains(combined, "c") {
		t.Error("trim should keep documents one and three")
	}
	if strings.Contains(combined, "b") {
		t.Error("trim should drop document two")
	}
	if want := words("a", 6000) + "\n\n" + words("c", 1000); combined != want {
		t.Error("kept documents should be separator-joined in rank order")
	}
}

func TestEmptyFetchesProduceEmptyContent(t *testing.T) {
	// All fetches empty: zero-length documents are valid, the combined
	// content is empty, and nothing errors.
	sel := newTestSelector(map[string]string{})
	results := []Result{{URL: "u1"}, {URL: "u2"}}

	admitted, combined := sel.Select(context.Background(), results)
	if len(admitted) != 2 {
		t.Fatalf("admitted = %d, want 2", len(admitted))
	}
	if combined != "" {
		t.Errorf("combined = %q, want empty", combined)
	}
}

func TestOnlyTopThreeConsidered(t *testing.T) {
	sel := newTestSelector(map[string]string{
		"u1": "a", "u2": "b", "u3": "c", "u4": "d",
	})
	results := []Result{{URL: "u1"}, {URL: "u2"}, {URL: "u3"}, {URL: "u4"}}

	admitted, combined := sel.Select(context.Background(), results)
	if len(admitted) != 3 {
		t.Fatalf("admitted = %d, want 3", len(admitted))
	}
	if strings.Contains(combined, "d") {
		t.Error("fourth result must not be considered")
	}
}

func TestZeroCandidates(t *testing.T) {
	sel := newTestSelector(nil)
	admitted, combined := sel.Select(context.Background(), nil)
	if len(admitted) != 0 || combined != "" {
		t.Errorf("expected empty selection, got %d docs, %q", len(admitted), combined)
	}
}
