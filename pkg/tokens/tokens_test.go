package tokens

import (
	"strings"
	"testing"
)

func TestEstimateDeterministic(t *testing.T) {
	est, err := NewEstimator()
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	a := est.Estimate("The quick brown fox jumps over the lazy dog.")
	b := est.Estimate("The quick brown fox jumps over the lazy dog.")
	if a != b {
		t.Errorf("estimate not deterministic: %d vs %d", a, b)
	}
	if a == 0 {
		t.Error("non-empty text estimated at zero tokens")
	}
}

func TestEstimateMonotonic(t *testing.T) {
	est, err := NewEstimator()
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	short := est.Estimate(strings.Repeat("hello world ", 10))
	long := est.Estimate(strings.Repeat("hello world ", 100))
	if long <= short {
		t.Errorf("longer text estimated at fewer tokens: %d <= %d", long, short)
	}
}

func TestEstimateEmpty(t *testing.T) {
	est, err := NewEstimator()
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	if got := est.Estimate(""); got != 0 {
		t.Errorf("empty text estimated at %d tokens", got)
	}
}
