// Package tokens counts model tokens for budgeting content sent to the
// language-model provider.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding is the tokenizer encoding used for budget estimates. It must
// match the encoding family of the chat models in use.
const Encoding = "cl100k_base"

// Estimator counts tokens for a text string. Deterministic for identical
// input and monotonic in text length under the same encoding.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

// NewEstimator loads the encoding. Call this once at startup; a missing
// encoding is a fatal configuration problem, not a per-call error.
func NewEstimator() (*Estimator, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("tokens: load encoding %s: %w", Encoding, err)
	}
	return &Estimator{enc: enc}, nil
}

// Estimate returns the token count for text.
func (e *Estimator) Estimate(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}
