package tts

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
type Mock struct {
	// SynthesizeFunc is called when Synthesize is invoked.
	SynthesizeFunc func(ctx context.Context, req SpeechRequest) (*AudioResult, error)

	// ListVoicesFunc is called when ListVoices is invoked.
	ListVoicesFunc func(ctx context.Context) ([]Voice, error)

	mu       sync.Mutex
	requests []SpeechRequest
}

// NewMock creates a mock that returns a fixed audio buffer.
func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, req SpeechRequest) (*AudioResult, error) {
			return &AudioResult{
				Audio:     []byte("mock-audio"),
				MIME:      "audio/mpeg",
				CharCount: len(req.Text),
			}, nil
		},
		ListVoicesFunc: func(ctx context.Context) ([]Voice, error) {
			return []Voice{{ID: "mock-voice", Name: "Mock", Category: "premade"}}, nil
		},
	}
}

// Synthesize calls SynthesizeFunc and records the request.
func (m *Mock) Synthesize(ctx context.Context, req SpeechRequest) (*AudioResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, req)
	}
	return nil, ErrEmptyText
}

// ListVoices calls ListVoicesFunc.
func (m *Mock) ListVoices(ctx context.Context) ([]Voice, error) {
	if m.ListVoicesFunc != nil {
		return m.ListVoicesFunc(ctx)
	}
	return nil, nil
}

// Health always succeeds.
func (m *Mock) Health(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Requests returns all recorded synthesis requests.
func (m *Mock) Requests() []SpeechRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SpeechRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of Synthesize calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Reset clears recorded requests.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
