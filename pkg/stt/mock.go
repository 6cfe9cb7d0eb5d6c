package stt

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
type Mock struct {
	// TranscribeFunc is called when Transcribe is invoked.
	TranscribeFunc func(ctx context.Context, audio []byte) (string, error)

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock that returns the given transcript.
func NewMock(transcript string) *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, audio []byte) (string, error) {
			return transcript, nil
		},
	}
}

// Transcribe calls TranscribeFunc and records the call.
func (m *Mock) Transcribe(ctx context.Context, audio []byte) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio)
	}
	return "", nil
}

// CallCount returns the number of Transcribe calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
