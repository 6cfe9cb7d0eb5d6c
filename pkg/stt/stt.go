// Package stt provides speech-to-text transcription.
//
// The default implementation uses Deepgram's prerecorded audio API. The
// input is raw audio bytes (WAV after normalization); the output is the
// top transcript for the first channel.
//
// Example usage:
//
//	provider, err := stt.NewDeepgram(stt.WithAPIKey(key))
//	if err != nil {
//	    return err
//	}
//	text, err := provider.Transcribe(ctx, wavBytes)
package stt

import "context"

// Provider transcribes audio to text.
type Provider interface {
	// Transcribe converts audio bytes to text. An empty transcript is
	// a valid result, not an error.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
