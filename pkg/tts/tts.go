// Package tts provides text-to-speech synthesis.
//
// The default implementation uses the ElevenLabs HTTP API. Unlike a
// fixed-voice setup, every request carries its own voice ID and voice
// settings so per-user voice selection and stability presets work
// without rebuilding the provider.
//
// Example usage:
//
//	provider, err := tts.NewElevenLabs(tts.WithAPIKey(key))
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	result, err := provider.Synthesize(ctx, tts.SpeechRequest{
//	    Text:     "Hello!",
//	    VoiceID:  "7kRUX4UzUC1zcoeqNF4s",
//	    Settings: tts.SettingsStable,
//	})
package tts

import (
	"context"
	"time"
)

// Provider converts text to speech audio.
type Provider interface {
	// Synthesize converts text to audio, returning the complete buffer.
	Synthesize(ctx context.Context, req SpeechRequest) (*AudioResult, error)

	// ListVoices returns the voices available to the account.
	ListVoices(ctx context.Context) ([]Voice, error)

	// Health checks API connectivity and key validity.
	Health(ctx context.Context) error

	// Close releases any held resources.
	Close() error
}

// SpeechRequest describes a single synthesis call.
type SpeechRequest struct {
	// Text to speak.
	Text string

	// VoiceID selects the voice. Empty falls back to the provider
	// default voice.
	VoiceID string

	// Settings tunes voice delivery for this request.
	Settings VoiceSettings
}

// VoiceSettings controls voice characteristics.
type VoiceSettings struct {
	// Stability (0.0-1.0): lower is more expressive and erratic,
	// higher is more consistent.
	Stability float64

	// SimilarityBoost (0.0-1.0): how closely to match the original voice.
	SimilarityBoost float64
}

// Delivery presets.
var (
	// SettingsStable is the calm, consistent delivery.
	SettingsStable = VoiceSettings{Stability: 0.6, SimilarityBoost: 1.0}

	// SettingsUnstable is the erratic, expressive delivery.
	SettingsUnstable = VoiceSettings{Stability: 0.1, SimilarityBoost: 0.1}

	// SettingsDefault is the middle-ground delivery used when no
	// preset applies.
	SettingsDefault = VoiceSettings{Stability: 0.5, SimilarityBoost: 1.0}
)

// AudioResult is the output of a synthesis call.
type AudioResult struct {
	// Audio is the complete audio data.
	Audio []byte

	// MIME is the audio content type (e.g. "audio/mpeg").
	MIME string

	// CharCount is the number of characters synthesized (billing unit).
	CharCount int

	// LatencyMs is how long synthesis took.
	LatencyMs int64

	// Duration is the estimated audio duration.
	Duration time.Duration
}

// Voice describes an available voice.
type Voice struct {
	// ID is the provider voice identifier.
	ID string

	// Name is the human-readable voice name.
	Name string

	// Category groups voices (premade, cloned, generated).
	Category string
}
