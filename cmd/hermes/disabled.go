package main

import (
	"context"
	"errors"

	"github.com/hermesgpt/hermes/pkg/search"
	"github.com/hermesgpt/hermes/pkg/tts"
	"github.com/hermesgpt/hermes/pkg/weather"
)

// errNotConfigured is returned by the stand-ins installed when an
// optional provider's API key is missing. The agent turns it into its
// usual error reply for that pipeline.
var errNotConfigured = errors.New("provider not configured")

type disabledSTT struct{}

func (disabledSTT) Transcribe(context.Context, []byte) (string, error) {
	return "", errNotConfigured
}

type disabledTTS struct{}

func (disabledTTS) Synthesize(context.Context, tts.SpeechRequest) (*tts.AudioResult, error) {
	return nil, errNotConfigured
}

func (disabledTTS) ListVoices(context.Context) ([]tts.Voice, error) {
	return nil, errNotConfigured
}

func (disabledTTS) Health(context.Context) error { return errNotConfigured }
func (disabledTTS) Close() error                 { return nil }

type disabledSearch struct{}

func (disabledSearch) Search(context.Context, string) ([]search.Result, error) {
	return nil, errNotConfigured
}

type disabledWeather struct{}

func (disabledWeather) Current(context.Context, string) (*weather.Reading, error) {
	return nil, errNotConfigured
}

type disabledTranscripts struct{}

func (disabledTranscripts) Transcript(context.Context, string) (string, error) {
	return "", errNotConfigured
}
