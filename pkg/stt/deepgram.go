package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Deepgram implements Provider using the Deepgram prerecorded API.
type Deepgram struct {
	baseURL string
	apiKey  string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewDeepgram creates a new Deepgram transcription provider.
func NewDeepgram(opts ...Option) (*Deepgram, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Deepgram{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "stt.deepgram"),
	}, nil
}

// Transcribe sends audio to Deepgram and returns the top transcript.
func (d *Deepgram) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	start := time.Now()

	q := url.Values{}
	q.Set("model", d.config.Model)
	if d.config.SmartFormat {
		q.Set("smart_format", "true")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.baseURL+"/listen?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("stt: create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var result listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("stt: decode response: %w", err)
	}

	transcript := result.topTranscript()
	d.logger.Debug("transcription complete",
		"bytes", len(audio),
		"chars", len(transcript),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return transcript, nil
}

// listenResponse mirrors the Deepgram prerecorded response shape.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (r *listenResponse) topTranscript() string {
	if len(r.Results.Channels) == 0 {
		return ""
	}
	alts := r.Results.Channels[0].Alternatives
	if len(alts) == 0 {
		return ""
	}
	return alts[0].Transcript
}

// Verify Deepgram implements Provider at compile time.
var _ Provider = (*Deepgram)(nil)
