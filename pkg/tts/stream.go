package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const elevenLabsWSBaseURL = "wss://api.elevenlabs.io/v1/text-to-speech"

// Streamer delivers synthesis audio chunk by chunk.
type Streamer interface {
	Stream(ctx context.Context, speech SpeechRequest, onAudio func(chunk []byte)) error
}

// StreamSession synthesizes one utterance over a WebSocket, delivering
// audio chunks as they arrive instead of waiting for the full buffer.
// Each session is single-use: dial, stream text, collect audio, close.
type StreamSession struct {
	config *Config
	wsBase string
}

// NewStreamSession creates a streaming synthesizer sharing the
// provider config.
func NewStreamSession(opts ...Option) (*StreamSession, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &StreamSession{config: cfg, wsBase: elevenLabsWSBaseURL}, nil
}

// Stream synthesizes the request and calls onAudio for every decoded
// audio chunk, in order, until the server marks the stream final.
func (s *StreamSession) Stream(ctx context.Context, speech SpeechRequest, onAudio func(chunk []byte)) error {
	if speech.Text == "" {
		return ErrEmptyText
	}

	voiceID := speech.VoiceID
	if voiceID == "" {
		voiceID = s.config.DefaultVoiceID
	}
	settings := speech.Settings
	if settings == (VoiceSettings{}) {
		settings = SettingsDefault
	}

	url := fmt.Sprintf("%s/%s/stream-input?model_id=%s", s.wsBase, voiceID, s.config.ModelID)

	headers := http.Header{}
	headers.Set("xi-api-key", s.config.APIKey)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		if resp != nil {
			return WrapError(providerElevenLabs, fmt.Errorf("websocket dial (status %d): %w", resp.StatusCode, err))
		}
		return WrapError(providerElevenLabs, fmt.Errorf("websocket dial: %w", err))
	}
	defer conn.Close()

	// BOS carries the voice settings for the whole stream.
	bos := map[string]interface{}{
		"text": " ",
		"voice_settings": map[string]interface{}{
			"stability":        settings.Stability,
			"similarity_boost": settings.SimilarityBoost,
		},
	}
	if err := conn.WriteJSON(bos); err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("send BOS: %w", err))
	}
	if err := conn.WriteJSON(map[string]interface{}{"text": speech.Text + " "}); err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("send text: %w", err))
	}
	// Empty text is the EOS marker.
	if err := conn.WriteJSON(map[string]interface{}{"text": ""}); err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("send EOS: %w", err))
	}

	for {
		if deadline, ok := ctx.Deadline(); ok {
			conn.SetReadDeadline(deadline)
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return WrapError(providerElevenLabs, fmt.Errorf("read: %w", err))
		}

		var chunk struct {
			Audio   string `json:"audio"`
			IsFinal bool   `json:"isFinal"`
		}
		if err := json.Unmarshal(message, &chunk); err != nil {
			continue
		}

		if chunk.Audio != "" && onAudio != nil {
			data, err := base64.StdEncoding.DecodeString(chunk.Audio)
			if err != nil {
				continue
			}
			onAudio(data)
		}
		if chunk.IsFinal {
			return nil
		}
	}
}

// Verify StreamSession implements Streamer at compile time.
var _ Streamer = (*StreamSession)(nil)
