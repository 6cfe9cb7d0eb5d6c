package agent

import (
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/hermesgpt/hermes/pkg/audio"
	"github.com/hermesgpt/hermes/pkg/session"
	"github.com/hermesgpt/hermes/pkg/tts"
)

// streamThreshold is the reply length, in characters, above which
// synthesis goes through the streaming session instead of the one-shot
// endpoint. Long replies start producing audio before the full buffer
// renders.
const streamThreshold = 1000

// handleVoiceNote runs the voice pipeline: normalize, transcribe,
// converse, transform, synthesize. Stages are strictly sequential; a
// transcription failure short-circuits before any language-model call.
func (a *App) handleVoiceNote(ctx context.Context, in Inbound) []Reply {
	a.activity.Typing(in.ChatID)

	wav, err := a.normalizeAudio(in.Audio)
	if err != nil {
		a.logger.Error("audio normalization failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: "An error occurred while processing the voice message. Please try again later."}}
	}

	transcript, err := a.stt.Transcribe(ctx, wav)
	if err != nil {
		a.logger.Error("transcription failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: "An error occurred while processing the voice message. Please try again later."}}
	}
	// An empty but successful transcript passes through.
	in.Text = transcript

	// Voice-originated turns skip the tool declaration.
	text, err := a.converse(ctx, in, false)
	if err != nil {
		a.logger.Error("voice chat turn failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: msgProviderError}}
	}

	text = a.outputText(in.UserID, text)

	voice, errReply := a.synthesize(ctx, in, text)
	if errReply != "" {
		return []Reply{{Text: errReply}}
	}
	return []Reply{{Voice: voice}}
}

// synthesize runs text-to-speech with the user's voice and the preset
// for their mode. On failure it returns a human-readable message and
// no audio; the caller decides whether to fall back to text.
func (a *App) synthesize(ctx context.Context, in Inbound, text string) (voice []byte, errMsg string) {
	a.activity.Recording(in.ChatID)

	settings := a.sessions.Settings(in.UserID)
	req := tts.SpeechRequest{
		Text:     text,
		VoiceID:  settings.Voice(),
		Settings: presetFor(settings.Mode),
	}

	if a.streamer != nil && utf8.RuneCountInString(text) > streamThreshold {
		var buf bytes.Buffer
		err := a.streamer.Stream(ctx, req, func(chunk []byte) {
			buf.Write(chunk)
		})
		if err != nil {
			a.logger.Error("stream synthesis failed", "user_id", in.UserID, "error", err)
			return nil, msgVoiceError
		}
		return buf.Bytes(), ""
	}

	result, err := a.tts.Synthesize(ctx, req)
	if err != nil {
		a.logger.Error("synthesis failed", "user_id", in.UserID, "error", err)
		return nil, msgVoiceError
	}
	return result.Audio, ""
}

// presetFor maps a synthesis mode to its voice settings.
func presetFor(mode session.Mode) tts.VoiceSettings {
	switch mode {
	case session.ModeStable:
		return tts.SettingsStable
	case session.ModeUnstable:
		return tts.SettingsUnstable
	default:
		return tts.SettingsDefault
	}
}

// defaultNormalize is the production audio path.
func defaultNormalize(oggOpus []byte) ([]byte, error) {
	return audio.Normalize(oggOpus)
}
