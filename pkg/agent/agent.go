// Package agent is the conversation orchestration core. It owns the
// routing of inbound messages into the plain, tool-augmented,
// search-augmented, and voice pipelines, the session store reads and
// writes around every provider call, and the failure handling that
// keeps history consistent when providers misbehave.
package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hermesgpt/hermes/pkg/inference"
	"github.com/hermesgpt/hermes/pkg/retry"
	"github.com/hermesgpt/hermes/pkg/search"
	"github.com/hermesgpt/hermes/pkg/session"
	"github.com/hermesgpt/hermes/pkg/store"
	"github.com/hermesgpt/hermes/pkg/stt"
	"github.com/hermesgpt/hermes/pkg/tts"
	"github.com/hermesgpt/hermes/pkg/weather"
)

// Inbound is one unit of work from the transport layer.
type Inbound struct {
	// UserID identifies the sender.
	UserID int64

	// ChatID identifies the chat the reply goes to.
	ChatID int64

	// UserName is the sender's display name.
	UserName string

	// Text is the message text, empty for pure voice notes.
	Text string

	// Audio is an Ogg Opus voice note, nil for text messages.
	Audio []byte

	// Private is true for direct chats, false for groups.
	Private bool

	// GroupName is the chat title for group messages.
	GroupName string
}

// Reply is one outbound unit handed back to the transport.
type Reply struct {
	// Text to send, when non-empty.
	Text string

	// Voice is synthesized audio to send as a voice note.
	Voice []byte

	// Photo is a generated image to send.
	Photo []byte
}

// Activity is the transport's "show activity" side channel. Calls are
// best-effort; the orchestrator never depends on them for correctness.
type Activity interface {
	Typing(chatID int64)
	Recording(chatID int64)
}

// NopActivity discards activity signals.
type NopActivity struct{}

func (NopActivity) Typing(int64)    {}
func (NopActivity) Recording(int64) {}

// Transcripts resolves video captions for the summarize pipeline.
type Transcripts interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// ImageGen generates images for the image pipeline.
type ImageGen interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Deps carries the orchestrator's collaborators.
type Deps struct {
	Sessions  *session.Store
	Provider  inference.Provider
	STT       stt.Provider
	TTS       tts.Provider
	Streamer  tts.Streamer
	Search    search.Provider
	Selector  *search.Selector
	Weather   weather.Provider
	Images    ImageGen
	YouTube   Transcripts
	Repo      store.Repository
	Activity  Activity
	Passcode  string
	ChatModel string
	Logger    *slog.Logger
}

// App coordinates the response pipelines.
type App struct {
	sessions  *session.Store
	provider  inference.Provider
	stt       stt.Provider
	tts       tts.Provider
	streamer  tts.Streamer
	search    search.Provider
	selector  *search.Selector
	weather   weather.Provider
	images    ImageGen
	youtube   Transcripts
	repo      store.Repository
	activity  Activity
	passcode  string
	chatModel string
	policy    retry.Policy
	logger    *slog.Logger

	// normalizeAudio is overridable in tests; the default decodes
	// Ogg Opus to 16kHz WAV.
	normalizeAudio func([]byte) ([]byte, error)
}

// Canned user-facing messages.
const (
	msgNoPermission  = "You do not have permission to use this bot. If you have a passcode, simply type /passcode followed by your code."
	msgGenericError  = "An error occurred. Please try again later."
	msgProviderError = "I'm sorry, there was an issue with my response. Please try again later. You can also try clearing the conversation history by typing /clear and then try again."
	msgNoResults     = "Sorry, I couldn't find any results for your query."
	msgVoiceError    = "Sorry, there was a problem generating the voice message."
	msgCleared       = "Conversation history cleared."
)

// New creates the orchestrator.
func New(d Deps) *App {
	if d.Activity == nil {
		d.Activity = NopActivity{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	logger := d.Logger.With("component", "agent")

	policy := retry.DefaultPolicy(inference.IsTransient)
	policy.Logger = logger

	return &App{
		sessions:       d.Sessions,
		provider:       d.Provider,
		stt:            d.STT,
		tts:            d.TTS,
		streamer:       d.Streamer,
		search:         d.Search,
		selector:       d.Selector,
		weather:        d.Weather,
		images:         d.Images,
		youtube:        d.YouTube,
		repo:           d.Repo,
		activity:       d.Activity,
		passcode:       d.Passcode,
		chatModel:      d.ChatModel,
		policy:         policy,
		logger:         logger,
		normalizeAudio: defaultNormalize,
	}
}

// SetActivity late-binds the transport's activity channel. The
// transport needs the orchestrator as its handler, so it cannot exist
// before New runs. Call before serving traffic.
func (a *App) SetActivity(act Activity) {
	if act != nil {
		a.activity = act
	}
}

// Handle classifies one inbound unit and runs it through exactly one
// pipeline. Every failure path produces a user-facing reply; a nil
// result means the message was deliberately ignored (unprefixed group
// chatter).
func (a *App) Handle(ctx context.Context, in Inbound) []Reply {
	cmd, args := parseCommand(in.Text)

	// The passcode command is the only entry point open to
	// unauthorized users.
	if cmd == "passcode" {
		return a.handlePasscode(ctx, in, args)
	}

	allowed, err := a.repo.IsAllowed(ctx, in.UserID)
	if err != nil {
		a.logger.Error("authorization check failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: msgGenericError}}
	}
	if !allowed {
		return []Reply{{Text: msgNoPermission}}
	}

	if in.Audio != nil {
		return a.handleVoiceNote(ctx, in)
	}

	switch cmd {
	case "start":
		return a.handleStart(in)
	case "help":
		return a.handleHelp(in)
	case "clear":
		return a.handleClear(in)
	case "v":
		return a.handleSpeak(ctx, in, args)
	case "voices":
		return a.handleVoices(ctx, in)
	case "select":
		return a.handleSelectVoice(ctx, in, args)
	case "stable":
		return a.handleSetMode(ctx, in, session.ModeStable)
	case "unstable":
		return a.handleSetMode(ctx, in, session.ModeUnstable)
	case "image":
		return a.handleImage(ctx, in, args)
	case "search":
		return a.handleSearch(ctx, in, args)
	case "summarize":
		return a.handleSummarize(ctx, in, args)
	case "feedback":
		return a.handleFeedback(ctx, in, args)
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil
	}

	// Group chats require a routing prefix; bare chatter is ignored.
	if !in.Private {
		text := strings.TrimSpace(in.Text)
		if !strings.HasPrefix(text, "/") {
			return nil
		}
		in.Text = strings.TrimSpace(strings.TrimPrefix(text, "/"))
		if in.Text == "" {
			return nil
		}
	}

	return a.handleChat(ctx, in)
}

// parseCommand splits "/cmd args" into its name and argument string.
// Returns an empty command for plain text.
func parseCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	rest := strings.TrimPrefix(text, "/")
	name, tail, _ := strings.Cut(rest, " ")
	// Strip the @botname suffix Telegram appends in groups.
	name, _, _ = strings.Cut(name, "@")
	if !knownCommands[strings.ToLower(name)] {
		return "", ""
	}
	return strings.ToLower(name), strings.TrimSpace(tail)
}

var knownCommands = map[string]bool{
	"start": true, "help": true, "clear": true, "v": true,
	"voices": true, "select": true, "stable": true, "unstable": true,
	"image": true, "search": true, "summarize": true,
	"feedback": true, "passcode": true,
}
