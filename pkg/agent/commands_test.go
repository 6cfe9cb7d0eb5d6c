package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hermesgpt/hermes/pkg/inference"
	"github.com/hermesgpt/hermes/pkg/search"
	"github.com/hermesgpt/hermes/pkg/session"
)

func TestSearchZeroResultsNeverReachModel(t *testing.T) {
	app, f := newTestApp(t)
	f.search.SearchFunc = func(ctx context.Context, query string) ([]search.Result, error) {
		return nil, nil
	}

	replies := app.Handle(context.Background(), privateText("/search unfindable thing"))
	if len(replies) != 1 || replies[0].Text != msgNoResults {
		t.Fatalf("got %+v, want no-results message", replies)
	}
	if n := f.provider.CallCount("Chat"); n != 0 {
		t.Fatalf("provider called %d times for zero results", n)
	}
}

func TestSearchBuildsFreshHistory(t *testing.T) {
	app, f := newTestApp(t)
	ctx := context.Background()

	// Prior conversation that the search turn must discard.
	app.Handle(ctx, privateText("remember the number 7"))
	f.provider.Reset()

	f.search.SearchFunc = func(ctx context.Context, query string) ([]search.Result, error) {
		return []search.Result{{Title: "Go", URL: "https://go.dev", Snippet: "the Go language"}}, nil
	}

	var sent []inference.Message
	f.provider.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		sent = req.Messages
		return &inference.ChatResponse{Message: inference.NewAssistantMessage("Go is a language."), FinishReason: "stop"}, nil
	}

	replies := app.Handle(ctx, privateText("/search golang"))
	if len(replies) != 1 || replies[0].Text != "Go is a language." {
		t.Fatalf("got %+v", replies)
	}

	// One single-attempt call over system + search prompt only.
	if n := f.provider.CallCount("Chat"); n != 1 {
		t.Fatalf("provider called %d times, want 1", n)
	}
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want system + search prompt: %+v", len(sent), sent)
	}
	if sent[0].Role != inference.RoleSystem {
		t.Fatalf("first message is %s, want system", sent[0].Role)
	}
	if !strings.Contains(sent[1].Content, "Tell me about 'golang'") {
		t.Fatalf("search prompt missing query: %q", sent[1].Content)
	}
	if strings.Contains(sent[1].Content, "number 7") {
		t.Fatal("prior history leaked into search turn")
	}

	// The stored history was rebuilt around the search exchange.
	history := f.sessions.History(testUserID, "")
	if len(history) != 3 {
		t.Fatalf("history has %d turns, want 3", len(history))
	}
	if history[2].Role != session.RoleAssistant || history[2].Content != "Go is a language." {
		t.Fatalf("assistant turn = %+v", history[2])
	}
}

func TestSearchSingleAttemptNotRetried(t *testing.T) {
	app, f := newTestApp(t)
	f.search.SearchFunc = func(ctx context.Context, query string) ([]search.Result, error) {
		return []search.Result{{Title: "x", URL: "https://x.test"}}, nil
	}
	f.provider.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		return nil, &inference.APIError{StatusCode: 429, Message: "rate limited", Provider: "test"}
	}

	replies := app.Handle(context.Background(), privateText("/search x"))
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "error occurred") {
		t.Fatalf("got %+v, want error message", replies)
	}
	// Transient or not, the search path gets exactly one attempt.
	if n := f.provider.CallCount("Chat"); n != 1 {
		t.Fatalf("provider called %d times, want 1", n)
	}
}

func TestSearchProviderFailure(t *testing.T) {
	app, f := newTestApp(t)
	f.search.SearchFunc = func(ctx context.Context, query string) ([]search.Result, error) {
		return nil, errors.New("bing down")
	}

	replies := app.Handle(context.Background(), privateText("/search anything"))
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "error occurred") {
		t.Fatalf("got %+v, want error message", replies)
	}
	if n := f.provider.CallCount("Chat"); n != 0 {
		t.Fatalf("provider called %d times after search failure", n)
	}
}

func TestSummarizeInvalidURL(t *testing.T) {
	app, f := newTestApp(t)

	replies := app.Handle(context.Background(), privateText("/summarize https://example.com/watch"))
	if len(replies) != 1 || replies[0].Text != "Invalid YouTube URL." {
		t.Fatalf("got %+v", replies)
	}
	if n := f.provider.CallCount("Chat"); n != 0 {
		t.Fatalf("provider called %d times for invalid URL", n)
	}
}

func TestSummarizeNoCaptions(t *testing.T) {
	app, f := newTestApp(t)
	f.youtube.TranscriptFunc = func(ctx context.Context, videoID string) (string, error) {
		return "", errors.New("no caption track")
	}

	replies := app.Handle(context.Background(), privateText("/summarize https://youtu.be/dQw4w9WgXcQ"))
	if len(replies) != 1 || replies[0].Text != "Unable to retrieve video captions." {
		t.Fatalf("got %+v", replies)
	}
	if n := f.provider.CallCount("Chat"); n != 0 {
		t.Fatalf("provider called %d times without captions", n)
	}
}

func TestSummarizeVideo(t *testing.T) {
	app, f := newTestApp(t)

	var gotVideoID string
	f.youtube.TranscriptFunc = func(ctx context.Context, videoID string) (string, error) {
		gotVideoID = videoID
		return "today we cover channels and goroutines", nil
	}
	f.provider.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		last := req.Messages[len(req.Messages)-1]
		if !strings.Contains(last.Content, "channels and goroutines") {
			t.Errorf("summarize prompt missing captions: %q", last.Content)
		}
		return &inference.ChatResponse{Message: inference.NewAssistantMessage("A talk about Go concurrency."), FinishReason: "stop"}, nil
	}

	replies := app.Handle(context.Background(), privateText("/summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "A talk about Go concurrency.") {
		t.Fatalf("got %+v", replies)
	}
	if gotVideoID != "dQw4w9WgXcQ" {
		t.Fatalf("video ID = %q, want dQw4w9WgXcQ", gotVideoID)
	}

	history := f.sessions.History(testUserID, "")
	if history[len(history)-1].Role != session.RoleAssistant {
		t.Fatal("summary not committed to history")
	}
}

func TestSpeakRepliesWithTextAndVoice(t *testing.T) {
	app, f := newTestApp(t)

	replies := app.Handle(context.Background(), privateText("/v tell me a story"))
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want text plus voice: %+v", len(replies), replies)
	}
	if replies[0].Text == "" {
		t.Fatal("first reply should carry text")
	}
	if len(replies[1].Voice) == 0 {
		t.Fatal("second reply should carry audio")
	}
	if n := f.tts.CallCount(); n != 1 {
		t.Fatalf("synthesize called %d times, want 1", n)
	}
}

func TestVoicesListsNames(t *testing.T) {
	app, _ := newTestApp(t)

	replies := app.Handle(context.Background(), privateText("/voices"))
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want list plus hint", len(replies))
	}
	if !strings.Contains(replies[0].Text, "Mock") {
		t.Fatalf("voice list missing name: %q", replies[0].Text)
	}
	if !strings.Contains(replies[1].Text, "/select") {
		t.Fatalf("hint missing select usage: %q", replies[1].Text)
	}
}
