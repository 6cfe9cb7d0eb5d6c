package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hermesgpt/hermes/pkg/inference"
	"github.com/hermesgpt/hermes/pkg/session"
	"github.com/hermesgpt/hermes/pkg/store"
	"github.com/hermesgpt/hermes/pkg/youtube"
)

func (a *App) handleStart(in Inbound) []Reply {
	replies := a.handleHelp(in)
	return append(replies, Reply{Text: "Disclaimer: This bot is not affiliated with Telegram."})
}

func (a *App) handleHelp(in Inbound) []Reply {
	a.activity.Typing(in.ChatID)
	if in.Private {
		return []Reply{{Text: helpTextPrivate}}
	}
	return []Reply{{Text: helpTextGroup}}
}

func (a *App) handleClear(in Inbound) []Reply {
	a.sessions.Clear(in.UserID)
	a.activity.Typing(in.ChatID)
	return []Reply{{Text: msgCleared}}
}

// handleSpeak answers a /v message with both text and a voice note.
func (a *App) handleSpeak(ctx context.Context, in Inbound, args string) []Reply {
	if strings.TrimSpace(args) == "" {
		return []Reply{{Text: "Add a message after /v and I'll speak the reply. For example: /v tell me a joke"}}
	}
	a.activity.Typing(in.ChatID)

	in.Text = args
	text, err := a.converse(ctx, in, true)
	if err != nil {
		a.logger.Error("speak turn failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: msgProviderError}}
	}

	text = a.outputText(in.UserID, text)
	replies := []Reply{{Text: text}}

	voice, errMsg := a.synthesize(ctx, in, text)
	if errMsg != "" {
		return append(replies, Reply{Text: errMsg})
	}
	return append(replies, Reply{Voice: voice})
}

func (a *App) handleVoices(ctx context.Context, in Inbound) []Reply {
	a.activity.Typing(in.ChatID)

	voices, err := a.tts.ListVoices(ctx)
	if err != nil {
		a.logger.Error("list voices failed", "error", err)
		return []Reply{{Text: "Oops! Something went wrong. Please try again later."}}
	}

	var b strings.Builder
	b.WriteString("Available voices:\n\n")
	for _, v := range voices {
		b.WriteString(v.Name)
		b.WriteByte('\n')
	}
	return []Reply{
		{Text: b.String()},
		{Text: "Type a name after the /select command to choose a voice. For example: /select Adam"},
	}
}

func (a *App) handleSelectVoice(ctx context.Context, in Inbound, args string) []Reply {
	name := strings.TrimSpace(args)
	if name == "" {
		return []Reply{{Text: "Type a name after the /select command to choose a voice. For example: /select Adam"}}
	}
	a.activity.Typing(in.ChatID)

	voices, err := a.tts.ListVoices(ctx)
	if err != nil {
		a.logger.Error("list voices failed", "error", err)
		return []Reply{{Text: "Oops! Something went wrong. Please try again later."}}
	}

	for _, v := range voices {
		if strings.EqualFold(v.Name, name) {
			a.sessions.SetVoice(in.UserID, v.ID)
			a.persistSettings(ctx, in.UserID)
			return []Reply{{Text: fmt.Sprintf("Voice successfully set to %s.", v.Name)}}
		}
	}
	return []Reply{{Text: "Sorry, the provided voice name is not valid. Use the /voices command to view the available voice options."}}
}

func (a *App) handleSetMode(ctx context.Context, in Inbound, mode session.Mode) []Reply {
	a.sessions.SetMode(in.UserID, mode)
	a.persistSettings(ctx, in.UserID)
	a.activity.Typing(in.ChatID)
	return []Reply{{Text: fmt.Sprintf("Mode set to %s.", mode)}}
}

// persistSettings writes the user's current settings through to the
// durable store. Persistence failures are logged, not surfaced: the
// in-memory setting already took effect.
func (a *App) persistSettings(ctx context.Context, userID int64) {
	s := a.sessions.Settings(userID)
	err := a.repo.SaveSettings(ctx, &store.UserSettings{
		UserID:  userID,
		VoiceID: s.VoiceID,
		Mode:    string(s.Mode),
	})
	if err != nil {
		a.logger.Warn("settings persistence failed", "user_id", userID, "error", err)
	}
}

func (a *App) handleImage(ctx context.Context, in Inbound, args string) []Reply {
	prompt := strings.TrimSpace(args)
	if prompt == "" {
		return []Reply{{Text: "Add a prompt after /image. For example: /image a black cat sitting on a throne"}}
	}
	a.activity.Typing(in.ChatID)

	img, err := a.images.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("image generation failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: "Sorry, I couldn't generate that image. Please try again later."}}
	}
	return []Reply{{Photo: img}}
}

// handleSearch runs the search-augmented path: search, budget-select
// content, then a single-attempt model call over a fresh history.
func (a *App) handleSearch(ctx context.Context, in Inbound, args string) []Reply {
	query := strings.TrimSpace(args)
	if query == "" {
		return []Reply{{Text: "Add a query after /search. For example: /search recent AI news"}}
	}
	a.activity.Typing(in.ChatID)

	results, err := a.search.Search(ctx, query)
	if err != nil {
		a.logger.Error("search failed", "query", query, "error", err)
		return []Reply{{Text: "Sorry, an error occurred while processing your request."}}
	}
	// Zero results never reach the language model.
	if len(results) == 0 {
		return []Reply{{Text: msgNoResults}}
	}

	_, combined := a.selector.Select(ctx, results)

	prompt := fmt.Sprintf("Tell me about '%s'. Respond in a way that is easy to understand and that flows naturally. "+
		"It should feel like a human is responding. Do not use bullet points or numbered lists. "+
		"Respond only in paragraph form.", query)

	text, err := a.freshTurn(ctx, in, prompt+"\n\n"+combined)
	if err != nil {
		a.logger.Error("search turn failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: "Sorry, an error occurred while processing your request."}}
	}
	return []Reply{{Text: a.outputText(in.UserID, text)}}
}

// handleSummarize fetches a YouTube transcript and summarizes it.
func (a *App) handleSummarize(ctx context.Context, in Inbound, args string) []Reply {
	link := strings.TrimSpace(args)
	if link == "" {
		return []Reply{{Text: "Add a YouTube link after /summarize."}}
	}

	videoID, err := youtube.ParseVideoID(link)
	if err != nil {
		return []Reply{{Text: "Invalid YouTube URL."}}
	}
	a.activity.Typing(in.ChatID)

	captions, err := a.youtube.Transcript(ctx, videoID)
	if err != nil || captions == "" {
		a.logger.Warn("caption retrieval failed", "video_id", videoID, "error", err)
		return []Reply{{Text: "Unable to retrieve video captions."}}
	}

	prompt := "Please summarize the following video and then provide a bulleted list of the most important points: " + captions
	summary, err := a.summaryTurn(ctx, in, prompt)
	if err != nil {
		a.logger.Error("summary turn failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: "Sorry, I couldn't generate a summary for the video. Please try a different video or make sure the link is valid."}}
	}
	return []Reply{{Text: "Here's the video summary:\n\n" + summary}}
}

func (a *App) handlePasscode(ctx context.Context, in Inbound, args string) []Reply {
	if strings.TrimSpace(args) != a.passcode {
		return []Reply{{Text: "Incorrect passcode. Please try again."}}
	}

	allowed, err := a.repo.IsAllowed(ctx, in.UserID)
	if err != nil {
		a.logger.Error("authorization check failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: msgGenericError}}
	}
	if allowed {
		return []Reply{{Text: "You already have access."}}
	}

	if err := a.repo.Allow(ctx, in.UserID); err != nil {
		a.logger.Error("allow-list update failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: msgGenericError}}
	}
	a.logger.Info("access granted", "user_id", in.UserID, "user_name", in.UserName)
	return []Reply{{Text: fmt.Sprintf("Access granted! Welcome, %s.", in.UserName)}}
}

func (a *App) handleFeedback(ctx context.Context, in Inbound, args string) []Reply {
	message := strings.TrimSpace(args)
	if message == "" {
		return []Reply{{Text: "Add your feedback after /feedback."}}
	}

	err := a.repo.AppendFeedback(ctx, &store.Feedback{
		UserID:   in.UserID,
		UserName: in.UserName,
		Message:  message,
	})
	if err != nil {
		a.logger.Error("feedback store failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: "Oops! Something went wrong. Please try again later."}}
	}
	return []Reply{{Text: "Thank you for your feedback!"}}
}

// freshTurn clears the user's history and runs a single-attempt model
// call over the narrow window. The search path does not use the retry
// policy: one attempt only.
func (a *App) freshTurn(ctx context.Context, in Inbound, content string) (string, error) {
	release := a.sessions.Acquire(in.UserID)
	defer release()

	prompt := persona(in.Private)
	a.sessions.Clear(in.UserID)
	a.sessions.History(in.UserID, prompt)
	a.sessions.Append(in.UserID, session.Turn{Role: session.RoleUser, Content: content})

	window := a.sessions.Window(in.UserID, session.SummarizeWindow, prompt)

	resp, err := a.provider.Chat(ctx, &inference.ChatRequest{
		Messages: toMessages(window),
		Model:    a.chatModel,
	})
	if err != nil {
		return "", err
	}

	a.sessions.Append(in.UserID, session.Turn{Role: session.RoleAssistant, Content: resp.Message.Content})
	return resp.Message.Content, nil
}

// summaryTurn runs a single-attempt summarization call over the narrow
// window without clearing existing history.
func (a *App) summaryTurn(ctx context.Context, in Inbound, content string) (string, error) {
	release := a.sessions.Acquire(in.UserID)
	defer release()

	prompt := persona(in.Private)
	a.sessions.History(in.UserID, prompt)
	a.sessions.Append(in.UserID, session.Turn{Role: session.RoleUser, Content: content})

	window := a.sessions.Window(in.UserID, session.SummarizeWindow, prompt)

	resp, err := a.provider.Chat(ctx, &inference.ChatRequest{
		Messages: toMessages(window),
		Model:    a.chatModel,
	})
	if err != nil {
		return "", err
	}

	a.sessions.Append(in.UserID, session.Turn{Role: session.RoleAssistant, Content: resp.Message.Content})
	return resp.Message.Content, nil
}
