// Package telegram adapts the Telegram Bot API to the agent pipeline.
//
// The bot long-polls for updates and handles each message on its own
// goroutine; per-user ordering is enforced downstream by the session
// store's turn lock, not here.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/hermesgpt/hermes/internal/httpc"
	"github.com/hermesgpt/hermes/pkg/agent"
)

// maxMessageLen is Telegram's hard cap on text message length.
const maxMessageLen = 4096

// Handler runs one inbound unit through the response pipelines.
type Handler interface {
	Handle(ctx context.Context, in agent.Inbound) []agent.Reply
}

// Observer receives traffic notifications, for status reporting.
type Observer interface {
	MessageReceived()
	ReplySent()
}

type nopObserver struct{}

func (nopObserver) MessageReceived() {}
func (nopObserver) ReplySent()       {}

// Bot is the long-polling Telegram transport.
type Bot struct {
	api      *tgbotapi.BotAPI
	handler  Handler
	observer Observer
	http     *http.Client
	logger   *slog.Logger

	wg sync.WaitGroup
}

// Option configures the bot.
type Option func(*Bot)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) { b.logger = l }
}

// WithObserver sets the traffic observer.
func WithObserver(o Observer) Option {
	return func(b *Bot) { b.observer = o }
}

// New connects to the Bot API and returns the transport.
func New(token string, handler Handler, opts ...Option) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram: bot token required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}

	b := &Bot{
		api:      api,
		handler:  handler,
		observer: nopObserver{},
		http:     httpc.NewClient(30 * time.Second),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "telegram")
	b.logger.Info("bot connected", "username", api.Self.UserName)
	return b, nil
}

// Run polls for updates until ctx is canceled. In-flight messages are
// drained before it returns.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.process(ctx, msg)
			}()
		}
	}
}

// process converts one Telegram message, runs it through the handler,
// and delivers the replies.
func (b *Bot) process(ctx context.Context, msg *tgbotapi.Message) {
	b.observer.MessageReceived()

	logger := b.logger.With("request_id", uuid.NewString(), "user_id", msg.From.ID)

	in := agent.Inbound{
		UserID:    msg.From.ID,
		ChatID:    msg.Chat.ID,
		UserName:  msg.From.FirstName,
		Text:      msg.Text,
		Private:   msg.Chat.IsPrivate(),
		GroupName: msg.Chat.Title,
	}

	if msg.Voice != nil {
		audio, err := b.downloadVoice(ctx, msg.Voice.FileID)
		if err != nil {
			logger.Error("voice download failed", "error", err)
			b.send(logger, tgbotapi.NewMessage(in.ChatID,
				"An error occurred while processing the voice message. Please try again later."))
			return
		}
		in.Audio = audio
	}

	for _, reply := range b.handler.Handle(ctx, in) {
		b.deliver(logger, in.ChatID, reply)
	}
}

// deliver sends one reply, splitting text that exceeds the API limit.
func (b *Bot) deliver(logger *slog.Logger, chatID int64, reply agent.Reply) {
	switch {
	case reply.Text != "":
		for _, chunk := range splitMessage(reply.Text, maxMessageLen) {
			b.send(logger, tgbotapi.NewMessage(chatID, chunk))
		}
	case len(reply.Voice) > 0:
		voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{
			Name:  "reply.mp3",
			Bytes: reply.Voice,
		})
		b.send(logger, voice)
	case len(reply.Photo) > 0:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
			Name:  "image.png",
			Bytes: reply.Photo,
		})
		b.send(logger, photo)
	}
}

func (b *Bot) send(logger *slog.Logger, c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Error("send failed", "error", err)
		return
	}
	b.observer.ReplySent()
}

// downloadVoice fetches the raw Ogg Opus bytes for a voice note.
func (b *Bot) downloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("telegram: resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: create request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram: download status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Typing shows the "typing..." indicator. Best effort.
func (b *Bot) Typing(chatID int64) {
	_, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	if err != nil {
		b.logger.Debug("chat action failed", "error", err)
	}
}

// Recording shows the "recording voice..." indicator. Best effort.
func (b *Bot) Recording(chatID int64) {
	_, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatRecordVoice))
	if err != nil {
		b.logger.Debug("chat action failed", "error", err)
	}
}

// splitMessage cuts text into chunks of at most limit characters,
// breaking on newlines where possible. The API limit counts characters,
// and cutting mid-rune would produce chunks the API rejects.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(runes) > limit {
		cut := limit
		if i := lastNewline(runes[:limit]); i > 0 {
			cut = i + 1
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}

// Verify Bot satisfies the agent's activity contract at compile time.
var _ agent.Activity = (*Bot)(nil)
