// Command hermes runs the Telegram assistant bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hermesgpt/hermes/internal/config"
	"github.com/hermesgpt/hermes/internal/log"
	"github.com/hermesgpt/hermes/pkg/agent"
	"github.com/hermesgpt/hermes/pkg/images"
	"github.com/hermesgpt/hermes/pkg/inference"
	"github.com/hermesgpt/hermes/pkg/search"
	"github.com/hermesgpt/hermes/pkg/session"
	"github.com/hermesgpt/hermes/pkg/store"
	"github.com/hermesgpt/hermes/pkg/stt"
	"github.com/hermesgpt/hermes/pkg/telegram"
	"github.com/hermesgpt/hermes/pkg/tokens"
	"github.com/hermesgpt/hermes/pkg/tts"
	"github.com/hermesgpt/hermes/pkg/weather"
	"github.com/hermesgpt/hermes/pkg/web"
	"github.com/hermesgpt/hermes/pkg/youtube"
)

const chatModel = "gpt-4-1106-preview"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("hermes exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.L()

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer repo.Close()

	if err := repo.Seed(ctx, cfg.AllowedUsers); err != nil {
		return fmt.Errorf("seed allow-list: %w", err)
	}

	sessions := session.NewStore()
	if rows, err := repo.AllSettings(ctx); err != nil {
		logger.Warn("settings warm-up failed", "error", err)
	} else {
		for _, row := range rows {
			sessions.RestoreSettings(row.UserID, session.Settings{
				VoiceID: row.VoiceID,
				Mode:    session.Mode(row.Mode),
			})
		}
		logger.Info("settings restored", "users", len(rows))
	}

	provider, err := inference.NewClient(
		inference.WithAPIKey(cfg.OpenAIKey),
		inference.WithModel(chatModel),
		inference.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("inference client: %w", err)
	}
	defer provider.Close()

	estimator, err := tokens.NewEstimator()
	if err != nil {
		return fmt.Errorf("token estimator: %w", err)
	}

	deps := agent.Deps{
		Sessions:  sessions,
		Provider:  provider,
		Repo:      repo,
		Selector:  search.NewSelector(search.NewPageFetcher(search.WithFetchLogger(logger)), estimator, logger),
		Passcode:  cfg.Passcode,
		ChatModel: chatModel,
		Logger:    logger,
	}

	// Optional providers degrade to a canned error when unconfigured.
	if cfg.DeepgramKey != "" {
		sttClient, err := stt.NewDeepgram(stt.WithAPIKey(cfg.DeepgramKey), stt.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("deepgram client: %w", err)
		}
		deps.STT = sttClient
	} else {
		logger.Warn("DEEPGRAM_API_KEY not set, voice notes disabled")
		deps.STT = disabledSTT{}
	}

	if cfg.ElevenKey != "" {
		ttsClient, err := tts.NewElevenLabs(tts.WithAPIKey(cfg.ElevenKey), tts.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("elevenlabs client: %w", err)
		}
		defer ttsClient.Close()
		deps.TTS = ttsClient

		streamer, err := tts.NewStreamSession(tts.WithAPIKey(cfg.ElevenKey), tts.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("elevenlabs stream session: %w", err)
		}
		deps.Streamer = streamer
	} else {
		logger.Warn("ELEVEN_API_KEY not set, voice replies disabled")
		deps.TTS = disabledTTS{}
	}

	if cfg.BingKey != "" {
		bing, err := search.NewBing(cfg.BingKey, search.WithBingLogger(logger))
		if err != nil {
			return fmt.Errorf("bing client: %w", err)
		}
		deps.Search = bing
	} else {
		logger.Warn("BING_API_KEY not set, search disabled")
		deps.Search = disabledSearch{}
	}

	if cfg.WeatherKey != "" {
		wc, err := weather.NewClient(cfg.WeatherKey, weather.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("weather client: %w", err)
		}
		deps.Weather = wc
	} else {
		logger.Warn("WEATHER_API_KEY not set, weather lookups disabled")
		deps.Weather = disabledWeather{}
	}

	ic, err := images.NewClient(cfg.OpenAIKey, images.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("image client: %w", err)
	}
	deps.Images = ic

	if cfg.YouTubeKey != "" {
		yc, err := youtube.NewClient(ctx, cfg.YouTubeKey, youtube.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("youtube client: %w", err)
		}
		deps.YouTube = yc
	} else {
		logger.Warn("YOUTUBE_API_KEY not set, summarize disabled")
		deps.YouTube = disabledTranscripts{}
	}

	app := agent.New(deps)

	status := web.New(cfg.StatusAddr,
		web.WithLogger(logger),
		web.WithCheck("db", repo.Ping),
		web.WithCheck("inference", provider.Health),
	)
	go func() {
		if err := status.Start(); err != nil {
			logger.Error("status server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := status.Shutdown(shutdownCtx); err != nil {
			logger.Warn("status server shutdown", "error", err)
		}
	}()

	bot, err := telegram.New(cfg.TelegramToken, app,
		telegram.WithLogger(logger),
		telegram.WithObserver(status),
	)
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}
	app.SetActivity(bot)

	logger.Info("hermes running", "model", chatModel)
	return bot.Run(ctx)
}
