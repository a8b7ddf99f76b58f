package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"smehachi/internal/config"
	"smehachi/internal/dispatch"
	"smehachi/internal/events"
	"smehachi/internal/ledger"
	applog "smehachi/internal/log"
	"smehachi/internal/parser"
	"smehachi/internal/roster"
	"smehachi/internal/storage"
	"smehachi/internal/telegram"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting smehachi bot")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Roster and command vocabulary: an external file when configured,
	// otherwise the compiled-in default.
	var (
		rosterFile *roster.File
		err        error
	)
	if cfg.RosterFile != "" {
		rosterFile, err = roster.Load(cfg.RosterFile)
		logger.Info("Loaded roster file", "path", cfg.RosterFile)
	} else {
		rosterFile, err = roster.LoadDefault()
		logger.Info("Using built-in roster")
	}
	if err != nil {
		logger.Error("Failed to load roster", "error", err)
		os.Exit(1)
	}

	participants, err := roster.New(rosterFile.Participants)
	if err != nil {
		logger.Error("Invalid roster", "error", err)
		os.Exit(1)
	}

	intentParser, err := parser.New(rosterFile.Vocabulary)
	if err != nil {
		logger.Error("Invalid command vocabulary", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scores, err := ledger.New(ctx, repo)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	aggregator := ledger.NewAggregator(scores, participants.Participants())

	// The AMQP score feed is optional; without a broker the bot just
	// skips publishing.
	var publisher dispatch.EventPublisher
	if cfg.FeedEnabled() {
		feed, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP feed", "error", err)
			os.Exit(1)
		}
		defer feed.Close()
		publisher = feed
		logger.Info("Score feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Score feed disabled - no AMQP_URL provided")
	}

	dispatcher := dispatch.New(intentParser, participants, scores, aggregator, publisher)

	bot, err := telegram.New(cfg.TelegramToken, dispatcher, cfg.PollTimeout)
	if err != nil {
		logger.Error("Failed to initialize Telegram bot", "error", err)
		os.Exit(1)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})

	logger.Info("Bot running", "username", bot.Username(), "participants", len(participants.Participants()))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Bot stopped gracefully")
}
