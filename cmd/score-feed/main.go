// score-feed tails the AMQP score-event queue and prints each applied
// credit or debit. Useful for watching the ledger live or piping events
// into other tooling.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"smehachi/internal/config"
	"smehachi/internal/events"
	applog "smehachi/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentFeed)
	applog.SetDefault(logger)

	cfg := config.Load()
	if !cfg.FeedEnabled() {
		logger.Error("AMQP_URL must be set to tail the score feed")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	err = client.ConsumeScores(ctx, func(ev *events.ScoreEvent) error {
		sign := "+"
		if ev.Delta < 0 {
			sign = ""
		}
		fmt.Printf("%s  %s %s%d → %d\n", ev.At.Format("2006-01-02 15:04:05"), ev.Participant, sign, ev.Delta, ev.Balance)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Feed consumption failed", "error", err)
		os.Exit(1)
	}
}
