// Package telegram is the chat transport: it delivers inbound group
// messages to the dispatcher and sends back the replies it produces.
// All scoring logic lives behind the dispatcher; this package only
// routes.
package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"smehachi/internal/dispatch"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	dispatcher  *dispatch.Dispatcher
	pollTimeout int
}

func New(token string, dispatcher *dispatch.Dispatcher, pollTimeout int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:         api,
		dispatcher:  dispatcher,
		pollTimeout: pollTimeout,
	}, nil
}

// Username returns the bot account's username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run long-polls for updates until ctx is cancelled. Messages are
// processed one at a time in arrival order, which keeps all ledger
// writes serialized.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	slog.InfoContext(ctx, "Telegram polling started", "username", b.Username())

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	var (
		reply string
		err   error
	)
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			reply = b.dispatcher.Start()
		case "rating":
			reply, err = b.dispatcher.Rating(ctx)
		case "weekly":
			reply, err = b.dispatcher.Weekly(ctx)
		default:
			return
		}
	} else {
		reply, err = b.dispatcher.Handle(ctx, senderName(msg), msg.Text)
	}

	if err != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			"error", err,
			"chat_id", msg.Chat.ID)
		return
	}
	if reply == "" {
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply",
			"error", err,
			"chat_id", msg.Chat.ID)
	}
}

// senderName is the platform-supplied identity used for the self-credit
// check; it must match canonical roster names for the check to bite.
func senderName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.FirstName
}
