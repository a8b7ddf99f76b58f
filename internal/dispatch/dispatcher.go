// Package dispatch orchestrates message handling: parse the intent,
// resolve the target, enforce policy and apply the score, producing the
// reply text the transport sends back to the chat.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"smehachi/internal/core"
	"smehachi/internal/ledger"
	"smehachi/internal/parser"
	"smehachi/internal/roster"
)

// EventPublisher announces applied scores to an external feed.
// Implemented by events.Client; nil disables the feed.
type EventPublisher interface {
	PublishScore(ctx context.Context, participant core.Participant, delta, balance int, at time.Time) error
}

type Dispatcher struct {
	parser     *parser.Parser
	roster     *roster.Roster
	ledger     *ledger.Ledger
	aggregator *ledger.Aggregator
	publisher  EventPublisher
}

func New(p *parser.Parser, r *roster.Roster, l *ledger.Ledger, a *ledger.Aggregator, publisher EventPublisher) *Dispatcher {
	return &Dispatcher{
		parser:     p,
		roster:     r,
		ledger:     l,
		aggregator: a,
		publisher:  publisher,
	}
}

// Handle processes one chat message from sender. The returned string is
// empty when the message requires no reply: ordinary chat, unresolved
// targets and self-credit attempts are all silently ignored. Only a
// persistence failure is returned as an error.
func (d *Dispatcher) Handle(ctx context.Context, sender, text string) (string, error) {
	intent, ok := d.parser.Parse(text)
	if !ok {
		return "", nil
	}

	target, ok := d.roster.Resolve(intent.RawTarget)
	if !ok {
		slog.DebugContext(ctx, "Command target not resolved",
			"target", intent.RawTarget,
			"kind", intent.Kind)
		return "", nil
	}

	// Crediting yourself is forbidden; debiting yourself is allowed.
	if intent.Kind == core.Credit && string(target) == sender {
		slog.DebugContext(ctx, "Self-credit ignored", "sender", sender)
		return "", nil
	}

	// The resolver only returns roster members; this guards against a
	// roster/resolver mismatch all the same.
	if !d.roster.Contains(target) {
		return "", nil
	}

	balance, err := d.ledger.Apply(ctx, target, intent.Delta())
	if err != nil {
		return "", fmt.Errorf("apply %s of %d to %s: %w", intent.Kind, intent.Amount, target, err)
	}

	d.publish(ctx, target, intent.Delta(), balance)

	if intent.Kind == core.Credit {
		return fmt.Sprintf("%s получил %d смехачей! 🎉", target, intent.Amount), nil
	}
	return fmt.Sprintf("%s лишился %d смехачей! 😬", target, intent.Amount), nil
}

// publish is best-effort: the score is already persisted, so a feed
// failure is logged and the reply still goes out.
func (d *Dispatcher) publish(ctx context.Context, participant core.Participant, delta, balance int) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishScore(ctx, participant, delta, balance, time.Now().UTC()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish score event",
			"participant", participant,
			"delta", delta,
			"error", err)
	}
}

// Start returns the greeting sent for /start.
func (d *Dispatcher) Start() string {
	return "Привет! Я считаю смехачи. Пиши 'даю 3 смехача Лизе', 'минус 2 Руслану' или 'плюс 5 Насте'."
}

// Rating returns the all-time standings for /rating: every participant
// with a ledger entry, filtered to the roster, sorted by balance
// descending with ties broken by name.
func (d *Dispatcher) Rating(ctx context.Context) (string, error) {
	balances := d.ledger.AllBalances()

	type row struct {
		name    core.Participant
		balance int
	}
	rows := make([]row, 0, len(balances))
	for p, b := range balances {
		if !d.roster.Contains(p) {
			continue
		}
		rows = append(rows, row{name: p, balance: b})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].balance != rows[j].balance {
			return rows[i].balance > rows[j].balance
		}
		return rows[i].name < rows[j].name
	})

	var b strings.Builder
	b.WriteString("📊 Общий рейтинг смехачей:\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %d смехачей\n", r.name, r.balance)
	}
	return b.String(), nil
}

// Weekly returns the standings for the current week (since Monday 00:00
// UTC) for /weekly. Every roster participant appears, zeros included.
func (d *Dispatcher) Weekly(ctx context.Context) (string, error) {
	totals, err := d.aggregator.WeeklyTotals(ctx, time.Now())
	if err != nil {
		return "", fmt.Errorf("weekly totals: %w", err)
	}

	type row struct {
		name  core.Participant
		total int
	}
	rows := make([]row, 0, len(totals))
	for p, t := range totals {
		rows = append(rows, row{name: p, total: t})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].name < rows[j].name
	})

	var b strings.Builder
	b.WriteString("📆 Рейтинг за эту неделю:\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %d смехачей\n", r.name, r.total)
	}
	return b.String(), nil
}
