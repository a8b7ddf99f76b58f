package ledger

import (
	"context"
	"fmt"
	"time"

	"smehachi/internal/core"
)

// Aggregator computes windowed totals over the ledger history.
type Aggregator struct {
	ledger       *Ledger
	participants []core.Participant
}

func NewAggregator(ledger *Ledger, participants []core.Participant) *Aggregator {
	return &Aggregator{
		ledger:       ledger,
		participants: participants,
	}
}

// WeeklyTotals sums history deltas recorded at or after the most recent
// Monday 00:00 UTC before asOf. Every configured participant appears in
// the result, at 0 when they have no records this week. Records before
// the boundary are excluded entirely.
func (a *Aggregator) WeeklyTotals(ctx context.Context, asOf time.Time) (map[core.Participant]int, error) {
	totals := make(map[core.Participant]int, len(a.participants))
	for _, p := range a.participants {
		totals[p] = 0
	}

	records, err := a.ledger.HistorySince(ctx, core.WeekStart(asOf))
	if err != nil {
		return nil, fmt.Errorf("load weekly history: %w", err)
	}

	for _, rec := range records {
		if _, ok := totals[rec.Participant]; !ok {
			// History of a participant removed from the roster is ignored.
			continue
		}
		totals[rec.Participant] += rec.Delta
	}

	return totals, nil
}
