// Package ledger owns the running balances and the append-only score
// history. All mutation goes through Apply; other packages never touch
// the persisted stores directly.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smehachi/internal/core"
)

// Store is the durable backing for balances and history. Implemented by
// storage.SQLiteRepository; tests substitute an in-memory fake.
type Store interface {
	SaveScore(ctx context.Context, participant core.Participant, delta, balance int, at time.Time) error
	LoadBalances(ctx context.Context) (map[core.Participant]int, error)
	HistorySince(ctx context.Context, since time.Time) ([]core.HistoryRecord, error)
}

// Ledger serializes every write through one mutex: inbound messages are
// applied one at a time and reads observe a consistent snapshot.
type Ledger struct {
	mu       sync.Mutex
	store    Store
	balances map[core.Participant]int
	clock    func() time.Time
}

// New loads the balance table from the store and returns a ready ledger.
func New(ctx context.Context, store Store) (*Ledger, error) {
	return NewWithClock(ctx, store, time.Now)
}

// NewWithClock is New with an injectable time source for tests.
func NewWithClock(ctx context.Context, store Store, clock func() time.Time) (*Ledger, error) {
	balances, err := store.LoadBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}
	if balances == nil {
		balances = make(map[core.Participant]int)
	}
	return &Ledger{
		store:    store,
		balances: balances,
		clock:    clock,
	}, nil
}

// Apply adds delta to the participant's balance (creating the entry at 0
// if absent), appends a history record stamped with the current UTC time
// and returns the resulting balance. The write is persisted before the
// in-memory state changes: on persistence failure the error is returned
// and the ledger is left exactly as it was. Negative resulting balances
// are valid.
func (l *Ledger) Apply(ctx context.Context, participant core.Participant, delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[participant] + delta
	at := l.clock().UTC()

	if err := l.store.SaveScore(ctx, participant, delta, balance, at); err != nil {
		return 0, fmt.Errorf("persist score for %s: %w", participant, err)
	}

	l.balances[participant] = balance
	return balance, nil
}

// CurrentBalance returns the participant's balance, 0 if they have no
// entry yet.
func (l *Ledger) CurrentBalance(participant core.Participant) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[participant]
}

// AllBalances returns a snapshot of the balance table.
func (l *Ledger) AllBalances() map[core.Participant]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[core.Participant]int, len(l.balances))
	for p, b := range l.balances {
		out[p] = b
	}
	return out
}

// HistorySince returns history records with timestamp at or after since,
// across all participants, in insertion order.
func (l *Ledger) HistorySince(ctx context.Context, since time.Time) ([]core.HistoryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.HistorySince(ctx, since)
}
