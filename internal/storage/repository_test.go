package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T, dir string) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(dir, "smehachi.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveScoreAndLoadBalances(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, t.TempDir())

	now := time.Now().UTC()
	if err := repo.SaveScore(ctx, "Лиза", 3, 3, now); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := repo.SaveScore(ctx, "Лиза", -1, 2, now.Add(time.Second)); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := repo.SaveScore(ctx, "Миша", -5, -5, now.Add(2*time.Second)); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	balances, err := repo.LoadBalances(ctx)
	if err != nil {
		t.Fatalf("LoadBalances: %v", err)
	}
	if balances["Лиза"] != 2 {
		t.Fatalf("Лиза balance = %d, want 2", balances["Лиза"])
	}
	if balances["Миша"] != -5 {
		t.Fatalf("Миша balance = %d, want -5 (negative balances are valid)", balances["Миша"])
	}
}

func TestHistoryOrderAndWindow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, t.TempDir())

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	deltas := []int{3, -1, 5}
	for i, d := range deltas {
		if err := repo.SaveScore(ctx, "Руслан", d, 0, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}

	all, err := repo.AllHistory(ctx)
	if err != nil {
		t.Fatalf("AllHistory: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	for i, rec := range all {
		if rec.Delta != deltas[i] {
			t.Fatalf("record %d delta = %d, want %d (insertion order must be preserved)", i, rec.Delta, deltas[i])
		}
	}

	// Bound is inclusive: records exactly at the bound are returned.
	since, err := repo.HistorySince(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("HistorySince: %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("got %d records since bound, want 2", len(since))
	}
	if since[0].Delta != -1 || since[1].Delta != 5 {
		t.Fatalf("unexpected windowed records: %+v", since)
	}
}

func TestHistorySinceComparesSubsecondTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, t.TempDir())

	base := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if err := repo.SaveScore(ctx, "Лиза", 1, 1, base.Add(500*time.Millisecond)); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := repo.SaveScore(ctx, "Лиза", 2, 3, base.Add(2*time.Second)); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	recs, err := repo.HistorySince(ctx, base.Add(time.Second))
	if err != nil {
		t.Fatalf("HistorySince: %v", err)
	}
	if len(recs) != 1 || recs[0].Delta != 2 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "smehachi.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}

	at := time.Date(2026, 8, 25, 10, 30, 0, 123456789, time.UTC)
	if err := repo.SaveScore(ctx, "Настя", 7, 7, at); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := repo.SaveScore(ctx, "Настя", -2, 5, at.Add(time.Minute)); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	balances, err := reopened.LoadBalances(ctx)
	if err != nil {
		t.Fatalf("LoadBalances: %v", err)
	}
	if balances["Настя"] != 5 {
		t.Fatalf("balance after reopen = %d, want 5", balances["Настя"])
	}

	history, err := reopened.AllHistory(ctx)
	if err != nil {
		t.Fatalf("AllHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history records, want 2", len(history))
	}
	if history[0].Delta != 7 || history[1].Delta != -2 {
		t.Fatalf("history order not preserved: %+v", history)
	}
	if !history[0].At.Equal(at) {
		t.Fatalf("timestamp not preserved: got %v, want %v", history[0].At, at)
	}
}

func TestLoadBalancesEmpty(t *testing.T) {
	repo := newTestRepo(t, t.TempDir())

	balances, err := repo.LoadBalances(context.Background())
	if err != nil {
		t.Fatalf("LoadBalances: %v", err)
	}
	if len(balances) != 0 {
		t.Fatalf("fresh database should have no balances, got %v", balances)
	}
}
