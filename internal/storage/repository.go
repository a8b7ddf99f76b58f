// Package storage persists the scorekeeper ledger in SQLite: a balance
// table keyed by canonical participant name and an append-only history
// table of signed deltas.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"smehachi/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is RFC 3339 UTC with fixed-width nanoseconds so stored
// timestamps compare correctly as strings in SQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveScore records one applied delta: the history row and the updated
// balance are written in a single transaction so a crash can never keep
// one without the other.
func (r *SQLiteRepository) SaveScore(ctx context.Context, participant core.Participant, delta, balance int, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (participant, delta, recorded_at) VALUES (?, ?, ?)`,
		string(participant), delta, at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO balances (participant, balance) VALUES (?, ?)
		 ON CONFLICT(participant) DO UPDATE SET balance = excluded.balance`,
		string(participant), balance)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score: %w", err)
	}

	slog.InfoContext(ctx, "Score saved",
		"participant", participant,
		"delta", delta,
		"balance", balance)

	return nil
}

// LoadBalances returns the full balance table.
func (r *SQLiteRepository) LoadBalances(ctx context.Context) (map[core.Participant]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT participant, balance FROM balances`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[core.Participant]int)
	for rows.Next() {
		var name string
		var balance int
		if err := rows.Scan(&name, &balance); err != nil {
			return nil, fmt.Errorf("scan balance row: %w", err)
		}
		balances[core.Participant(name)] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance rows: %w", err)
	}

	return balances, nil
}

// HistorySince returns all history records with timestamp at or after
// since, across all participants, in insertion order.
func (r *SQLiteRepository) HistorySince(ctx context.Context, since time.Time) ([]core.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant, delta, recorded_at FROM history WHERE recorded_at >= ? ORDER BY id`,
		since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

// AllHistory returns the complete history in insertion order.
func (r *SQLiteRepository) AllHistory(ctx context.Context) ([]core.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant, delta, recorded_at FROM history ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

func scanHistory(rows *sql.Rows) ([]core.HistoryRecord, error) {
	var records []core.HistoryRecord
	for rows.Next() {
		var name, recordedAt string
		var delta int
		if err := rows.Scan(&name, &delta, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		at, err := time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		records = append(records, core.HistoryRecord{
			Participant: core.Participant(name),
			Delta:       delta,
			At:          at,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}
