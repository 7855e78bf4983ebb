// Package sqlite is the durable EntryStore backend over a local SQLite
// database. Schema changes ship as embedded migrations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"ledger/internal/core"
	"ledger/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
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

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements store.EntryWriter.
func (r *Repository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, date, amount, category, type) VALUES (?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.ISO(), tx.Amount.String(), tx.Category, string(tx.Type))
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", tx.ID,
		"date", tx.Date.ISO(),
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"type", tx.Type)

	return tx.ID, nil
}

// Delete implements store.EntryDeleter.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

// ListEntries implements store.EntryLister. ISO date strings sort lexically
// in chronological order, so the range filter and ordering run on the text
// column directly.
func (r *Repository) ListEntries(ctx context.Context, rng *core.DateRange) ([]core.Transaction, error) {
	query := `SELECT id, date, amount, category, type FROM entries`
	var args []any
	if rng != nil {
		query += ` WHERE date >= ? AND date < ?`
		args = append(args, rng.From.ISO(), rng.To.ISO())
	}
	query += ` ORDER BY date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			id, dateStr, amountStr, category, typeStr string
		)
		if err := rows.Scan(&id, &dateStr, &amountStr, &category, &typeStr); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", id, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("entry %s: parse amount %q: %w", id, amountStr, err)
		}

		out = append(out, core.Transaction{
			ID:       id,
			Date:     date,
			Amount:   amount,
			Category: category,
			Type:     core.Type(typeStr),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return out, nil
}
