// Package store defines the ports the ledger engine and HTTP layer depend
// on for transaction persistence. Implementations live in the memory and
// sqlite subpackages.
package store

import (
	"context"
	"errors"

	"ledger/internal/core"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

type (
	// EntryWriter persists a new transaction and returns its id.
	// Implementations assign a fresh id when the transaction carries none.
	EntryWriter interface {
		Append(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	// EntryDeleter removes a transaction by id.
	EntryDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// EntryLister returns a transaction snapshot, optionally filtered to a
	// half-open date range. A nil range means everything. Results are sorted
	// by date then id so repeated reads of unchanged data yield identical
	// snapshots.
	EntryLister interface {
		ListEntries(ctx context.Context, rng *core.DateRange) ([]core.Transaction, error)
	}

	// EntryStore is the full persistence surface.
	EntryStore interface {
		EntryWriter
		EntryDeleter
		EntryLister
	}
)
