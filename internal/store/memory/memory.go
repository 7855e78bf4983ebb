// Package memory is an in-memory EntryStore, seedable from a JSON file.
// It is the default backend for local development and the fixture store in
// tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Store {
	return &Store{}
}

// NewFromFile loads a JSON array of transactions. A missing file is not an
// error: the store just starts empty.
func NewFromFile(path string) (*Store, error) {
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var items []core.Transaction
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, tx := range items {
		if tx.ID == "" {
			items[i].ID = uuid.NewString()
		}
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
	}
	s.items = items
	return s, nil
}

// Append stores the transaction, assigning an id when absent.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", store.ErrNotFound, id)
}

// ListEntries returns a copy of the snapshot, sorted by date then id.
func (s *Store) ListEntries(_ context.Context, rng *core.DateRange) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if rng != nil {
			if tx.Date.Before(rng.From.Time) || !tx.Date.Before(rng.To.Time) {
				continue
			}
		}
		out = append(out, tx)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
