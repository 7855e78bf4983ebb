package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/store"
)

func entry(date, amount, category string, typ core.Type) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		Date:     d,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Type:     typ,
	}
}

func TestStore_AppendAssignsID(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Append(ctx, entry("2024-01-02", "40", "Food & Dining", core.Debit))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == "" {
		t.Fatal("Append returned empty id")
	}

	items, err := s.ListEntries(ctx, nil)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(items) != 1 || items[0].ID != id {
		t.Errorf("ListEntries = %+v, want one entry with id %s", items, id)
	}
}

func TestStore_AppendRejectsInvalid(t *testing.T) {
	s := New()

	bad := entry("2024-01-02", "40", "Food & Dining", core.Debit)
	bad.Amount = decimal.Zero
	if _, err := s.Append(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("Append error = %v, want ErrInvalidAmount", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Append(ctx, entry("2024-01-02", "40", "Food & Dining", core.Debit))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}

	items, err := s.ListEntries(ctx, nil)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ListEntries after delete = %d entries, want 0", len(items))
	}
}

func TestStore_ListEntriesRangeAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, e := range []core.Transaction{
		entry("2024-01-10", "3", "Transport", core.Debit),
		entry("2024-01-02", "1", "Food & Dining", core.Debit),
		entry("2024-02-01", "5", "Health", core.Debit),
		entry("2024-01-05", "2", "Salary", core.Credit),
	} {
		if _, err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	from, _ := core.ParseDate("2024-01-01")
	to, _ := core.ParseDate("2024-02-01")
	items, err := s.ListEntries(ctx, &core.DateRange{From: from, To: to})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("range query returned %d entries, want 3 (end exclusive)", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Date.Before(items[i-1].Date.Time) {
			t.Errorf("entries not sorted by date: %s before %s",
				items[i].Date.ISO(), items[i-1].Date.ISO())
		}
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.json")
	seed := `[
		{"date": "2024-01-01", "amount": 100, "category": "Salary", "type": "credit"},
		{"id": "fixed-id", "date": "2024-01-02", "amount": "40.50", "category": "Food & Dining", "type": "debit"}
	]`
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}

	items, err := s.ListEntries(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(items))
	}
	if items[0].ID == "" {
		t.Error("seed entry without id should get one assigned")
	}
	if items[1].ID != "fixed-id" {
		t.Errorf("seed id = %q, want fixed-id", items[1].ID)
	}

	// Missing file starts empty rather than failing.
	s2, err := NewFromFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("NewFromFile missing: %v", err)
	}
	if items, _ := s2.ListEntries(context.Background(), nil); len(items) != 0 {
		t.Errorf("missing seed file should yield empty store, got %d entries", len(items))
	}
}
