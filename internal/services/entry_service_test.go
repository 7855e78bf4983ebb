package services

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
	"ledger/internal/store"
	"ledger/internal/store/memory"
)

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) PublishEntryEvent(_ context.Context, action, id string) error {
	p.events = append(p.events, action+":"+id)
	return p.err
}

func TestEntryService_Create(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewEntryService(memory.New(), pub)

	tx, err := svc.Create(context.Background(), CreateEntryInput{
		Date:     "2024-01-02",
		Amount:   "12,34",
		Category: "Food & Dining",
		Type:     "debit",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tx.ID == "" {
		t.Error("Create should assign an id")
	}
	if tx.Amount.String() != "12.34" {
		t.Errorf("Amount = %s, want 12.34 (comma decimal parsed)", tx.Amount)
	}
	if len(pub.events) != 1 || pub.events[0] != "created:"+tx.ID {
		t.Errorf("events = %v, want one created event", pub.events)
	}
}

func TestEntryService_CreateValidation(t *testing.T) {
	svc := NewEntryService(memory.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      CreateEntryInput
		wantErr error
	}{
		{"bad date", CreateEntryInput{Date: "02/01/2024", Amount: "10", Category: "Transport", Type: "debit"}, core.ErrInvalidDate},
		{"bad amount", CreateEntryInput{Date: "2024-01-02", Amount: "-5", Category: "Transport", Type: "debit"}, core.ErrInvalidAmount},
		{"bad type", CreateEntryInput{Date: "2024-01-02", Amount: "10", Category: "Transport", Type: "transfer"}, core.ErrInvalidType},
		{"credit category on debit", CreateEntryInput{Date: "2024-01-02", Amount: "10", Category: "Salary", Type: "debit"}, core.ErrCategoryTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if items, _ := svc.List(ctx, nil); len(items) != 0 {
		t.Errorf("invalid entries must not be stored, got %d", len(items))
	}
}

func TestEntryService_PublishFailureDoesNotFailCreate(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewEntryService(memory.New(), pub)

	tx, err := svc.Create(context.Background(), CreateEntryInput{
		Date: "2024-01-02", Amount: "10", Category: "Transport", Type: "debit",
	})
	if err != nil {
		t.Fatalf("Create should succeed despite publish failure: %v", err)
	}

	items, _ := svc.List(context.Background(), nil)
	if len(items) != 1 || items[0].ID != tx.ID {
		t.Errorf("entry should be stored, got %+v", items)
	}
}

func TestEntryService_Delete(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewEntryService(memory.New(), pub)
	ctx := context.Background()

	tx, err := svc.Create(ctx, CreateEntryInput{
		Date: "2024-01-02", Amount: "10", Category: "Transport", Type: "debit",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, tx.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}

	want := []string{"created:" + tx.ID, "deleted:" + tx.ID}
	if len(pub.events) != 2 || pub.events[0] != want[0] || pub.events[1] != want[1] {
		t.Errorf("events = %v, want %v", pub.events, want)
	}
}
