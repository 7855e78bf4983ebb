package worker

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/amqp"
	"ledger/internal/analytics"
	"ledger/internal/core"
	"ledger/internal/store/memory"
)

func TestDigestWorker_HandleEntryEvent(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	d, _ := core.ParseDate("2024-01-02")
	amt, _ := core.ParseAmount("40")
	if _, err := st.Append(ctx, core.Transaction{
		Date: d, Amount: amt, Category: "Transport", Type: core.Debit,
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	w := NewDigestWorker(st, analytics.TimeframeMonth)

	evt := amqp.NewEntryEvent(amqp.ActionCreated, "some-id")
	if err := w.HandleEntryEvent(ctx, evt); err != nil {
		t.Errorf("HandleEntryEvent: %v", err)
	}
}

type failingLister struct{}

func (failingLister) ListEntries(context.Context, *core.DateRange) ([]core.Transaction, error) {
	return nil, errors.New("store down")
}

func TestDigestWorker_DigestPropagatesStoreErrors(t *testing.T) {
	w := NewDigestWorker(failingLister{}, analytics.TimeframeWeek)

	if err := w.Digest(context.Background()); err == nil {
		t.Error("Digest should fail when the store fails")
	}
}

func TestDigestWorker_EmptyLedger(t *testing.T) {
	w := NewDigestWorker(memory.New(), analytics.TimeframeYear)

	if err := w.Digest(context.Background()); err != nil {
		t.Errorf("Digest on empty ledger: %v", err)
	}
}
