// Package worker contains the digest worker: it listens for entry mutation
// events and periodically recomputes the timeframe summary, logging the
// headline numbers. It is the consumer side of the AMQP exchange the API
// publishes to.
package worker

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/analytics"
	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/store"
)

// DigestWorker recomputes and logs the ledger summary on mutation events and
// on a fixed interval.
type DigestWorker struct {
	lister    store.EntryLister
	timeframe analytics.Timeframe
	logger    *applog.Logger
	now       func() time.Time
}

func NewDigestWorker(lister store.EntryLister, timeframe analytics.Timeframe) *DigestWorker {
	return &DigestWorker{
		lister:    lister,
		timeframe: timeframe,
		logger:    applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker),
		now:       time.Now,
	}
}

// HandleEntryEvent processes a single entry mutation event.
func (w *DigestWorker) HandleEntryEvent(ctx context.Context, evt *amqp.EntryEvent) error {
	w.logger.InfoContext(ctx, "Processing entry event",
		applog.FieldOperation, applog.OpDigest,
		"action", evt.Action,
		applog.FieldEntryID, evt.ID)

	if err := w.Digest(ctx); err != nil {
		return fmt.Errorf("digest after %s event: %w", evt.Action, err)
	}
	return nil
}

// Digest fetches the current snapshot, rebuilds the summary for the
// configured timeframe and logs the headline numbers.
func (w *DigestWorker) Digest(ctx context.Context) error {
	ref := w.now()
	current, previous := analytics.ResolvePeriods(w.timeframe, ref)

	// Entries outside both windows never influence the summary.
	txs, err := w.lister.ListEntries(ctx, rangeFor(previous, current))
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	summary, err := analytics.BuildSummary(txs, w.timeframe, ref)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}

	w.logger.InfoContext(ctx, "Ledger digest",
		applog.FieldTimeframe, w.timeframe,
		"entries", len(txs),
		"total_credits", summary.TotalCredits.String(),
		"total_debits", summary.TotalDebits.String(),
		"net_balance", summary.NetBalance.String(),
		"daily_average", summary.DailyAverage.String(),
		"percent_change_balance", summary.PercentChangeBalance.String())

	return nil
}

// rangeFor spans the comparison window through the current one.
func rangeFor(previous, current analytics.Period) *core.DateRange {
	return &core.DateRange{
		From: core.DateOf(previous.Start),
		To:   core.DateOf(current.End),
	}
}

// Run consumes entry events and recomputes the digest on a ticker until the
// context is cancelled. consume is typically amqp.Client.ConsumeEntryEvents;
// a nil consume degrades to ticker-only operation.
func (w *DigestWorker) Run(ctx context.Context, interval time.Duration, consume func(context.Context, func(*amqp.EntryEvent) error) error) error {
	if consume != nil {
		go func() {
			err := consume(ctx, func(evt *amqp.EntryEvent) error {
				return w.HandleEntryEvent(ctx, evt)
			})
			if err != nil && ctx.Err() == nil {
				w.logger.ErrorContext(ctx, "Event consumption stopped", applog.FieldError, err)
			}
		}()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial digest so an idle ledger still logs one on startup.
	if err := w.Digest(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Initial digest failed", applog.FieldError, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Digest worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.Digest(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic digest failed", applog.FieldError, err)
			}
		}
	}
}
