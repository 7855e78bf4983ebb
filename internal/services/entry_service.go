// Package services orchestrates ledger operations across the store and the
// event bus. Handlers talk to services, never to the store directly.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/store"
)

// EventPublisher publishes entry mutation events. Satisfied by *amqp.Client;
// a nil publisher disables eventing.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, action, id string) error
}

// EntryService validates incoming entries, persists them and announces
// mutations on the bus.
type EntryService struct {
	store     store.EntryStore
	publisher EventPublisher
}

func NewEntryService(st store.EntryStore, publisher EventPublisher) *EntryService {
	return &EntryService{
		store:     st,
		publisher: publisher,
	}
}

// CreateEntryInput carries the raw form values of a new entry.
type CreateEntryInput struct {
	Date     string
	Amount   string
	Category string
	Type     string
}

// Create parses and validates the input, persists the entry and publishes a
// created event. The event is best effort: a publish failure never fails the
// request, the entry is already durable.
func (s *EntryService) Create(ctx context.Context, in CreateEntryInput) (core.Transaction, error) {
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Date:     date,
		Amount:   amount,
		Category: in.Category,
		Type:     core.Type(in.Type),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save entry: %w", err)
	}
	tx.ID = id

	s.publish(ctx, amqp.ActionCreated, id)

	slog.InfoContext(ctx, "Entry created",
		"id", id,
		"date", tx.Date.ISO(),
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"type", tx.Type)

	return tx, nil
}

// Delete removes an entry and publishes a deleted event.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.ActionDeleted, id)

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

// List returns entries, optionally restricted to a date range.
func (s *EntryService) List(ctx context.Context, rng *core.DateRange) ([]core.Transaction, error) {
	return s.store.ListEntries(ctx, rng)
}

func (s *EntryService) publish(ctx context.Context, action, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntryEvent(ctx, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"action", action, "id", id, "error", err)
	}
}
