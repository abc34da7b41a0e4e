// Package services orchestrates ledger mutations: the store commit comes
// first, then a best-effort change event. A failed publish never fails the
// user's operation; the store snapshot is the source of truth.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"kassa/internal/core"
	"kassa/internal/events"
	"kassa/internal/store"
)

// Publisher is the slice of the events client the service needs.
type Publisher interface {
	PublishChange(ctx context.Context, msg *events.ChangeMessage) error
	Close() error
}

type LedgerService struct {
	store     store.Store
	publisher Publisher
}

// NewLedgerService wires the store with an optional publisher; a nil
// publisher disables change events.
func NewLedgerService(st store.Store, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     st,
		publisher: publisher,
	}
}

// CreateTransaction validates and stores t, then announces the change.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, events.NewChangeMessage(events.EntityTransaction, events.OpCreated, id))
	return id, nil
}

// DeleteTransaction removes a transaction, then announces the change.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, events.NewChangeMessage(events.EntityTransaction, events.OpDeleted, id))
	return nil
}

// CreateMember stores a new member, then announces the change.
func (s *LedgerService) CreateMember(ctx context.Context, name string) (string, error) {
	id, err := s.store.CreateMember(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create member: %w", err)
	}

	s.publish(ctx, events.NewChangeMessage(events.EntityMember, events.OpCreated, id))
	return id, nil
}

// DeleteMember removes a member, then announces the change. Transactions
// referencing the member stay behind with a dangling reference.
func (s *LedgerService) DeleteMember(ctx context.Context, id string) error {
	if err := s.store.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}

	s.publish(ctx, events.NewChangeMessage(events.EntityMember, events.OpDeleted, id))
	return nil
}

func (s *LedgerService) publish(ctx context.Context, msg *events.ChangeMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		// Mutation already committed; the mirror catches up from a later event.
		slog.ErrorContext(ctx, "Failed to publish change message",
			"entity", msg.Entity, "op", msg.Op, "id", msg.ID, "error", err)
	}
}

func (s *LedgerService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
