package services

import (
	"context"
	"errors"
	"testing"

	"kassa/internal/core"
	"kassa/internal/events"
	"kassa/internal/store/memory"
)

type fakePublisher struct {
	published []*events.ChangeMessage
	err       error
	closed    bool
}

func (f *fakePublisher) PublishChange(_ context.Context, msg *events.ChangeMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func entry() core.Transaction {
	return core.Transaction{
		Type:        core.Income,
		Category:    "Tithe",
		Amount:      100,
		Description: "gift",
		Date:        "2025-06-01",
	}
}

func TestCreateTransactionPublishesChange(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	id, err := svc.CreateTransaction(context.Background(), entry())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.published))
	}
	msg := pub.published[0]
	if msg.Entity != events.EntityTransaction || msg.Op != events.OpCreated || msg.ID != id {
		t.Fatalf("event: %+v", msg)
	}
}

func TestDeleteMemberPublishesChange(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)
	ctx := context.Background()

	id, err := svc.CreateMember(ctx, "Anna")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if err := svc.DeleteMember(ctx, id); err != nil {
		t.Fatalf("delete member: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.published))
	}
	if pub.published[1].Op != events.OpDeleted || pub.published[1].Entity != events.EntityMember {
		t.Fatalf("event: %+v", pub.published[1])
	}
}

// A failed publish must not fail the mutation.
func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(memory.New(), pub)

	if _, err := svc.CreateTransaction(context.Background(), entry()); err != nil {
		t.Fatalf("mutation failed on publish error: %v", err)
	}
}

// A failed mutation must not publish anything.
func TestFailedMutationPublishesNothing(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	bad := entry()
	bad.Date = "garbage"
	if _, err := svc.CreateTransaction(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if err := svc.DeleteTransaction(context.Background(), "missing"); err == nil {
		t.Fatalf("expected not found error")
	}
	if len(pub.published) != 0 {
		t.Fatalf("events published for failed mutations: %+v", pub.published)
	}
}

func TestNilPublisher(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)
	if _, err := svc.CreateTransaction(context.Background(), entry()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatalf("publisher not closed")
	}
}
