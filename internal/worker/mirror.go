// Package worker applies ledger change messages to the journal mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kassa/internal/events"
	"kassa/internal/sheets"
	"kassa/internal/store"
)

// MirrorWorker consumes change messages and keeps the external journal
// mirror in step with the store. Member changes carry no journal rows and
// are acknowledged without action.
type MirrorWorker struct {
	store  store.Store
	mirror sheets.JournalWriter
}

func NewMirrorWorker(st store.Store, mirror sheets.JournalWriter) *MirrorWorker {
	return &MirrorWorker{
		store:  st,
		mirror: mirror,
	}
}

// HandleChange processes a single change message.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *events.ChangeMessage) error {
	if msg.Entity != events.EntityTransaction {
		slog.DebugContext(ctx, "Ignoring non-journal change",
			"entity", msg.Entity, "op", msg.Op, "id", msg.ID)
		return nil
	}

	switch msg.Op {
	case events.OpCreated:
		t, err := w.store.GetTransaction(ctx, msg.ID)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted before we got here; the delete message will follow.
			slog.WarnContext(ctx, "Transaction gone before mirroring", "id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		if err := w.mirror.AppendEntry(ctx, t); err != nil {
			return fmt.Errorf("mirror entry: %w", err)
		}
		return nil

	case events.OpDeleted:
		if err := w.mirror.RemoveEntry(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove mirrored entry: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown op %q", msg.Op)
	}
}
