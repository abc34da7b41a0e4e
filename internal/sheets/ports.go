package sheets

import (
	"context"

	"kassa/internal/core"
)

// Ports for the journal mirror.
type (
	// JournalWriter mirrors ledger entries into an external sheet.
	JournalWriter interface {
		// AppendEntry adds one transaction as a journal row.
		AppendEntry(ctx context.Context, t core.Transaction) error

		// RemoveEntry clears the mirrored row for a deleted transaction.
		RemoveEntry(ctx context.Context, id string) error
	}
)
