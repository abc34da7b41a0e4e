// Package memory is an in-memory JournalWriter for tests and local runs.
package memory

import (
	"context"
	"sync"

	"kassa/internal/core"
	ports "kassa/internal/sheets"
)

type Mirror struct {
	mu      sync.Mutex
	entries []core.Transaction
}

var _ ports.JournalWriter = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) AppendEntry(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, t)
	return nil
}

func (m *Mirror) RemoveEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	// removal is idempotent
	return nil
}

// Entries returns a copy of the mirrored journal.
func (m *Mirror) Entries() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, len(m.entries))
	copy(out, m.entries)
	return out
}
