// Package memory provides the in-memory store backend, used as the default
// backend and by tests. Ordering and snapshot semantics match the sqlite
// backend: transactions by date descending, members by name ascending, a
// full snapshot pushed after every mutation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kassa/internal/core"
	"kassa/internal/store"
)

type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	members []core.Member

	txHub     *store.Hub[core.Transaction]
	memberHub *store.Hub[core.Member]

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		txHub:     store.NewHub[core.Transaction](),
		memberHub: store.NewHub[core.Member](),
		now:       time.Now,
	}
}

func (s *Store) SubscribeTransactions(fn func([]core.Transaction)) store.Unsubscribe {
	return s.txHub.Subscribe(fn, s.latestTransactions)
}

func (s *Store) SubscribeMembers(fn func([]core.Member)) store.Unsubscribe {
	return s.memberHub.Subscribe(fn, s.latestMembers)
}

func (s *Store) latestTransactions() ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionSnapshot(), nil
}

func (s *Store) latestMembers() ([]core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberSnapshot(), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionSnapshot(), nil
}

func (s *Store) ListMembers(_ context.Context) ([]core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberSnapshot(), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	t.ID = uuid.NewString()
	t.CreatedAt = s.now().UTC()
	s.txs = append(s.txs, t)
	s.mu.Unlock()

	s.txHub.Publish(s.latestTransactions)
	return t.ID, nil
}

func (s *Store) CreateMember(_ context.Context, name string) (string, error) {
	m := core.Member{Name: strings.TrimSpace(name)}
	if err := m.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	m.ID = uuid.NewString()
	m.CreatedAt = s.now().UTC()
	s.members = append(s.members, m)
	s.mu.Unlock()

	s.memberHub.Publish(s.latestMembers)
	return m.ID, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, t := range s.txs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
	s.mu.Unlock()

	s.txHub.Publish(s.latestTransactions)
	return nil
}

func (s *Store) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, m := range s.members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	s.members = append(s.members[:idx], s.members[idx+1:]...)
	s.mu.Unlock()

	s.memberHub.Publish(s.latestMembers)
	return nil
}

func (s *Store) Close() error { return nil }

// callers must hold s.mu
func (s *Store) transactionSnapshot() []core.Transaction {
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// callers must hold s.mu
func (s *Store) memberSnapshot() []core.Member {
	out := make([]core.Member, len(s.members))
	copy(out, s.members)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
