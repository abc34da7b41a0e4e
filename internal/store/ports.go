// Package store defines the persistence gateway the ledger is built
// against: ordered live snapshots over two independent collections plus
// create/delete mutations. Implementations push a fresh full snapshot to
// every live subscriber after each successful mutation.
package store

import (
	"context"
	"errors"

	"kassa/internal/core"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// Unsubscribe releases a subscription. Safe to call more than once.
type Unsubscribe func()

// Store is the full persistence gateway contract.
//
// Snapshot ordering is guaranteed per stream: transactions by date
// descending, members by name ascending. The two streams are independent;
// a member snapshot may arrive with no accompanying transaction snapshot.
// New subscribers receive the current snapshot immediately.
type Store interface {
	// SubscribeTransactions registers fn for transaction snapshots,
	// delivered sorted by date descending.
	SubscribeTransactions(fn func([]core.Transaction)) Unsubscribe

	// SubscribeMembers registers fn for member snapshots, delivered
	// sorted by name ascending.
	SubscribeMembers(fn func([]core.Member)) Unsubscribe

	// ListTransactions returns the current transaction snapshot.
	ListTransactions(ctx context.Context) ([]core.Transaction, error)

	// ListMembers returns the current member snapshot.
	ListMembers(ctx context.Context) ([]core.Member, error)

	// GetTransaction returns a single transaction by id.
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)

	// CreateTransaction stores t, assigning ID and CreatedAt. Returns the
	// assigned id.
	CreateTransaction(ctx context.Context, t core.Transaction) (string, error)

	// CreateMember stores a new member with the given name. Returns the
	// assigned id.
	CreateMember(ctx context.Context, name string) (string, error)

	// DeleteTransaction removes a transaction by id.
	DeleteTransaction(ctx context.Context, id string) error

	// DeleteMember removes a member by id. Transactions referencing the
	// member are left in place with a dangling reference.
	DeleteMember(ctx context.Context, id string) error

	Close() error
}
