// Package sqlite provides the SQLite store backend over modernc.org/sqlite,
// with schema managed by embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"kassa/internal/core"
	"kassa/internal/store"
)

type Repository struct {
	db *sql.DB

	txHub     *store.Hub[core.Transaction]
	memberHub *store.Hub[core.Member]
}

var _ store.Store = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{
		db:        db,
		txHub:     store.NewHub[core.Transaction](),
		memberHub: store.NewHub[core.Member](),
	}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) SubscribeTransactions(fn func([]core.Transaction)) store.Unsubscribe {
	return r.txHub.Subscribe(fn, r.latestTransactions)
}

func (r *Repository) SubscribeMembers(fn func([]core.Member)) store.Unsubscribe {
	return r.memberHub.Subscribe(fn, r.latestMembers)
}

func (r *Repository) latestTransactions() ([]core.Transaction, error) {
	return r.ListTransactions(context.Background())
}

func (r *Repository) latestMembers() ([]core.Member, error) {
	return r.ListMembers(context.Background())
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, category, amount, description, date, member_id, created_at, created_by
		FROM transactions
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		var ty string
		if err := rows.Scan(&t.ID, &ty, &t.Category, &t.Amount, &t.Description,
			&t.Date, &t.MemberID, &t.CreatedAt, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(ty)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) ListMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM members
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	out := make([]core.Member, 0)
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var t core.Transaction
	var ty string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, type, category, amount, description, date, member_id, created_at, created_by
		FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &ty, &t.Category, &t.Amount, &t.Description,
			&t.Date, &t.MemberID, &t.CreatedAt, &t.CreatedBy)
	if err == sql.ErrNoRows {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.Type = core.TransactionType(ty)
	return t, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category, amount, description, date, member_id, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Category, t.Amount, t.Description,
		t.Date, t.MemberID, t.CreatedAt, t.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	r.notifyTransactions(ctx)
	return t.ID, nil
}

func (r *Repository) CreateMember(ctx context.Context, name string) (string, error) {
	m := core.Member{Name: strings.TrimSpace(name)}
	if err := m.Validate(); err != nil {
		return "", err
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (id, name, created_at) VALUES (?, ?, ?)`,
		m.ID, m.Name, m.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert member: %w", err)
	}

	r.notifyMembers(ctx)
	return m.ID, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.notifyTransactions(ctx)
	return nil
}

func (r *Repository) DeleteMember(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.notifyMembers(ctx)
	return nil
}

func (r *Repository) notifyTransactions(ctx context.Context) {
	if err := r.txHub.Publish(r.latestTransactions); err != nil {
		slog.WarnContext(ctx, "Snapshot after mutation failed", "collection", "transactions", "error", err)
	}
}

func (r *Repository) notifyMembers(ctx context.Context) {
	if err := r.memberHub.Publish(r.latestMembers); err != nil {
		slog.WarnContext(ctx, "Snapshot after mutation failed", "collection", "members", "error", err)
	}
}
