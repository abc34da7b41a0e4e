// Package backend selects and constructs the configured store backend.
package backend

import (
	"fmt"
	"log/slog"

	"kassa/internal/store"
	"kassa/internal/store/memory"
	"kassa/internal/store/sqlite"
)

// Type is the kind of store backing the ledger.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// Config holds what backend construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Open constructs the configured store. The caller owns Close.
func Open(cfg Config, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil
	default:
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	}
}
