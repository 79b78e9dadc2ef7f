// Package backend selects and opens the collection store named by
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"billing/internal/storage"
)

// Type identifies a collection store implementation.
type Type string

const (
	// SQLite persists collections in a local database file.
	SQLite Type = "sqlite"
	// Memory keeps collections in process memory, for tests and demos.
	Memory Type = "memory"
)

// IsValid reports whether the backend type is supported.
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	}
	return false
}

// Open creates the store for the given backend type. For SQLite the path
// names the database file; Memory ignores it.
func Open(backendType Type, dbPath string) (storage.Store, error) {
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", backendType)
	}

	switch backendType {
	case SQLite:
		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		slog.Info("Initialized SQLite backend", "path", dbPath)
		return store, nil
	default:
		slog.Info("Initialized memory backend")
		return storage.NewMemoryStore(), nil
	}
}
