// Package remote is the authenticated-mode backing store: a server-owned
// SQLite database where every mutation re-verifies that the touched record
// belongs to the calling identity. A client-side bypass still fails here.
package remote

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"moneydrain/internal/events"
)

// Repository owns the database handle shared by all per-identity stores.
type Repository struct {
	db     *sql.DB
	events *events.Client
}

// NewRepository opens (and migrates) the ledger database. The events client
// may be nil; mutations then publish nothing.
func NewRepository(dbPath string, ev *events.Client) (*Repository, error) {
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
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, events: ev}, nil
}

// For binds the repository to one authenticated identity. Every operation on
// the returned store is scoped to that identity's records.
func (r *Repository) For(userID string) *Store {
	return &Store{repo: r, userID: userID}
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
