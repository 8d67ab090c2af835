// Package store provides durable key-value document storage backed by SQLite.
//
// Each key holds one whole serialized document; every write replaces the
// full value for its key. A failed write leaves the previous value intact.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/tverdon/backline/internal/db"
)

const (
	appName    = "backline"
	dbFileName = "backline.db"
)

// Store is a durable namespaced key → string document store.
type Store struct {
	db *sql.DB
}

// Open opens the store at the default data location.
func Open() (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath)
}

// OpenAt opens the store at the given file path, creating it if needed.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory store. Used by tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Read returns the document stored under key.
// The second return value is false when the key has never been written.
func (s *Store) Read(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

// Write stores the document under key, replacing any previous value.
// The replace is atomic per key: on failure the prior value remains.
func (s *Store) Write(key, value string) error {
	err := dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO documents (key, value, updated_at)
			VALUES (?, ?, strftime('%s','now'))
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
