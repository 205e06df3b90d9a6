// Package storage provides the SQLite implementation of the snapshot
// storage port.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/dailo/internal/ports"
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements ports.SnapshotStorage using SQLite. Each
// namespace holds exactly one row.
type SQLiteStorage struct {
	db *sql.DB
}

// Ensure SQLiteStorage implements ports.SnapshotStorage.
var _ ports.SnapshotStorage = (*SQLiteStorage)(nil)

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases alive between calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates an in-memory SQLite storage instance for testing.
func NewMemory() (*SQLiteStorage, error) {
	return New(":memory:")
}

// Migrate creates the database schema.
func (s *SQLiteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		namespace TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		data BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under namespace.
func (s *SQLiteStorage) Load(ctx context.Context, namespace string) (ports.Snapshot, bool, error) {
	query := `
		SELECT version, data, updated_at
		FROM snapshots
		WHERE namespace = ?
	`

	var snap ports.Snapshot
	err := s.db.QueryRowContext(ctx, query, namespace).Scan(&snap.Version, &snap.Data, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Snapshot{}, false, nil
	}
	if err != nil {
		return ports.Snapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, true, nil
}

// Save replaces the snapshot stored under namespace.
func (s *SQLiteStorage) Save(ctx context.Context, namespace string, snap ports.Snapshot) error {
	query := `
		INSERT INTO snapshots (namespace, version, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, namespace, snap.Version, snap.Data, snap.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot under namespace. Deleting a missing
// namespace is not an error.
func (s *SQLiteStorage) Delete(ctx context.Context, namespace string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Namespaces lists the stored namespaces in name order.
func (s *SQLiteStorage) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT namespace FROM snapshots ORDER BY namespace")
	if err != nil {
		return nil, fmt.Errorf("failed to query namespaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan namespace: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
