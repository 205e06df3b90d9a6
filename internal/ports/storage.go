package ports

import (
	"context"
	"time"
)

// Snapshot is one versioned state blob.
type Snapshot struct {
	Version   int
	Data      []byte
	UpdatedAt time.Time
}

// SnapshotStorage persists the namespaced state blob.
// This is a driven port (implemented by adapters).
type SnapshotStorage interface {
	// Load returns the snapshot under namespace. The bool is false when
	// nothing has been saved yet.
	Load(ctx context.Context, namespace string) (Snapshot, bool, error)

	// Save replaces the snapshot under namespace.
	Save(ctx context.Context, namespace string, snap Snapshot) error

	// Close releases the underlying resources.
	Close() error
}

// BlobStorage is a small key/value store for opaque records kept apart
// from the main snapshot.
type BlobStorage interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
	Delete(key string) error
}
