// Package blob implements ports.BlobStorage on a diskv directory.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/peterbourgon/diskv/v3"
	"github.com/xvierd/dailo/internal/ports"
)

// DefaultNamespace is the directory the drawing canvas records live in.
const DefaultNamespace = "dailo-excalidraw"

// Store keeps one file per key under <basePath>/<namespace>.
type Store struct {
	d         *diskv.Diskv
	namespace string
}

var _ ports.BlobStorage = (*Store)(nil)

// New opens a blob store rooted at basePath. An empty namespace uses
// DefaultNamespace.
func New(basePath, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s := &Store{namespace: namespace}
	s.d = diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: s.keyToPath,
		InverseTransform:  s.pathToKey,
		CacheSizeMax:      4 * 1024 * 1024,
	})
	return s
}

func (s *Store) keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{s.namespace}, FileName: key}
}

func (s *Store) pathToKey(pk *diskv.PathKey) string {
	return pk.FileName
}

// Get returns the record under key. The bool is false when it does not
// exist.
func (s *Store) Get(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("blob: empty key")
	}
	data, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, true, nil
}

// Put replaces the record under key.
func (s *Store) Put(key string, data []byte) error {
	if key == "" {
		return errors.New("blob: empty key")
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the record under key. A missing key is not an error.
func (s *Store) Delete(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("failed to erase blob %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in name order.
func (s *Store) Keys(ctx context.Context) []string {
	var keys []string
	for k := range s.d.Keys(ctx.Done()) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
