package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return store.New(store.WithClock(func() time.Time { return now }))
}

type fakeSound struct {
	mu    sync.Mutex
	plays int
	err   error
}

func (f *fakeSound) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return f.err
}

func (f *fakeSound) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

type fakeNotifier struct {
	mu         sync.Mutex
	permission domain.Permission
	grant      domain.Permission
	requests   int
	messages   []string
}

func (f *fakeNotifier) Permission() domain.Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permission
}

func (f *fakeNotifier) RequestPermission(context.Context) domain.Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.permission = f.grant
	return f.permission
}

func (f *fakeNotifier) Notify(_, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

type fakeTitle struct {
	mu     sync.Mutex
	shown  []int
	resets int
}

func (f *fakeTitle) Show(timer domain.TimerState, _ domain.PomodoroSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, timer.TimeLeft)
}

func (f *fakeTitle) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

// memorySnapshots is a ports.SnapshotStorage kept in a map.
type memorySnapshots struct {
	mu    sync.Mutex
	snaps map[string]ports.Snapshot
	saves int
	err   error
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{snaps: make(map[string]ports.Snapshot)}
}

func (m *memorySnapshots) Load(_ context.Context, ns string) (ports.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[ns]
	return s, ok, nil
}

func (m *memorySnapshots) Save(_ context.Context, ns string, snap ports.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.snaps[ns] = snap
	return nil
}

func (m *memorySnapshots) Close() error { return nil }

func (m *memorySnapshots) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// memoryBlobs is a ports.BlobStorage kept in a map.
type memoryBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{data: make(map[string][]byte)}
}

func (m *memoryBlobs) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memoryBlobs) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryBlobs) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

type fakeBranch struct {
	branch string
	err    error
}

func (f fakeBranch) CurrentBranch(context.Context, string) (string, error) {
	return f.branch, f.err
}

func (f fakeBranch) IsAvailable() bool { return f.err == nil }

var errNotRepo = errors.New("not a git repository")
