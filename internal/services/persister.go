package services

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
)

// Persister writes the store snapshot after every commit. Bursts of
// commits coalesce into one write of the latest state.
type Persister struct {
	store   *store.Store
	storage ports.SnapshotStorage
	logger  *log.Logger

	mu     sync.Mutex
	dirty  bool
	closed bool
	err    error

	wake        chan struct{}
	quit        chan struct{}
	done        chan struct{}
	unsubscribe func()
}

// NewPersister subscribes to s and starts the background writer.
func NewPersister(s *store.Store, storage ports.SnapshotStorage, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Persister{
		store:   s,
		storage: storage,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.unsubscribe = s.Subscribe(p.onCommit)
	go p.loop()
	return p
}

func (p *Persister) onCommit(domain.State) {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Persister) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.write()
		case <-p.quit:
			p.write()
			return
		}
	}
}

func (p *Persister) write() {
	p.mu.Lock()
	dirty := p.dirty
	p.dirty = false
	p.mu.Unlock()
	if !dirty {
		return
	}

	snap, err := p.store.Snapshot()
	if err == nil {
		err = p.storage.Save(context.Background(), store.Namespace, snap)
	}
	if err != nil {
		p.logger.Printf("persister: %v", err)
	}
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Err returns the result of the most recent write.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close stops listening, writes any pending change and waits for the
// writer to finish. It returns the last write error.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.Err()
	}
	p.closed = true
	p.mu.Unlock()

	p.unsubscribe()
	close(p.quit)
	<-p.done
	return p.Err()
}
