// Package store holds the single process-wide application state. Every
// mutation is applied atomically and listeners are notified after each
// commit, in commit order.
package store

import (
	"sync"
	"time"

	"github.com/xvierd/dailo/internal/domain"
)

// Store is the state container. The zero value is not usable; call New.
type Store struct {
	mu        sync.Mutex
	state     domain.State
	now       func() time.Time
	listeners map[int]func(domain.State)
	nextID    int

	// pending holds committed states not yet delivered to listeners.
	pending  []domain.State
	draining bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, used for updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithState seeds the store instead of the first-run defaults.
func WithState(st domain.State) Option {
	return func(s *Store) { s.state = st.Clone() }
}

// New creates a store holding the default state.
func New(opts ...Option) *Store {
	s := &Store{
		state:     domain.DefaultState(),
		now:       time.Now,
		listeners: make(map[int]func(domain.State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns a copy of the current state.
func (s *Store) GetState() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every committed mutation. The state
// passed to fn is shared between listeners and must not be modified.
// Listeners may call back into the store.
func (s *Store) Subscribe(fn func(domain.State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// update applies fn to a copy of the state and commits it when fn
// reports a change. It returns whether a commit happened.
func (s *Store) update(fn func(st *domain.State) bool) bool {
	s.mu.Lock()
	next := s.state.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	s.pending = append(s.pending, next.Clone())
	if s.draining {
		// Another caller is already delivering; it will pick this up.
		s.mu.Unlock()
		return true
	}
	s.draining = true
	for len(s.pending) > 0 {
		st := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]func(domain.State), 0, len(s.listeners))
		for id := 0; id < s.nextID; id++ {
			if l, ok := s.listeners[id]; ok {
				listeners = append(listeners, l)
			}
		}
		s.mu.Unlock()
		for _, l := range listeners {
			l(st)
		}
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
	return true
}

// replace commits st wholesale, keeping the customize flag.
func (s *Store) replace(ps domain.PersistedState) {
	s.update(func(st *domain.State) bool {
		st.PersistedState = ps
		return true
	})
}

// SetTheme selects the color scheme.
func (s *Store) SetTheme(theme domain.Theme) {
	s.update(func(st *domain.State) bool {
		if theme != domain.ThemeLight {
			theme = domain.ThemeDark
		}
		st.Theme = theme
		return true
	})
}

// ToggleTheme flips between dark and light.
func (s *Store) ToggleTheme() {
	s.update(func(st *domain.State) bool {
		st.Theme = st.Theme.Toggle()
		return true
	})
}

// SetCustomizing enters or leaves layout customize mode.
func (s *Store) SetCustomizing(on bool) {
	s.update(func(st *domain.State) bool {
		st.IsCustomizing = on
		return true
	})
}

// ToggleCustomizing flips customize mode.
func (s *Store) ToggleCustomizing() {
	s.update(func(st *domain.State) bool {
		st.IsCustomizing = !st.IsCustomizing
		return true
	})
}
