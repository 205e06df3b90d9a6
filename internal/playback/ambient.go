package playback

import (
	"context"
	"log"
	"maps"
	"path/filepath"
	"sync"

	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

// AmbientState is the live ambience state. Volumes are 0..100.
type AmbientState struct {
	Volumes map[string]int
	Enabled map[string]bool
	Ready   map[string]bool
}

// Settings returns the persisted part of the state.
func (s AmbientState) Settings() domain.AmbientSettings {
	return domain.AmbientSettings{Volumes: maps.Clone(s.Volumes), Enabled: maps.Clone(s.Enabled)}
}

func (s AmbientState) clone() AmbientState {
	return AmbientState{Volumes: maps.Clone(s.Volumes), Enabled: maps.Clone(s.Enabled), Ready: maps.Clone(s.Ready)}
}

// AmbientManager plays the built-in looping sounds, one player each.
type AmbientManager struct {
	backend  ports.MediaBackend
	mediaDir string
	logger   *log.Logger

	once      sync.Once
	listeners listeners[AmbientState]

	mu      sync.Mutex
	players map[string]ports.MediaPlayer
	state   AmbientState
}

// NewAmbientManager creates the manager. No player exists until Init.
func NewAmbientManager(backend ports.MediaBackend, mediaDir string, logger *log.Logger) *AmbientManager {
	def := domain.DefaultPlaybackSettings().Ambient
	return &AmbientManager{
		backend:  backend,
		mediaDir: mediaDir,
		logger:   discardLogger(logger),
		players:  make(map[string]ports.MediaPlayer),
		state: AmbientState{
			Volumes: def.Volumes,
			Enabled: def.Enabled,
			Ready:   make(map[string]bool),
		},
	}
}

// Init creates one looping player per sound. Later calls do nothing.
func (m *AmbientManager) Init(ctx context.Context) {
	m.once.Do(func() {
		if m.backend == nil || !m.backend.Available() {
			return
		}
		for _, sound := range domain.AmbientSounds {
			p, err := m.backend.NewPlayer(ctx, filepath.Join(m.mediaDir, sound.Path), true)
			if err != nil {
				m.logger.Printf("ambient: failed to start %s player: %v", sound.ID, err)
				continue
			}
			m.mu.Lock()
			m.players[sound.ID] = p
			_ = p.SetVolume(level(m.state.Volumes[sound.ID]))
			m.mu.Unlock()
			go watch(p, func(ev ports.PlayerEvent) { m.onEvent(sound.ID, ev) })
		}
	})
}

func (m *AmbientManager) onEvent(id string, ev ports.PlayerEvent) {
	m.mu.Lock()
	switch ev {
	case ports.EventReady:
		m.state.Ready[id] = true
	case ports.EventError:
		m.state.Ready[id] = false
	default:
		m.mu.Unlock()
		return
	}
	st := m.state.clone()
	m.mu.Unlock()
	m.listeners.notify(st)
}

// Subscribe registers fn to run after every state change.
func (m *AmbientManager) Subscribe(fn func(AmbientState)) (unsubscribe func()) {
	return m.listeners.add(fn)
}

// GetState returns a copy of the current state.
func (m *AmbientManager) GetState() AmbientState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Toggle turns a sound on or off. Unknown ids are ignored.
func (m *AmbientManager) Toggle(id string) {
	m.mu.Lock()
	if _, ok := m.state.Volumes[id]; !ok {
		m.mu.Unlock()
		return
	}
	on := !m.state.Enabled[id]
	m.state.Enabled[id] = on
	if p := m.players[id]; p != nil {
		if on {
			_ = p.Play()
		} else {
			_ = p.Pause()
		}
	}
	st := m.state.clone()
	m.mu.Unlock()
	m.listeners.notify(st)
}

// SetVolume sets one sound's volume, clamped to 0..100.
func (m *AmbientManager) SetVolume(id string, volume int) {
	m.mu.Lock()
	if _, ok := m.state.Volumes[id]; !ok {
		m.mu.Unlock()
		return
	}
	volume = domain.ClampVolume(volume)
	m.state.Volumes[id] = volume
	if p := m.players[id]; p != nil {
		_ = p.SetVolume(level(volume))
	}
	st := m.state.clone()
	m.mu.Unlock()
	m.listeners.notify(st)
}

// RestoreState merges saved settings, reapplies volumes and resumes the
// sounds that were on. Playback failures are ignored.
func (m *AmbientManager) RestoreState(saved domain.AmbientSettings) {
	m.mu.Lock()
	for id, v := range saved.Volumes {
		if _, ok := m.state.Volumes[id]; ok {
			m.state.Volumes[id] = domain.ClampVolume(v)
		}
	}
	for id, on := range saved.Enabled {
		if _, ok := m.state.Enabled[id]; ok {
			m.state.Enabled[id] = on
		}
	}
	for id, p := range m.players {
		_ = p.SetVolume(level(m.state.Volumes[id]))
		if m.state.Enabled[id] {
			_ = p.Play()
		}
	}
	st := m.state.clone()
	m.mu.Unlock()
	m.listeners.notify(st)
}

// Close stops every player.
func (m *AmbientManager) Close() error {
	m.mu.Lock()
	players := m.players
	m.players = make(map[string]ports.MediaPlayer)
	m.mu.Unlock()

	var firstErr error
	for _, p := range players {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
