package playback

import (
	"context"
	"log"
	"sync"

	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

// StreamState is the live state of the lofi player.
type StreamState struct {
	IsPlaying   bool
	IsReady     bool
	Volume      int
	IsMuted     bool
	StreamIndex int
}

// Settings returns the persisted part of the state.
func (s StreamState) Settings() domain.LofiSettings {
	return domain.LofiSettings{Volume: s.Volume, StreamIndex: s.StreamIndex}
}

// StreamManager plays the lofi playlist through a single player. The
// playlist is the built-in catalog followed by the custom streams.
type StreamManager struct {
	backend ports.MediaBackend
	logger  *log.Logger

	once      sync.Once
	listeners listeners[StreamState]

	mu     sync.Mutex
	player ports.MediaPlayer
	custom []domain.CustomStream
	state  StreamState
}

// NewStreamManager creates the manager. No player exists until Init.
func NewStreamManager(backend ports.MediaBackend, logger *log.Logger) *StreamManager {
	return &StreamManager{
		backend: backend,
		logger:  discardLogger(logger),
		state:   StreamState{Volume: domain.DefaultStreamVolume},
	}
}

// Init creates the player on the current stream. Later calls do nothing.
func (m *StreamManager) Init(ctx context.Context) {
	m.once.Do(func() {
		if m.backend == nil || !m.backend.Available() {
			return
		}
		m.mu.Lock()
		source := m.streamsLocked()[m.state.StreamIndex].StreamURL()
		m.mu.Unlock()

		p, err := m.backend.NewPlayer(ctx, source, false)
		if err != nil {
			m.logger.Printf("lofi: failed to start player: %v", err)
			return
		}
		m.mu.Lock()
		m.player = p
		m.mu.Unlock()
		go watch(p, m.onEvent)
	})
}

func (m *StreamManager) onEvent(ev ports.PlayerEvent) {
	m.mu.Lock()
	switch ev {
	case ports.EventReady:
		m.state.IsReady = true
		if m.player != nil {
			_ = m.player.SetVolume(level(m.state.Volume))
			_ = m.player.SetMuted(m.state.IsMuted)
		}
	case ports.EventPlaying:
		m.state.IsPlaying = true
	case ports.EventPaused, ports.EventEnded:
		m.state.IsPlaying = false
	case ports.EventError:
		m.state.IsPlaying = false
		m.logger.Printf("lofi: playback error on stream %d", m.state.StreamIndex)
	}
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// Subscribe registers fn to run after every state change.
func (m *StreamManager) Subscribe(fn func(StreamState)) (unsubscribe func()) {
	return m.listeners.add(fn)
}

// GetState returns the current state.
func (m *StreamManager) GetState() StreamState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// GetAllStreams returns the playlist in index order.
func (m *StreamManager) GetAllStreams() []domain.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamsLocked()
}

func (m *StreamManager) streamsLocked() []domain.Stream {
	out := make([]domain.Stream, 0, len(domain.BuiltinStreams)+len(m.custom))
	out = append(out, domain.BuiltinStreams...)
	for _, c := range m.custom {
		out = append(out, domain.StreamFromCustom(c))
	}
	return out
}

// SetCustomStreams replaces the user-added part of the playlist. The
// current index is pulled back inside the new playlist.
func (m *StreamManager) SetCustomStreams(custom []domain.CustomStream) {
	m.mu.Lock()
	m.custom = append([]domain.CustomStream(nil), custom...)
	if n := len(domain.BuiltinStreams) + len(m.custom); m.state.StreamIndex >= n {
		m.state.StreamIndex = n - 1
	}
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// ready reports whether commands may reach the player. m.mu must be held.
func (m *StreamManager) ready() bool {
	return m.player != nil && m.state.IsReady
}

// Toggle plays or pauses. It does nothing until the player is ready.
func (m *StreamManager) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready() {
		return
	}
	if m.state.IsPlaying {
		_ = m.player.Pause()
	} else {
		_ = m.player.Play()
	}
}

// SetVolume sets the volume and unmutes. The level is remembered even
// before the player is ready.
func (m *StreamManager) SetVolume(volume int) {
	m.mu.Lock()
	m.state.Volume = domain.ClampVolume(volume)
	m.state.IsMuted = false
	if m.ready() {
		_ = m.player.SetMuted(false)
		_ = m.player.SetVolume(level(m.state.Volume))
	}
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// ToggleMute mutes or unmutes. It does nothing until the player is ready.
func (m *StreamManager) ToggleMute() {
	m.mu.Lock()
	if !m.ready() {
		m.mu.Unlock()
		return
	}
	if m.state.IsMuted {
		_ = m.player.SetMuted(false)
		_ = m.player.SetVolume(level(m.state.Volume))
	} else {
		_ = m.player.SetMuted(true)
	}
	m.state.IsMuted = !m.state.IsMuted
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// SwitchTrack moves to the next (direction > 0) or previous stream,
// wrapping at both ends.
func (m *StreamManager) SwitchTrack(direction int) {
	m.mu.Lock()
	if !m.ready() || direction == 0 {
		m.mu.Unlock()
		return
	}
	n := len(domain.BuiltinStreams) + len(m.custom)
	step := 1
	if direction < 0 {
		step = -1
	}
	m.loadLocked((m.state.StreamIndex + step + n) % n)
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// SelectTrack jumps to stream i of the playlist. Out of range indexes and
// the current index are ignored.
func (m *StreamManager) SelectTrack(i int) {
	m.mu.Lock()
	if !m.ready() || i < 0 || i >= len(domain.BuiltinStreams)+len(m.custom) || i == m.state.StreamIndex {
		m.mu.Unlock()
		return
	}
	m.loadLocked(i)
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// loadLocked switches the player to stream i and starts it.
func (m *StreamManager) loadLocked(i int) {
	m.state.StreamIndex = i
	if err := m.player.Load(m.streamsLocked()[i].StreamURL()); err != nil {
		m.logger.Printf("lofi: failed to load stream %d: %v", i, err)
		return
	}
	_ = m.player.Play()
}

// RestoreState reapplies the saved volume and stream. An index that no
// longer exists falls back to the first stream.
func (m *StreamManager) RestoreState(saved domain.LofiSettings) {
	m.mu.Lock()
	m.state.Volume = domain.ClampVolume(saved.Volume)
	idx := saved.StreamIndex
	if idx < 0 || idx >= len(domain.BuiltinStreams)+len(m.custom) {
		idx = 0
	}
	if idx != m.state.StreamIndex {
		m.state.StreamIndex = idx
		if m.player != nil {
			_ = m.player.Load(m.streamsLocked()[idx].StreamURL())
		}
	}
	if m.ready() {
		_ = m.player.SetVolume(level(m.state.Volume))
	}
	st := m.state
	m.mu.Unlock()
	m.listeners.notify(st)
}

// Close stops the player.
func (m *StreamManager) Close() error {
	m.mu.Lock()
	p := m.player
	m.player = nil
	m.state.IsReady = false
	m.state.IsPlaying = false
	m.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Close()
}
