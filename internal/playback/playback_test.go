package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

type fakePlayer struct {
	mu      sync.Mutex
	source  string
	loop    bool
	playing bool
	muted   bool
	volume  float64
	loads   []string
	playErr error
	events  chan ports.PlayerEvent
	closed  bool
}

func (p *fakePlayer) Load(source string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = source
	p.loads = append(p.loads, source)
	return nil
}

func (p *fakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playErr != nil {
		return p.playErr
	}
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	return nil
}

func (p *fakePlayer) SetVolume(l float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = l
	return nil
}

func (p *fakePlayer) SetMuted(m bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = m
	return nil
}

func (p *fakePlayer) Events() <-chan ports.PlayerEvent { return p.events }

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	return nil
}

type playerView struct {
	source  string
	loop    bool
	playing bool
	muted   bool
	volume  float64
	loads   []string
}

func (p *fakePlayer) snapshot() playerView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return playerView{source: p.source, loop: p.loop, playing: p.playing, muted: p.muted, volume: p.volume, loads: append([]string(nil), p.loads...)}
}

func (p *fakePlayer) failPlay(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playErr = err
}

type fakeBackend struct {
	mu        sync.Mutex
	available bool
	players   []*fakePlayer
}

func (b *fakeBackend) Available() bool { return b.available }

func (b *fakeBackend) NewPlayer(_ context.Context, source string, loop bool) (ports.MediaPlayer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &fakePlayer{source: source, loop: loop, events: make(chan ports.PlayerEvent, 8)}
	b.players = append(b.players, p)
	return p, nil
}

func (b *fakeBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.players)
}

func (b *fakeBackend) player(i int) *fakePlayer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.players[i]
}

const wait = time.Second
const poll = 2 * time.Millisecond

func readyStream(t *testing.T, backend *fakeBackend) *StreamManager {
	t.Helper()
	m := NewStreamManager(backend, nil)
	m.Init(context.Background())
	require.Equal(t, 1, backend.count())
	backend.player(0).events <- ports.EventReady
	require.Eventually(t, func() bool { return m.GetState().IsReady }, wait, poll)
	return m
}

func TestStreamManager_InitCreatesOnePlayer(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := NewStreamManager(backend, nil)
	for i := 0; i < 5; i++ {
		m.Init(context.Background())
	}
	assert.Equal(t, 1, backend.count())
	assert.Equal(t, domain.BuiltinStreams[0].StreamURL(), backend.player(0).snapshot().source)
	assert.False(t, backend.player(0).snapshot().loop)
	require.NoError(t, m.Close())
}

func TestAmbientManager_InitCreatesOnePlayerPerSound(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := NewAmbientManager(backend, "/media", nil)
	for i := 0; i < 5; i++ {
		m.Init(context.Background())
	}
	require.Equal(t, len(domain.AmbientSounds), backend.count())
	assert.Equal(t, "/media/rain.mp3", backend.player(0).snapshot().source)
	assert.True(t, backend.player(0).snapshot().loop)
	assert.InDelta(t, 0.3, backend.player(0).snapshot().volume, 1e-9)
	require.NoError(t, m.Close())
}

func TestStreamManager_AllStreamsIncludesCustom(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := readyStream(t, backend)
	defer m.Close()

	custom := []domain.CustomStream{{ID: "c1", Name: "Jazz", VideoID: "abc123"}}
	m.SetCustomStreams(custom)

	all := m.GetAllStreams()
	require.Len(t, all, len(domain.BuiltinStreams)+1)

	boundary := len(domain.BuiltinStreams)
	m.SelectTrack(boundary)
	assert.Equal(t, boundary, m.GetState().StreamIndex)
	assert.True(t, all[boundary].Custom)
	p := backend.player(0).snapshot()
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", p.source)
	assert.True(t, p.playing)

	m.SelectTrack(boundary + 1)
	assert.Equal(t, boundary, m.GetState().StreamIndex, "out of range index is ignored")
	m.SelectTrack(boundary)
	assert.Len(t, backend.player(0).snapshot().loads, 1, "same index does not reload")
}

func TestStreamManager_SwitchTrackWraps(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := readyStream(t, backend)
	defer m.Close()

	n := len(domain.BuiltinStreams)
	m.SwitchTrack(-1)
	assert.Equal(t, n-1, m.GetState().StreamIndex)
	m.SwitchTrack(1)
	assert.Equal(t, 0, m.GetState().StreamIndex)
}

func TestStreamManager_IgnoresCommandsUntilReady(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := NewStreamManager(backend, nil)
	m.Init(context.Background())
	defer m.Close()

	m.Toggle()
	m.ToggleMute()
	m.SwitchTrack(1)
	m.SelectTrack(1)
	m.SetVolume(80)

	st := m.GetState()
	assert.False(t, st.IsMuted)
	assert.Equal(t, 0, st.StreamIndex)
	assert.Equal(t, 80, st.Volume, "volume is remembered")
	p := backend.player(0).snapshot()
	assert.False(t, p.playing)
	assert.Zero(t, p.volume)

	backend.player(0).events <- ports.EventReady
	require.Eventually(t, func() bool { return m.GetState().IsReady }, wait, poll)
	assert.InDelta(t, 0.8, backend.player(0).snapshot().volume, 1e-9, "volume applied on ready")
}

func TestStreamManager_PlayingFollowsEvents(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := readyStream(t, backend)
	defer m.Close()

	var mu sync.Mutex
	var seen []bool
	unsub := m.Subscribe(func(st StreamState) {
		mu.Lock()
		seen = append(seen, st.IsPlaying)
		mu.Unlock()
	})
	defer unsub()

	m.Toggle()
	assert.True(t, backend.player(0).snapshot().playing)
	assert.False(t, m.GetState().IsPlaying, "state follows the player, not the command")

	backend.player(0).events <- ports.EventPlaying
	require.Eventually(t, func() bool { return m.GetState().IsPlaying }, wait, poll)

	m.ToggleMute()
	assert.True(t, m.GetState().IsMuted)
	assert.True(t, backend.player(0).snapshot().muted)
	m.SetVolume(20)
	assert.False(t, m.GetState().IsMuted)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, true)
}

func TestStreamManager_RestoreState(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := readyStream(t, backend)
	defer m.Close()

	m.RestoreState(domain.LofiSettings{Volume: 140, StreamIndex: 1})
	st := m.GetState()
	assert.Equal(t, 100, st.Volume)
	assert.Equal(t, 1, st.StreamIndex)
	assert.Equal(t, domain.BuiltinStreams[1].StreamURL(), backend.player(0).snapshot().source)

	m.RestoreState(domain.LofiSettings{Volume: 10, StreamIndex: 99})
	assert.Equal(t, 0, m.GetState().StreamIndex)
	assert.Equal(t, domain.LofiSettings{Volume: 10, StreamIndex: 0}, m.GetState().Settings())
}

func TestStreamManager_SetCustomStreamsClampsIndex(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := readyStream(t, backend)
	defer m.Close()

	m.SetCustomStreams([]domain.CustomStream{{ID: "a"}, {ID: "b"}})
	m.SelectTrack(len(domain.BuiltinStreams) + 1)
	m.SetCustomStreams(nil)
	assert.Equal(t, len(domain.BuiltinStreams)-1, m.GetState().StreamIndex)
}

func TestManagers_WithoutBackend(t *testing.T) {
	backend := &fakeBackend{available: false}
	s := NewStreamManager(backend, nil)
	s.Init(context.Background())
	s.Toggle()
	assert.Equal(t, 0, backend.count())
	assert.False(t, s.GetState().IsReady)
	assert.NoError(t, s.Close())

	a := NewAmbientManager(nil, "", nil)
	a.Init(context.Background())
	a.Toggle("rain")
	assert.True(t, a.GetState().Enabled["rain"], "state still tracks the toggle")
	assert.NoError(t, a.Close())
}

func TestAmbientManager_ToggleAndVolume(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := NewAmbientManager(backend, "/media", nil)
	m.Init(context.Background())
	defer m.Close()

	backend.player(0).failPlay(errors.New("autoplay blocked"))
	m.Toggle("rain")
	assert.True(t, m.GetState().Enabled["rain"], "play failure is swallowed")
	assert.False(t, backend.player(0).snapshot().playing)

	m.Toggle("forest")
	assert.True(t, backend.player(1).snapshot().playing)
	m.Toggle("forest")
	assert.False(t, backend.player(1).snapshot().playing)

	m.SetVolume("rain", -5)
	assert.Equal(t, 0, m.GetState().Volumes["rain"])
	m.SetVolume("thunder", 50)
	_, ok := m.GetState().Volumes["thunder"]
	assert.False(t, ok)
	m.Toggle("thunder")
	assert.False(t, m.GetState().Enabled["thunder"])
}

func TestAmbientManager_RestoreState(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := NewAmbientManager(backend, "/media", nil)
	m.Init(context.Background())
	defer m.Close()

	m.RestoreState(domain.AmbientSettings{
		Volumes: map[string]int{"rain": 70, "unknown": 10},
		Enabled: map[string]bool{"rain": true},
	})

	st := m.GetState()
	assert.Equal(t, 70, st.Volumes["rain"])
	assert.True(t, st.Enabled["rain"])
	assert.False(t, st.Enabled["forest"])
	assert.NotContains(t, st.Volumes, "unknown")

	rain := backend.player(0).snapshot()
	assert.True(t, rain.playing)
	assert.InDelta(t, 0.7, rain.volume, 1e-9)
	assert.False(t, backend.player(1).snapshot().playing)

	settings := st.Settings()
	assert.Equal(t, 70, settings.Volumes["rain"])
}

func TestAmbientManager_ReadyFromEvents(t *testing.T) {
	backend := &fakeBackend{available: true}
	m := NewAmbientManager(backend, "/media", nil)
	m.Init(context.Background())
	defer m.Close()

	backend.player(0).events <- ports.EventReady
	require.Eventually(t, func() bool { return m.GetState().Ready["rain"] }, wait, poll)
	assert.False(t, m.GetState().Ready["forest"])
}
