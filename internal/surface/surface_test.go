package surface

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeWindow struct {
	in     *io.PipeReader
	keys   *io.PipeWriter
	out    *syncBuffer
	size   ports.Size
	done   chan struct{}
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

func newFakeWindow(size ports.Size) *fakeWindow {
	r, w := io.Pipe()
	return &fakeWindow{in: r, keys: w, out: &syncBuffer{}, size: size, done: make(chan struct{})}
}

func (w *fakeWindow) Input() io.Reader      { return w.in }
func (w *fakeWindow) Output() io.Writer     { return w.out }
func (w *fakeWindow) Size() ports.Size      { return w.size }
func (w *fakeWindow) Done() <-chan struct{} { return w.done }

func (w *fakeWindow) Close() error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
		_ = w.keys.Close()
	})
	return nil
}

func (w *fakeWindow) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

type fakeHost struct {
	capability domain.Capability
	err        error

	mu       sync.Mutex
	windows  []*fakeWindow
	requests int
}

func (h *fakeHost) Capability() domain.Capability { return h.capability }

func (h *fakeHost) RequestWindow(_ context.Context, size ports.Size) (ports.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
	if h.err != nil {
		return nil, h.err
	}
	w := newFakeWindow(size)
	h.windows = append(h.windows, w)
	return w, nil
}

func (h *fakeHost) window(i int) *fakeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.windows[i]
}

// probeModel records what reaches the surface and quits on q.
type probeModel struct {
	theme domain.Theme
	seen  chan domain.State
}

func (m probeModel) Init() tea.Cmd { return nil }

func (m probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		select {
		case m.seen <- msg.State:
		default:
		}
	case tea.KeyMsg:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m probeModel) View() string { return "timer " + string(m.theme) }

type factoryProbe struct {
	mu     sync.Mutex
	themes []domain.Theme
	seen   chan domain.State
}

func (f *factoryProbe) build(theme domain.Theme, _ domain.State, _ ports.Size) tea.Model {
	f.mu.Lock()
	f.themes = append(f.themes, theme)
	f.mu.Unlock()
	return probeModel{theme: theme, seen: f.seen}
}

func newProbe() *factoryProbe {
	return &factoryProbe{seen: make(chan domain.State, 16)}
}

func TestManager_OpenUnsupported(t *testing.T) {
	host := &fakeHost{capability: domain.Unsupported}
	m := New(host, store.New(), newProbe().build, nil)

	h, err := m.Open(context.Background(), ports.Size{Width: 40, Height: 12})
	assert.NoError(t, err)
	assert.Nil(t, h)
	assert.False(t, m.IsOpen())
	assert.Equal(t, 0, host.requests)
	assert.Equal(t, domain.Unsupported, New(nil, store.New(), nil, nil).Capability())
}

func TestManager_OpenHostFailure(t *testing.T) {
	host := &fakeHost{capability: domain.Available, err: errors.New("device busy")}
	m := New(host, store.New(), newProbe().build, nil)

	h, err := m.Open(context.Background(), ports.Size{})
	assert.NoError(t, err)
	assert.Nil(t, h)
	assert.False(t, m.IsOpen())
}

func TestManager_OpenMirrorsStateAndTheme(t *testing.T) {
	s := store.New()
	s.SetTheme(domain.ThemeLight)
	host := &fakeHost{capability: domain.Available}
	probe := newProbe()
	m := New(host, s, probe.build, nil)

	h, err := m.Open(context.Background(), ports.Size{Width: 40, Height: 12})
	require.NoError(t, err)
	require.NotNil(t, h)
	defer m.Close()
	assert.True(t, m.IsOpen())
	assert.Equal(t, []domain.Theme{domain.ThemeLight}, probe.themes)

	again, err := m.Open(context.Background(), ports.Size{})
	assert.NoError(t, err)
	assert.Nil(t, again, "only one surface at a time")
	assert.Equal(t, 1, host.requests)

	s.StartPomodoro()
	select {
	case st := <-probe.seen:
		assert.True(t, st.PomodoroTimer.IsRunning)
	case <-time.After(2 * time.Second):
		t.Fatal("surface never received the store update")
	}
}

func TestManager_CloseTearsDown(t *testing.T) {
	host := &fakeHost{capability: domain.Available}
	m := New(host, store.New(), newProbe().build, nil)

	h, err := m.Open(context.Background(), ports.Size{Width: 40, Height: 12})
	require.NoError(t, err)
	require.NotNil(t, h)

	m.Close()
	assert.False(t, m.IsOpen())
	assert.True(t, host.window(0).isClosed())
	select {
	case <-h.Done():
	default:
		t.Error("handle not done after Close")
	}

	m.Close()
	m.Shutdown()

	h2, err := m.Open(context.Background(), ports.Size{})
	require.NoError(t, err)
	require.NotNil(t, h2, "a surface can be reopened after close")
	m.Shutdown()
}

func TestManager_SurfaceClosedByUser(t *testing.T) {
	host := &fakeHost{capability: domain.Available}
	m := New(host, store.New(), newProbe().build, nil)

	h, err := m.Open(context.Background(), ports.Size{Width: 40, Height: 12})
	require.NoError(t, err)
	require.NotNil(t, h)

	go func() { _, _ = host.window(0).keys.Write([]byte("q")) }()

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("surface did not tear down after quitting")
	}
	assert.False(t, m.IsOpen())
	assert.True(t, host.window(0).isClosed())
}

func TestManager_WindowGoneAway(t *testing.T) {
	host := &fakeHost{capability: domain.Available}
	m := New(host, store.New(), newProbe().build, nil)

	h, err := m.Open(context.Background(), ports.Size{Width: 40, Height: 12})
	require.NoError(t, err)
	require.NotNil(t, h)

	require.NoError(t, host.window(0).Close())

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("surface did not tear down after the window closed")
	}
	assert.False(t, m.IsOpen())
}
