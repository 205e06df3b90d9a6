// Package surface mirrors the timer into a detached surface. The surface
// runs its own render loop but reads the one shared store; it never runs
// a second clock.
package surface

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

// StateMsg carries a committed store state into the surface's model.
type StateMsg struct {
	State domain.State
}

// StateSource is the slice of the store a surface reads.
type StateSource interface {
	GetState() domain.State
	Subscribe(fn func(domain.State)) (unsubscribe func())
}

// ModelFactory builds the model rendered on the surface. The theme is
// passed explicitly so both surfaces look the same.
type ModelFactory func(theme domain.Theme, initial domain.State, size ports.Size) tea.Model

// Manager owns at most one open surface.
type Manager struct {
	host       ports.SurfaceHost
	source     StateSource
	newModel   ModelFactory
	logger     *log.Logger
	capability domain.Capability

	mu      sync.Mutex
	current *Handle
}

// New creates a manager. The host capability is resolved once, here.
func New(host ports.SurfaceHost, source StateSource, newModel ModelFactory, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	capability := domain.Unsupported
	if host != nil {
		capability = host.Capability()
	}
	return &Manager{host: host, source: source, newModel: newModel, logger: logger, capability: capability}
}

// Capability reports whether surfaces can be opened at all. Callers hide
// the affordance when it is Unsupported.
func (m *Manager) Capability() domain.Capability {
	return m.capability
}

// Handle is one open surface.
type Handle struct {
	window  ports.Window
	program *tea.Program

	unsubscribe func()
	updates     chan domain.State
	stop        chan struct{}
	done        chan struct{}
	once        sync.Once
}

// Done is closed once the surface is fully torn down.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Open requests a surface and starts rendering the timer on it. It
// returns nil without error when surfaces are unsupported, when one is
// already open, or when the host refuses.
func (m *Manager) Open(ctx context.Context, size ports.Size) (*Handle, error) {
	if m.capability != domain.Available {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return nil, nil
	}

	w, err := m.host.RequestWindow(ctx, size)
	if err != nil {
		m.logger.Printf("surface: %v", err)
		return nil, nil
	}

	st := m.source.GetState()
	model := m.newModel(st.Theme, st, w.Size())
	h := &Handle{
		window:  w,
		updates: make(chan domain.State, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	h.program = tea.NewProgram(model,
		tea.WithInput(w.Input()),
		tea.WithOutput(w.Output()),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)
	h.unsubscribe = m.source.Subscribe(h.push)
	m.current = h

	exited := make(chan struct{})
	go func() {
		defer close(exited)
		if _, err := h.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			m.logger.Printf("surface: render loop: %v", err)
		}
	}()
	go h.forward(w.Size())
	go m.supervise(h, exited)
	return h, nil
}

// push keeps only the newest state so a slow surface never blocks the
// store.
func (h *Handle) push(st domain.State) {
	for {
		select {
		case h.updates <- st:
			return
		default:
		}
		select {
		case <-h.updates:
		default:
		}
	}
}

func (h *Handle) forward(size ports.Size) {
	h.program.Send(tea.WindowSizeMsg{Width: size.Width, Height: size.Height})
	for {
		select {
		case <-h.stop:
			return
		case st := <-h.updates:
			h.program.Send(StateMsg{State: st})
		}
	}
}

// supervise tears the surface down when the render loop exits or the
// window goes away on its own.
func (m *Manager) supervise(h *Handle, exited <-chan struct{}) {
	select {
	case <-exited:
	case <-h.window.Done():
		h.program.Kill()
		<-exited
	case <-h.stop:
		<-exited
	}
	h.teardown()

	m.mu.Lock()
	if m.current == h {
		m.current = nil
	}
	m.mu.Unlock()
	close(h.done)
}

func (h *Handle) teardown() {
	h.unsubscribe()
	h.once.Do(func() { close(h.stop) })
	_ = h.window.Close()
}

// Close tears down the render loop and closes the surface. It returns
// once the surface is gone. Closing when nothing is open does nothing.
func (m *Manager) Close() {
	m.mu.Lock()
	h := m.current
	m.mu.Unlock()
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.program.Kill()
	<-h.done
}

// Shutdown is Close for an owner that is going away; it must finish
// before the owner's own teardown.
func (m *Manager) Shutdown() {
	m.Close()
}

// IsOpen reports whether a surface is currently open.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}
