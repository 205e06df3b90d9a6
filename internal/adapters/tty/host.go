// Package tty hosts detached surfaces on a second terminal device.
package tty

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

// Host opens the configured terminal device as a surface.
type Host struct {
	path string
	open func(path string) (*os.File, error)
}

var _ ports.SurfaceHost = (*Host)(nil)

// New creates a host for the device at path. An empty path disables
// detached surfaces.
func New(path string) *Host {
	return &Host{
		path: path,
		open: func(p string) (*os.File, error) { return os.OpenFile(p, os.O_RDWR, 0) },
	}
}

// Capability reports whether the device exists and is a terminal.
func (h *Host) Capability() domain.Capability {
	if h.path == "" {
		return domain.Unsupported
	}
	info, err := os.Stat(h.path)
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return domain.Unsupported
	}
	return domain.Available
}

// RequestWindow opens the device. The requested size is a hint; the
// window reports the device's real size when it can be read.
func (h *Host) RequestWindow(ctx context.Context, size ports.Size) (ports.Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := h.open(h.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", h.path, err)
	}
	if w, ht, err := term.GetSize(f.Fd()); err == nil && w > 0 && ht > 0 {
		size = ports.Size{Width: w, Height: ht}
	}
	return &window{f: f, size: size, done: make(chan struct{})}, nil
}

type window struct {
	f    *os.File
	size ports.Size

	once sync.Once
	done chan struct{}
	err  error
}

func (w *window) Input() io.Reader      { return w.f }
func (w *window) Output() io.Writer     { return w.f }
func (w *window) Size() ports.Size      { return w.size }
func (w *window) Done() <-chan struct{} { return w.done }

func (w *window) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.err = w.f.Close()
	})
	return w.err
}
