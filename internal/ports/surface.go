package ports

import (
	"context"
	"io"

	"github.com/xvierd/dailo/internal/domain"
)

// Size is a surface size in cells.
type Size struct {
	Width  int
	Height int
}

// Window is a detached presentation surface.
type Window interface {
	Input() io.Reader
	Output() io.Writer
	Size() Size
	// Done is closed when the surface goes away on its own.
	Done() <-chan struct{}
	Close() error
}

// SurfaceHost hands out detached surfaces.
// This is a driven port (implemented by adapters).
type SurfaceHost interface {
	Capability() domain.Capability
	RequestWindow(ctx context.Context, size Size) (Window, error)
}
