package tty

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

func TestHost_Capability(t *testing.T) {
	assert.Equal(t, domain.Unsupported, New("").Capability())
	assert.Equal(t, domain.Unsupported, New("/nonexistent/tty").Capability())

	regular := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(regular, nil, 0644))
	assert.Equal(t, domain.Unsupported, New(regular).Capability(), "regular files are not terminals")

	if _, err := os.Stat("/dev/null"); err == nil {
		assert.Equal(t, domain.Available, New("/dev/null").Capability())
	}
}

func TestHost_RequestWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	h := New(path)

	w, err := h.RequestWindow(context.Background(), ports.Size{Width: 40, Height: 12})
	require.NoError(t, err)
	assert.Equal(t, ports.Size{Width: 40, Height: 12}, w.Size(), "non-terminals keep the requested size")

	_, err = w.Output().Write([]byte("hello"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	select {
	case <-w.Done():
	default:
		t.Error("Done() not closed after Close()")
	}
	assert.NoError(t, w.Close(), "closing twice is fine")
}

func TestHost_RequestWindowCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("/dev/null").RequestWindow(ctx, ports.Size{})
	assert.ErrorIs(t, err, context.Canceled)
}
