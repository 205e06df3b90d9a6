package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAppState(t *testing.T) {
	in := map[string]any{
		"viewBackgroundColor": "#fff",
		"gridSize":            20,
		"theme":               "dark",
		"scrollX":             1200,
		"selectedElementIds":  map[string]any{"a": true},
	}
	got := FilterAppState(in)
	assert.Equal(t, map[string]any{"viewBackgroundColor": "#fff", "gridSize": 20, "theme": "dark"}, got)
	assert.Empty(t, FilterAppState(nil))
}

func TestCanvasService_DebouncesWrites(t *testing.T) {
	blobs := newMemoryBlobs()
	c := newCanvasService(blobs, nil, 20*time.Millisecond)

	for i := 0; i < 5; i++ {
		c.Save(CanvasScene{
			Elements: []json.RawMessage{json.RawMessage(`{"id":"rect"}`)},
			AppState: map[string]any{"theme": "light", "zoom": i},
		})
	}
	assert.Equal(t, 0, blobs.putCount())

	require.Eventually(t, func() bool { return blobs.putCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, c.Pending())

	scene, ok, err := c.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, scene.Elements, 1)
	assert.Equal(t, map[string]any{"theme": "light"}, scene.AppState)
	assert.NotNil(t, scene.Files)
}

func TestCanvasService_FlushWritesImmediately(t *testing.T) {
	blobs := newMemoryBlobs()
	c := newCanvasService(blobs, nil, time.Hour)

	c.Save(CanvasScene{})
	require.True(t, c.Pending())
	require.NoError(t, c.Flush())

	assert.Equal(t, 1, blobs.putCount())
	raw, ok, _ := blobs.Get(CanvasKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"elements":[],"appState":{},"files":{}}`, string(raw))
}

func TestCanvasService_ClearDropsPendingWrite(t *testing.T) {
	blobs := newMemoryBlobs()
	c := newCanvasService(blobs, nil, time.Hour)

	c.Save(CanvasScene{})
	require.NoError(t, c.Flush())
	c.Save(CanvasScene{Elements: []json.RawMessage{json.RawMessage(`{}`)}})

	require.NoError(t, c.Clear())
	assert.False(t, c.Pending())

	_, ok, err := c.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanvasService_LoadCorrupt(t *testing.T) {
	blobs := newMemoryBlobs()
	require.NoError(t, blobs.Put(CanvasKey, []byte("{")))

	_, ok, err := NewCanvasService(blobs, nil).Load()
	assert.Error(t, err)
	assert.False(t, ok)
}
