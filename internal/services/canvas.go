package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/xvierd/dailo/internal/debounce"
	"github.com/xvierd/dailo/internal/ports"
)

// CanvasKey is the single record the drawing lives under.
const CanvasKey = "main-drawing"

// CanvasSaveDelay is the quiet period before a drawing change is written.
const CanvasSaveDelay = time.Second

// canvasAppStateKeys are the appState fields worth keeping. The rest is
// view state that grows without bound.
var canvasAppStateKeys = []string{
	"viewBackgroundColor",
	"currentItemFontFamily",
	"currentItemFontSize",
	"currentItemStrokeColor",
	"currentItemBackgroundColor",
	"currentItemFillStyle",
	"currentItemStrokeWidth",
	"currentItemRoughness",
	"currentItemOpacity",
	"gridSize",
	"theme",
}

// CanvasScene is the stored drawing record. Elements and files are opaque
// to dailo.
type CanvasScene struct {
	Elements []json.RawMessage          `json:"elements"`
	AppState map[string]any             `json:"appState"`
	Files    map[string]json.RawMessage `json:"files"`
}

// FilterAppState keeps only the visually essential appState keys.
func FilterAppState(in map[string]any) map[string]any {
	out := make(map[string]any)
	for _, k := range canvasAppStateKeys {
		if v, ok := in[k]; ok {
			out[k] = v
		}
	}
	return out
}

// CanvasService loads the drawing and writes changes after a quiet
// period.
type CanvasService struct {
	blobs    ports.BlobStorage
	debounce *debounce.Debouncer
	logger   *log.Logger

	mu  sync.Mutex
	err error
}

// NewCanvasService creates a canvas service over blobs.
func NewCanvasService(blobs ports.BlobStorage, logger *log.Logger) *CanvasService {
	return newCanvasService(blobs, logger, CanvasSaveDelay)
}

func newCanvasService(blobs ports.BlobStorage, logger *log.Logger, delay time.Duration) *CanvasService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CanvasService{blobs: blobs, debounce: debounce.New(delay), logger: logger}
}

// Load returns the stored drawing. The bool is false when nothing has
// been drawn yet.
func (c *CanvasService) Load() (CanvasScene, bool, error) {
	data, ok, err := c.blobs.Get(CanvasKey)
	if err != nil || !ok {
		return CanvasScene{}, false, err
	}
	var scene CanvasScene
	if err := json.Unmarshal(data, &scene); err != nil {
		return CanvasScene{}, false, fmt.Errorf("failed to decode drawing: %w", err)
	}
	return normalizeScene(scene), true, nil
}

// Save schedules a write of scene. Only the last scene of a burst is
// written.
func (c *CanvasService) Save(scene CanvasScene) {
	scene = normalizeScene(scene)
	c.debounce.Trigger(func() { c.write(scene) })
}

// Flush writes a waiting scene now and returns the write error.
func (c *CanvasService) Flush() error {
	c.debounce.Flush()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Pending reports whether a write is waiting for its quiet period.
func (c *CanvasService) Pending() bool {
	return c.debounce.Pending()
}

// Clear drops any waiting write and deletes the drawing.
func (c *CanvasService) Clear() error {
	c.debounce.Cancel()
	if err := c.blobs.Delete(CanvasKey); err != nil {
		return fmt.Errorf("failed to clear drawing: %w", err)
	}
	return nil
}

func (c *CanvasService) write(scene CanvasScene) {
	data, err := json.Marshal(scene)
	if err == nil {
		err = c.blobs.Put(CanvasKey, data)
	}
	if err != nil {
		err = fmt.Errorf("failed to save drawing: %w", err)
		c.logger.Printf("canvas: %v", err)
	}
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func normalizeScene(s CanvasScene) CanvasScene {
	if s.Elements == nil {
		s.Elements = []json.RawMessage{}
	}
	s.AppState = FilterAppState(s.AppState)
	if s.Files == nil {
		s.Files = map[string]json.RawMessage{}
	}
	return s
}
