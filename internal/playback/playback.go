// Package playback holds the process-wide media managers: looping
// ambience and the lofi stream playlist. Each manager owns its players for
// the life of the process, however many views come and go.
package playback

import (
	"io"
	"log"
	"sync"

	"github.com/xvierd/dailo/internal/ports"
)

// listeners is a small subscriber set shared by both managers.
type listeners[S any] struct {
	mu     sync.Mutex
	fns    map[int]func(S)
	nextID int
}

func (l *listeners[S]) add(fn func(S)) func() {
	l.mu.Lock()
	if l.fns == nil {
		l.fns = make(map[int]func(S))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners[S]) notify(st S) {
	l.mu.Lock()
	fns := make([]func(S), 0, len(l.fns))
	for id := 0; id < l.nextID; id++ {
		if fn, ok := l.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

func discardLogger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard, "", 0)
	}
	return l
}

// level converts a 0..100 volume to the player's 0..1 range.
func level(volume int) float64 {
	return float64(volume) / 100
}

// watch forwards player events to fn until the player closes.
func watch(p ports.MediaPlayer, fn func(ports.PlayerEvent)) {
	for ev := range p.Events() {
		fn(ev)
	}
}
