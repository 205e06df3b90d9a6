package ports

import "context"

// PlayerEvent is emitted by a media player when its state changes.
type PlayerEvent int

const (
	EventReady PlayerEvent = iota
	EventPlaying
	EventPaused
	EventEnded
	EventError
)

// MediaPlayer is one retained handle to an underlying player.
type MediaPlayer interface {
	Load(source string) error
	Play() error
	Pause() error
	// SetVolume takes a level in [0,1].
	SetVolume(level float64) error
	SetMuted(muted bool) error
	Events() <-chan PlayerEvent
	Close() error
}

// MediaBackend creates players. Loop makes the source repeat forever.
// This is a driven port (implemented by adapters).
type MediaBackend interface {
	Available() bool
	NewPlayer(ctx context.Context, source string, loop bool) (MediaPlayer, error)
}
