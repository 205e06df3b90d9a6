package ports

import (
	"context"

	"github.com/xvierd/dailo/internal/domain"
)

// Notifier shows OS-level notifications behind a permission gate.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Permission returns the current permission without prompting.
	Permission() domain.Permission

	// RequestPermission prompts if the permission is still undecided.
	RequestPermission(ctx context.Context) domain.Permission

	// Notify displays a notification.
	Notify(title, message string) error
}

// SoundPlayer plays the phase-completion chime.
type SoundPlayer interface {
	Play() error
}

// TitleSink mirrors the countdown into the host window title.
type TitleSink interface {
	// Show renders the countdown ring for the given timer state.
	Show(timer domain.TimerState, settings domain.PomodoroSettings)

	// Reset restores the default title.
	Reset()
}
