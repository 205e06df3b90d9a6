// Package notification provides desktop notifications and the completion
// chime.
package notification

import (
	"context"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

const appName = "dailo"

// notifyFunc and beepFunc are swapped out in tests.
var (
	notifyFunc = func(title, message string) error { return beeep.Notify(title, message, "") }
	beepFunc   = func() error { return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration) }
)

// Notifier handles desktop notifications. Desktop notifiers have no
// prompt, so a request resolves from the configuration: enabled grants,
// disabled denies.
type Notifier struct {
	cfg *config.NotificationConfig

	mu         sync.Mutex
	permission domain.Permission
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{cfg: cfg, permission: domain.PermissionDefault}
	if !n.IsEnabled() {
		n.permission = domain.PermissionDenied
	}
	return n
}

// Permission returns the current permission without prompting.
func (n *Notifier) Permission() domain.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// RequestPermission decides an undecided permission.
func (n *Notifier) RequestPermission(ctx context.Context) domain.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission != domain.PermissionDefault || ctx.Err() != nil {
		return n.permission
	}
	if n.IsEnabled() {
		n.permission = domain.PermissionGranted
	} else {
		n.permission = domain.PermissionDenied
	}
	return n.permission
}

// Notify displays a desktop notification if permitted.
func (n *Notifier) Notify(title, message string) error {
	if n.Permission() != domain.PermissionGranted {
		return nil
	}
	return notifyFunc(title, message)
}

// NotifyPhaseComplete announces the phase that follows from.
func (n *Notifier) NotifyPhaseComplete(from domain.Phase) error {
	return n.Notify(appName, domain.CompletionMessage(from))
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// Chime plays the terminal bell as the completion sound.
type Chime struct {
	enabled bool
}

var _ ports.SoundPlayer = (*Chime)(nil)

// NewChime creates the completion sound player.
func NewChime(cfg *config.NotificationConfig) *Chime {
	return &Chime{enabled: cfg != nil && cfg.Sound}
}

// Play sounds the chime once.
func (c *Chime) Play() error {
	if !c.enabled {
		return nil
	}
	return beepFunc()
}
