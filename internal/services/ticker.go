// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
)

const notificationTitle = "dailo"

// Ticker is the one pomodoro clock of the process. It is owned by the
// application shell so the countdown keeps going while views come and go.
type Ticker struct {
	store    *store.Store
	sound    ports.SoundPlayer
	notifier ports.Notifier
	title    ports.TitleSink
	logger   *log.Logger
	interval time.Duration

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	requested bool
}

var _ ports.TimerControl = (*Ticker)(nil)

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// WithInterval replaces the one-second tick, used by tests.
func WithInterval(d time.Duration) TickerOption {
	return func(t *Ticker) { t.interval = d }
}

// WithTitleSink mirrors the countdown into the window title.
func WithTitleSink(sink ports.TitleSink) TickerOption {
	return func(t *Ticker) { t.title = sink }
}

// WithLogger sets where side-effect failures are reported.
func WithLogger(l *log.Logger) TickerOption {
	return func(t *Ticker) { t.logger = l }
}

// NewTicker creates a stopped ticker. sound and notifier may be nil.
func NewTicker(s *store.Store, sound ports.SoundPlayer, notifier ports.Notifier, opts ...TickerOption) *Ticker {
	t := &Ticker{
		store:    s,
		sound:    sound,
		notifier: notifier,
		logger:   log.New(io.Discard, "", 0),
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start launches the interval goroutine. Calling Start while it is
// already running does nothing.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
}

// Stop halts the interval and waits for the goroutine to exit. The
// window title is restored.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	if t.title != nil {
		t.title.Reset()
	}
}

// Running reports whether the interval goroutine is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Ticker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.Step()
		}
	}
}

// Step performs one second of clock work: count down, and complete the
// phase on the tick that reaches zero.
func (t *Ticker) Step() {
	timer := t.store.GetState().PomodoroTimer
	switch {
	case timer.Due():
		t.complete(timer.Phase)
	case timer.IsRunning:
		t.store.TickPomodoroTimer()
		if next := t.store.GetState().PomodoroTimer; next.Due() {
			t.complete(next.Phase)
		}
	}
	t.render()
}

// complete fires the side effects for the phase that ended, then moves
// the store on. Side-effect failures never block the transition.
func (t *Ticker) complete(ended domain.Phase) {
	if t.sound != nil {
		if err := t.sound.Play(); err != nil {
			t.logger.Printf("ticker: failed to play sound: %v", err)
		}
	}
	if t.notifier != nil && t.notifier.Permission() == domain.PermissionGranted {
		if err := t.notifier.Notify(notificationTitle, domain.CompletionMessage(ended)); err != nil {
			t.logger.Printf("ticker: failed to notify: %v", err)
		}
	}
	t.store.CompletePomodoroPhase()
}

func (t *Ticker) render() {
	if t.title == nil {
		return
	}
	st := t.store.GetState()
	if st.PomodoroTimer.IsRunning {
		t.title.Show(st.PomodoroTimer, st.PomodoroSettings)
		return
	}
	t.title.Reset()
}

// StartTimer is the manual start action. The first one asks for
// notification permission.
func (t *Ticker) StartTimer(ctx context.Context) bool {
	t.requestPermission(ctx)
	return t.store.StartPomodoro()
}

// ToggleTimer starts or pauses the countdown and returns the new
// running flag.
func (t *Ticker) ToggleTimer(ctx context.Context) bool {
	running := t.store.TogglePomodoro()
	if running {
		t.requestPermission(ctx)
	}
	t.render()
	return running
}

// PauseTimer pauses the countdown.
func (t *Ticker) PauseTimer() {
	t.store.PausePomodoro()
	t.render()
}

func (t *Ticker) requestPermission(ctx context.Context) {
	t.mu.Lock()
	first := !t.requested
	t.requested = true
	t.mu.Unlock()

	if first && t.notifier != nil && t.notifier.Permission() == domain.PermissionDefault {
		t.notifier.RequestPermission(ctx)
	}
}
