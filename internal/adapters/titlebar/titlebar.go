// Package titlebar mirrors the running countdown into the terminal window
// title: a ring glyph filled by phase progress followed by the minutes
// left.
package titlebar

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
)

// DefaultTitle is shown while the timer is stopped.
const DefaultTitle = "dailo"

var ringGlyphs = []string{"○", "◔", "◑", "◕", "●"}

// Ring returns the glyph for a progress fraction in [0,1].
func Ring(progress float64) string {
	if progress <= 0 {
		return ringGlyphs[0]
	}
	if progress >= 1 {
		return ringGlyphs[len(ringGlyphs)-1]
	}
	i := int(math.Round(progress * float64(len(ringGlyphs)-1)))
	return ringGlyphs[i]
}

// Title renders the window title for a running timer.
func Title(timer domain.TimerState, settings domain.PomodoroSettings) string {
	return fmt.Sprintf("%s %d · %s", Ring(timer.Progress(settings)), timer.MinutesLeft(), DefaultTitle)
}

// Palette colors the ring for the TUI, which unlike a window title can
// render it.
type Palette struct {
	Focus  colorful.Color
	Break  colorful.Color
	Paused colorful.Color
}

// NewPalette parses the theme colors, falling back to the built-in ones
// for anything unparsable.
func NewPalette(theme config.ThemeConfig) Palette {
	def := config.DefaultThemeConfig()
	return Palette{
		Focus:  parseHex(theme.ColorFocus, def.ColorFocus),
		Break:  parseHex(theme.ColorBreak, def.ColorBreak),
		Paused: parseHex(theme.ColorPaused, def.ColorPaused),
	}
}

func parseHex(hex, fallback string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// Color returns the hex ring color. The accent fades in from the paused
// tone as the phase progresses.
func (p Palette) Color(timer domain.TimerState, settings domain.PomodoroSettings) string {
	accent := p.Focus
	if timer.Phase.IsBreak() {
		accent = p.Break
	}
	if !timer.IsRunning {
		return p.Paused.BlendLab(accent, 0.3).Hex()
	}
	t := 0.5 + timer.Progress(settings)/2
	return p.Paused.BlendLab(accent, t).Clamped().Hex()
}

// Sink writes window titles through termenv.
type Sink struct {
	mu   sync.Mutex
	out  *termenv.Output
	last string
}

var _ ports.TitleSink = (*Sink)(nil)

// New creates a sink writing OSC title sequences to w.
func New(w io.Writer) *Sink {
	return &Sink{out: termenv.NewOutput(w)}
}

// Show renders the ring while the timer runs and restores the default
// title otherwise.
func (s *Sink) Show(timer domain.TimerState, settings domain.PomodoroSettings) {
	if !timer.IsRunning {
		s.Reset()
		return
	}
	s.set(Title(timer, settings))
}

// Reset restores the default title.
func (s *Sink) Reset() {
	s.set(DefaultTitle)
}

func (s *Sink) set(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if title == s.last {
		return
	}
	s.last = title
	s.out.SetWindowTitle(title)
}
