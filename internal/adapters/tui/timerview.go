package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/dailo/internal/adapters/titlebar"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/surface"
)

// formatClock renders seconds as MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// timerView draws the pomodoro clock. The dashboard widget and the
// detached surface both render through it so they never drift apart.
type timerView struct {
	theme   config.ThemeConfig
	palette titlebar.Palette
}

func newTimerView(theme config.ThemeConfig) timerView {
	return timerView{theme: theme, palette: titlebar.NewPalette(theme)}
}

func (v timerView) render(st domain.State, width int) string {
	s := newStyles(v.theme, st.Theme)
	timer := st.PomodoroTimer
	settings := st.PomodoroSettings
	color := lipgloss.Color(v.palette.Color(timer, settings))

	tabs := make([]string, 0, len(domain.Phases))
	for _, p := range domain.Phases {
		if p == timer.Phase {
			tabs = append(tabs, s.tabOn.Render(p.Label()))
		} else {
			tabs = append(tabs, s.tab.Render(p.Label()))
		}
	}

	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}
	bar := progress.New(progress.WithSolidFill(string(color)), progress.WithoutPercentage())
	bar.Width = barWidth

	status := "paused"
	if timer.IsRunning {
		status = "running"
	}
	cycle := settings.SessionsUntilLongBreak
	if cycle < 1 {
		cycle = 1
	}
	info := fmt.Sprintf("%s %d/%d sessions · %s",
		titlebar.Ring(timer.Progress(settings)), timer.SessionsCompleted%cycle, cycle, status)

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		renderBigTime(formatClock(timer.TimeLeft), color, width),
		"",
		bar.ViewAs(timer.Progress(settings)),
		s.muted.Render(info),
	}
	if task, ok := st.ActiveTask(); ok && !timer.Phase.IsBreak() {
		lines = append(lines, s.muted.Render("▸ ")+truncate(task.Title, width-2))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// TimerSurface is the root model of a detached timer surface. It only
// renders the states it receives.
type TimerSurface struct {
	view   timerView
	state  domain.State
	width  int
	height int
}

// NewTimerSurface returns the factory the surface manager uses to build
// the detached timer.
func NewTimerSurface(theme config.ThemeConfig) surface.ModelFactory {
	resolved := resolveTheme(&theme)
	return func(mode domain.Theme, initial domain.State, size ports.Size) tea.Model {
		initial.Theme = mode
		return TimerSurface{
			view:   newTimerView(resolved),
			state:  initial,
			width:  size.Width,
			height: size.Height,
		}
	}
}

// Init implements tea.Model.
func (m TimerSurface) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m TimerSurface) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case surface.StateMsg:
		m.state = msg.State
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m TimerSurface) View() string {
	body := m.view.render(m.state, m.width)
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
