// Package tui provides the terminal dashboard implementation using the
// Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/debounce"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
	"github.com/xvierd/dailo/internal/playback"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
	"github.com/xvierd/dailo/internal/surface"
)

// NoteSaveDelay is the quiet period before note edits are written.
const NoteSaveDelay = 500 * time.Millisecond

// Timer drives the shared pomodoro clock.
type Timer interface {
	ToggleTimer(ctx context.Context) bool
}

// LofiPlayer is the stream player the lofi widget controls.
type LofiPlayer interface {
	GetState() playback.StreamState
	GetAllStreams() []domain.Stream
	Toggle()
	SetVolume(volume int)
	ToggleMute()
	SwitchTrack(direction int)
	Subscribe(fn func(playback.StreamState)) (unsubscribe func())
}

// AmbiencePlayer is the ambience player the lofi widget controls.
type AmbiencePlayer interface {
	GetState() playback.AmbientState
	Toggle(id string)
	SetVolume(id string, volume int)
	Subscribe(fn func(playback.AmbientState)) (unsubscribe func())
}

// Deps wires the dashboard to the application singletons. Lofi, Ambient
// and Surface may be nil.
type Deps struct {
	Store         *store.Store
	Timer         Timer
	Lofi          LofiPlayer
	LofiAvailable bool
	Ambient       AmbiencePlayer
	Surface       *surface.Manager
	SurfaceSize   ports.Size
	Theme         *config.ThemeConfig
	Now           func() time.Time
	NoteSaveDelay time.Duration
}

type storeMsg struct{ state domain.State }

type lofiMsg struct{ state playback.StreamState }

type ambientMsg struct{ state playback.AmbientState }

type surfaceClosedMsg struct{}

// clockMsg refreshes relative times and the time-block marker.
type clockMsg time.Time

type screen int

const (
	viewDashboard screen = iota
	viewBoard
)

type promptKind int

const (
	promptNone promptKind = iota
	promptTodo
	promptTask
	promptHabit
	promptNote
	promptBlock
)

// Model is the dashboard.
type Model struct {
	deps  Deps
	ctx   context.Context
	theme config.ThemeConfig
	timer timerView

	state   domain.State
	lofi    playback.StreamState
	ambient playback.AmbientState

	width  int
	height int

	view     screen
	focus    string
	cursor   map[string]int
	boardCol int
	boardRow int

	prompt     textinput.Model
	promptKind promptKind

	editor      textarea.Model
	editingNote string
	noteSave    *debounce.Debouncer

	help        help.Model
	showHelp    bool
	surfaceOpen bool
	status      string
}

// NewModel creates the dashboard model.
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NoteSaveDelay <= 0 {
		deps.NoteSaveDelay = NoteSaveDelay
	}
	if deps.SurfaceSize.Width == 0 || deps.SurfaceSize.Height == 0 {
		deps.SurfaceSize = ports.Size{Width: 44, Height: 14}
	}
	theme := resolveTheme(deps.Theme)

	prompt := textinput.New()
	prompt.CharLimit = 200
	prompt.Width = 50

	editor := textarea.New()
	editor.Placeholder = "Write…"
	editor.CharLimit = 0
	editor.ShowLineNumbers = false

	m := Model{
		deps:     deps,
		ctx:      ctx,
		theme:    theme,
		timer:    newTimerView(theme),
		cursor:   make(map[string]int),
		prompt:   prompt,
		editor:   editor,
		noteSave: debounce.New(deps.NoteSaveDelay),
		help:     help.New(),
		width:    120,
		height:   40,
	}
	if deps.Lofi != nil {
		m.lofi = deps.Lofi.GetState()
	}
	if deps.Ambient != nil {
		m.ambient = deps.Ambient.GetState()
	}
	m.refresh()
	return m
}

// Init starts the minute clock.
func (m Model) Init() tea.Cmd {
	return clockCmd()
}

func clockCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m Model) now() time.Time { return m.deps.Now() }

func (m Model) styles() styles { return newStyles(m.theme, m.state.Theme) }

// refresh rereads the store and keeps focus on a displayed widget.
func (m *Model) refresh() {
	m.state = m.deps.Store.GetState()
	order := m.widgetOrder()
	for _, w := range order {
		if w.ID == m.focus {
			return
		}
	}
	m.focus = ""
	if len(order) > 0 {
		m.focus = order[0].ID
	}
}

// widgetOrder lists the displayed widgets column by column.
func (m Model) widgetOrder() []domain.Widget {
	var out []domain.Widget
	for c := 0; c < domain.ColumnCount; c++ {
		out = append(out, m.state.WidgetsByColumn(c, m.state.IsCustomizing)...)
	}
	return out
}

func (m Model) focused() (domain.Widget, bool) {
	for _, w := range m.state.Widgets {
		if w.ID == m.focus {
			return w, true
		}
	}
	return domain.Widget{}, false
}

func (m *Model) cycleFocus(step int) {
	order := m.widgetOrder()
	if len(order) == 0 {
		return
	}
	i := 0
	for j, w := range order {
		if w.ID == m.focus {
			i = j
		}
	}
	m.focus = order[(i+step+len(order))%len(order)].ID
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(max(msg.Width/3-6, 20))
		return m, nil
	case storeMsg:
		m.state = msg.state
		m.refresh()
		return m, nil
	case lofiMsg:
		m.lofi = msg.state
		return m, nil
	case ambientMsg:
		m.ambient = msg.state
		return m, nil
	case surfaceClosedMsg:
		m.surfaceOpen = false
		return m, nil
	case clockMsg:
		return m, clockCmd()
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.editingNote != "" {
			return m.updateEditor(msg)
		}
		if m.promptKind != promptNone {
			return m.updatePrompt(msg)
		}
		if m.view == viewBoard {
			if key.Matches(msg, keys.Quit) {
				return m.quit()
			}
			return m.updateBoard(msg)
		}
		return m.updateDashboard(msg)
	}

	if m.editingNote != "" {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	if m.promptKind != promptNone {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// quit flushes pending note edits and closes the detached surface before
// the program exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.noteSave.Flush()
	if m.deps.Surface != nil {
		m.deps.Surface.Shutdown()
	}
	m.surfaceOpen = false
	return m, tea.Quit
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.deps.Store
	m.status = ""

	if m.state.IsCustomizing {
		if handled := m.updateCustomize(msg); handled {
			m.refresh()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Next):
		m.cycleFocus(1)
	case key.Matches(msg, keys.Prev):
		m.cycleFocus(-1)
	case key.Matches(msg, keys.Toggle):
		if m.deps.Timer != nil {
			m.deps.Timer.ToggleTimer(m.ctx)
		}
	case key.Matches(msg, keys.Customize):
		s.ToggleCustomizing()
	case key.Matches(msg, keys.Board):
		m.view = viewBoard
	case key.Matches(msg, keys.Theme):
		s.ToggleTheme()
	case key.Matches(msg, keys.Surface):
		return m.toggleSurface()
	case key.Matches(msg, keys.Lofi):
		if m.deps.Lofi != nil {
			m.deps.Lofi.Toggle()
		}
	case key.Matches(msg, keys.Track):
		if m.deps.Lofi != nil {
			dir := 1
			if msg.String() == "[" {
				dir = -1
			}
			m.deps.Lofi.SwitchTrack(dir)
		}
	case key.Matches(msg, keys.Mute):
		if m.deps.Lofi != nil {
			m.deps.Lofi.ToggleMute()
		}
	case key.Matches(msg, keys.Louder), key.Matches(msg, keys.Quieter):
		if m.deps.Lofi != nil {
			delta := 10
			if key.Matches(msg, keys.Quieter) {
				delta = -10
			}
			m.deps.Lofi.SetVolume(m.deps.Lofi.GetState().Volume + delta)
		}
	case key.Matches(msg, keys.Rain), key.Matches(msg, keys.Forest):
		if m.deps.Ambient != nil {
			i, _ := strconv.Atoi(msg.String())
			m.deps.Ambient.Toggle(domain.AmbientSounds[i-1].ID)
		}
	default:
		if w, ok := m.focused(); ok {
			return m.updateWidget(w, msg)
		}
	}
	m.refresh()
	return m, nil
}

// updateCustomize handles the layout keys. It reports whether msg was
// one of them.
func (m *Model) updateCustomize(msg tea.KeyMsg) bool {
	s := m.deps.Store
	w, ok := m.focused()
	if key.Matches(msg, keys.Back) {
		s.SetCustomizing(false)
		return true
	}
	if key.Matches(msg, keys.Relayout) {
		s.ResetLayout()
		return true
	}
	if !ok {
		return false
	}
	switch {
	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		column := m.state.WidgetsByColumn(w.Column, true)
		for i, c := range column {
			if c.ID != w.ID {
				continue
			}
			j := i + 1
			if key.Matches(msg, keys.MoveUp) {
				j = i - 1
			}
			if j >= 0 && j < len(column) {
				s.MoveWidget(w.ID, column[j].ID)
			}
			break
		}
	case key.Matches(msg, keys.MoveLeft), key.Matches(msg, keys.MoveRight):
		target := w.Column + 1
		if key.Matches(msg, keys.MoveLeft) {
			target = w.Column - 1
		}
		if target >= 0 && target < domain.ColumnCount {
			s.MoveWidget(w.ID, layout.ColumnTarget(target))
		}
	case key.Matches(msg, keys.Hide):
		s.ToggleWidgetVisibility(w.ID)
	case key.Matches(msg, keys.Wider):
		s.UpdateWidgetWidth(w.ID, w.Width%3+1)
	case key.Matches(msg, keys.Longer):
		s.UpdateWidgetHeight(w.ID, w.Height+50)
	case key.Matches(msg, keys.Shorter):
		s.UpdateWidgetHeight(w.ID, w.Height-50)
	default:
		return false
	}
	return true
}

var phaseFields = map[domain.Phase]domain.SettingField{
	domain.PhaseFocus:      domain.FieldFocus,
	domain.PhaseShortBreak: domain.FieldShortBreak,
	domain.PhaseLongBreak:  domain.FieldLongBreak,
}

func (m Model) updateWidget(w domain.Widget, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.deps.Store
	cur := m.cursor[w.ID]
	move := func(n int) {
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor[w.ID] = clampCursor(cur-1, n)
		case key.Matches(msg, keys.Down):
			m.cursor[w.ID] = clampCursor(cur+1, n)
		}
	}

	switch w.Type {
	case domain.WidgetPomodoro:
		timer := m.state.PomodoroTimer
		switch {
		case key.Matches(msg, keys.Reset):
			s.ResetPomodoroTimer()
		case key.Matches(msg, keys.Phase):
			next := domain.Phases[0]
			for i, p := range domain.Phases {
				if p == timer.Phase {
					next = domain.Phases[(i+1)%len(domain.Phases)]
				}
			}
			s.SelectPomodoroPhase(next)
		case key.Matches(msg, keys.Longer):
			s.ChangePomodoroDuration(phaseFields[timer.Phase], 1)
		case key.Matches(msg, keys.Shorter):
			s.ChangePomodoroDuration(phaseFields[timer.Phase], -1)
		}

	case domain.WidgetTodo:
		todos := m.state.Todos
		move(len(todos))
		switch {
		case key.Matches(msg, keys.New):
			return m.openPrompt(promptTodo, "New priority (prefix ! for high)", "")
		case len(todos) == 0:
		case key.Matches(msg, keys.Check):
			s.ToggleTodo(todos[clampCursor(cur, len(todos))].ID)
		case key.Matches(msg, keys.Delete):
			s.DeleteTodo(todos[clampCursor(cur, len(todos))].ID)
		}

	case domain.WidgetTimeBlock:
		blocks := todayBlocks(m.state.TimeBlocks, m.now())
		move(len(blocks))
		switch {
		case key.Matches(msg, keys.New):
			return m.openPrompt(promptBlock, "HH:MM-HH:MM title", "")
		case len(blocks) == 0:
		case key.Matches(msg, keys.Delete):
			s.DeleteTimeBlock(blocks[clampCursor(cur, len(blocks))].ID)
		}

	case domain.WidgetHabits:
		habits := m.state.Habits
		today := domain.FormatDate(m.now())
		move(len(habits))
		switch {
		case key.Matches(msg, keys.New):
			return m.openPrompt(promptHabit, "Habit name (name:8 glasses for a counted habit)", "")
		case len(habits) == 0:
		case key.Matches(msg, keys.Check):
			s.ToggleHabitDay(habits[clampCursor(cur, len(habits))].ID, today)
		case key.Matches(msg, keys.Longer):
			s.IncrementHabitCount(habits[clampCursor(cur, len(habits))].ID, today)
		case key.Matches(msg, keys.Shorter):
			s.DecrementHabitCount(habits[clampCursor(cur, len(habits))].ID, today)
		case key.Matches(msg, keys.Delete):
			s.DeleteHabit(habits[clampCursor(cur, len(habits))].ID)
		}

	case domain.WidgetNotes:
		notes := m.state.Notes
		active, hasActive := m.state.ActiveNote()
		switch {
		case key.Matches(msg, keys.New):
			return m.openPrompt(promptNote, "Note title", "")
		case !hasActive:
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			for i, n := range notes {
				if n.ID != active.ID {
					continue
				}
				j := i + 1
				if key.Matches(msg, keys.Up) {
					j = i - 1
				}
				if j >= 0 && j < len(notes) {
					s.SetActiveNote(notes[j].ID)
				}
				break
			}
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			return m.openEditor(active)
		case key.Matches(msg, keys.Delete):
			s.DeleteNote(active.ID)
		}
	}
	m.refresh()
	return m, nil
}

func (m Model) openPrompt(kind promptKind, placeholder, value string) (tea.Model, tea.Cmd) {
	m.promptKind = kind
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue(value)
	m.prompt.Focus()
	return m, textinput.Blink
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.promptKind = promptNone
		m.prompt.Blur()
		return m, nil
	case key.Matches(msg, keys.Enter):
		if err := m.submitPrompt(strings.TrimSpace(m.prompt.Value())); err != nil {
			m.status = err.Error()
		}
		m.promptKind = promptNone
		m.prompt.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt(value string) error {
	s := m.deps.Store
	if value == "" {
		return nil
	}
	switch m.promptKind {
	case promptTodo:
		priority := domain.PriorityMedium
		if strings.HasPrefix(value, "!") {
			priority = domain.PriorityHigh
			value = strings.TrimPrefix(value, "!")
		}
		_, err := s.AddTodo(value, priority)
		return err
	case promptTask:
		title, tags := domain.ParseTagsFromInput(value)
		status := domain.StatusTodo
		if m.view == viewBoard {
			status = domain.TaskStatuses[m.boardCol]
		}
		_, err := s.AddTask(domain.TaskInput{Title: title, Tags: tags, Status: status, Priority: domain.PriorityMedium})
		return err
	case promptHabit:
		in, err := parseHabitPrompt(value)
		if err != nil {
			return err
		}
		_, err = s.AddHabit(in)
		return err
	case promptNote:
		s.AddNote(value)
	case promptBlock:
		in, err := parseBlockPrompt(m.now(), value)
		if err != nil {
			return err
		}
		_, err = s.AddTimeBlock(in)
		return err
	}
	return nil
}

var errBlockFormat = errors.New("use HH:MM-HH:MM title")

// parseBlockPrompt reads "09:00-10:30 Deep work" into a block on the day
// of now.
func parseBlockPrompt(now time.Time, value string) (domain.TimeBlockInput, error) {
	span, title, ok := strings.Cut(value, " ")
	if !ok {
		return domain.TimeBlockInput{}, errBlockFormat
	}
	from, to, ok := strings.Cut(span, "-")
	if !ok {
		return domain.TimeBlockInput{}, errBlockFormat
	}
	day := domain.FormatDate(now)
	start, err := time.ParseInLocation("2006-01-02 15:04", day+" "+from, now.Location())
	if err != nil {
		return domain.TimeBlockInput{}, errBlockFormat
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", day+" "+to, now.Location())
	if err != nil || end.Before(start) {
		return domain.TimeBlockInput{}, errBlockFormat
	}
	return domain.TimeBlockInput{Title: title, Start: start, End: end, Color: domain.ColorSky}, nil
}

// parseHabitPrompt reads "Read" as a binary habit and "Water:8 glasses"
// as a counted one.
func parseHabitPrompt(value string) (domain.HabitInput, error) {
	name, rest, counted := strings.Cut(value, ":")
	if !counted {
		return domain.HabitInput{Name: value, Type: domain.HabitBinary}, nil
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return domain.HabitInput{}, fmt.Errorf("missing target after ':'")
	}
	target, err := strconv.Atoi(fields[0])
	if err != nil || target < 1 {
		return domain.HabitInput{}, fmt.Errorf("invalid target %q", fields[0])
	}
	return domain.HabitInput{
		Name:   strings.TrimSpace(name),
		Type:   domain.HabitCount,
		Target: target,
		Unit:   strings.Join(fields[1:], " "),
	}, nil
}

func (m Model) openEditor(note domain.Note) (tea.Model, tea.Cmd) {
	m.editingNote = note.ID
	m.editor.SetValue(domain.HTMLToText(note.Content))
	m.editor.Focus()
	return m, textarea.Blink
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Back) {
		m.noteSave.Flush()
		m.editingNote = ""
		m.editor.Blur()
		m.refresh()
		return m, nil
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.saveNote(m.editingNote, after)
	}
	return m, cmd
}

// saveNote schedules a write of the edited text. Only the last edit of a
// burst reaches the store.
func (m Model) saveNote(id, text string) {
	s := m.deps.Store
	m.noteSave.Trigger(func() {
		content := domain.TextToHTML(text)
		s.UpdateNote(id, domain.NotePatch{Content: &content})
	})
}

func (m Model) toggleSurface() (tea.Model, tea.Cmd) {
	mgr := m.deps.Surface
	if mgr == nil || mgr.Capability() != domain.Available {
		m.status = "Detached timer unavailable: set surface.tty in the config."
		return m, nil
	}
	if m.surfaceOpen {
		mgr.Close()
		m.surfaceOpen = false
		return m, nil
	}
	m.surfaceOpen = true
	ctx, size := m.ctx, m.deps.SurfaceSize
	return m, func() tea.Msg {
		h, err := mgr.Open(ctx, size)
		if err != nil || h == nil {
			return surfaceClosedMsg{}
		}
		<-h.Done()
		return surfaceClosedMsg{}
	}
}

// columnWidths splits the terminal width between the columns, weighted by
// the widest widget each column holds.
func (m Model) columnWidths() []int {
	weights := make([]int, domain.ColumnCount)
	total := 0
	for c := range weights {
		weights[c] = 1
		for _, w := range m.state.WidgetsByColumn(c, m.state.IsCustomizing) {
			weights[c] = max(weights[c], w.Width)
		}
		total += weights[c]
	}
	out := make([]int, domain.ColumnCount)
	for c, wt := range weights {
		out[c] = m.width * wt / total
	}
	return out
}

func (m Model) renderWidget(w domain.Widget, width int) string {
	s := m.styles()
	focused := w.ID == m.focus
	inner := max(width-4, 10)
	rows := widgetRows(w)

	title := s.title.Render(w.Title)
	if m.state.IsCustomizing {
		meta := fmt.Sprintf(" w%d h%d", w.Width, w.Height)
		if !w.Visible {
			meta += " hidden"
		}
		title += s.muted.Render(meta)
	}

	var body string
	switch w.Type {
	case domain.WidgetPomodoro:
		body = m.timer.render(m.state, inner)
		if m.surfaceOpen {
			body += "\n" + s.muted.Render("detached")
		}
	case domain.WidgetTodo:
		body = renderTodos(s, m.state.Todos, m.cursor[w.ID], inner, focused)
	case domain.WidgetTimeBlock:
		body = renderTimeBlocks(s, todayBlocks(m.state.TimeBlocks, m.now()), m.now(), m.cursor[w.ID], inner, focused)
	case domain.WidgetHabits:
		body = renderHabits(s, m.state.Habits, m.now(), m.cursor[w.ID], inner, focused)
	case domain.WidgetNotes:
		activeID := ""
		if n, ok := m.state.ActiveNote(); ok {
			activeID = n.ID
		}
		if m.editingNote != "" {
			body = m.editor.View()
		} else {
			body = renderNotes(s, m.state.Notes, activeID, m.now(), inner, rows-1, focused)
		}
	case domain.WidgetLofi:
		var streams []domain.Stream
		if m.deps.Lofi != nil {
			streams = m.deps.Lofi.GetAllStreams()
		}
		body = renderLofi(s, streams, m.lofi, m.ambient, m.deps.Lofi != nil && m.deps.LofiAvailable, inner)
	}

	panel := s.panel
	if focused {
		panel = s.active
	}
	if !w.Visible {
		panel = panel.Faint(true)
	}
	return panel.Width(width - 2).Height(rows).MaxHeight(rows + 2).Render(title + "\n" + body)
}

func (m Model) viewDashboard() string {
	s := m.styles()
	widths := m.columnWidths()
	cols := make([]string, domain.ColumnCount)
	for c := range cols {
		var tiles []string
		for _, w := range m.state.WidgetsByColumn(c, m.state.IsCustomizing) {
			tiles = append(tiles, m.renderWidget(w, widths[c]))
		}
		if m.state.IsCustomizing {
			tiles = append(tiles, s.muted.Width(widths[c]-2).Align(lipgloss.Center).Render("┄ drop here ┄"))
		}
		if len(tiles) == 0 {
			tiles = append(tiles, "")
		}
		cols[c] = lipgloss.NewStyle().Width(widths[c]).Render(lipgloss.JoinVertical(lipgloss.Left, tiles...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) header() string {
	s := m.styles()
	left := s.title.Render("dailo")
	if m.state.IsCustomizing {
		left += s.muted.Render("  customizing · K/J/H/L move · v hide · w width · +/- height · R reset · esc done")
	}
	if m.view == viewBoard {
		left += s.muted.Render("  task board · h/l column · H/L move · K/J reorder · enter focus · esc back")
	}
	return left
}

func (m Model) footer() string {
	s := m.styles()
	if m.promptKind != promptNone {
		return m.prompt.View()
	}
	if m.status != "" {
		return s.errorMsg.Render(m.status)
	}
	if m.editingNote != "" {
		return s.muted.Render("esc to finish editing")
	}
	if m.showHelp {
		return m.help.FullHelpView(keys.FullHelp())
	}
	return m.help.ShortHelpView(keys.ShortHelp())
}

// View renders the dashboard.
func (m Model) View() string {
	body := m.viewDashboard()
	if m.view == viewBoard {
		body = m.viewBoard()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}
