package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/playback"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
	"github.com/xvierd/dailo/internal/surface"
)

var testNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.Local)

type storeTimer struct{ s *store.Store }

func (t storeTimer) ToggleTimer(context.Context) bool { return t.s.TogglePomodoro() }

type fakeLofi struct {
	state   playback.StreamState
	toggles int
	tracks  []int
}

func (f *fakeLofi) GetState() playback.StreamState { return f.state }
func (f *fakeLofi) GetAllStreams() []domain.Stream { return domain.BuiltinStreams }
func (f *fakeLofi) Toggle()                        { f.toggles++ }
func (f *fakeLofi) SetVolume(v int)                { f.state.Volume = domain.ClampVolume(v) }
func (f *fakeLofi) ToggleMute()                    { f.state.IsMuted = !f.state.IsMuted }
func (f *fakeLofi) SwitchTrack(d int)              { f.tracks = append(f.tracks, d) }
func (f *fakeLofi) Subscribe(func(playback.StreamState)) func() {
	return func() {}
}

type fakeAmbience struct{ toggled []string }

func (f *fakeAmbience) GetState() playback.AmbientState { return playback.AmbientState{} }
func (f *fakeAmbience) Toggle(id string)                { f.toggled = append(f.toggled, id) }
func (f *fakeAmbience) SetVolume(string, int)           {}
func (f *fakeAmbience) Subscribe(func(playback.AmbientState)) func() {
	return func() {}
}

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return testNow }))
	m := NewModel(context.Background(), Deps{
		Store:         s,
		Timer:         storeTimer{s},
		Now:           func() time.Time { return testNow },
		NoteSaveDelay: time.Hour,
	})
	return m, s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func focusOn(t *testing.T, m Model, id string) Model {
	t.Helper()
	for i := 0; i < len(m.state.Widgets); i++ {
		if m.focus == id {
			return m
		}
		m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	t.Fatalf("widget %q never took focus", id)
	return m
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{1500, "25:00"},
		{300, "05:00"},
		{90, "01:30"},
		{0, "00:00"},
		{-4, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatClock(tt.seconds); got != tt.want {
				t.Errorf("formatClock(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestRenderBigTime(t *testing.T) {
	narrow := renderBigTime("12:34", lipgloss.Color("#ffffff"), 10)
	if strings.Count(narrow, "\n") != 0 {
		t.Errorf("narrow clock should be one line, got %q", narrow)
	}
	if !strings.Contains(narrow, "12:34") {
		t.Errorf("narrow clock = %q, want the plain time", narrow)
	}

	wide := renderBigTime("12:34", lipgloss.Color("#ffffff"), 80)
	if got := len(strings.Split(wide, "\n")); got != glyphRows {
		t.Errorf("wide clock rows = %d, want %d", got, glyphRows)
	}
}

func TestResolveTheme(t *testing.T) {
	if got := resolveTheme(nil); got != config.DefaultThemeConfig() {
		t.Errorf("resolveTheme(nil) = %+v, want defaults", got)
	}
	got := resolveTheme(&config.ThemeConfig{ColorFocus: "#000000"})
	if got.ColorFocus != "#000000" {
		t.Errorf("ColorFocus = %v, want the configured value", got.ColorFocus)
	}
	if got.ColorBreak != config.DefaultThemeConfig().ColorBreak {
		t.Errorf("ColorBreak = %v, want the default", got.ColorBreak)
	}
}

func TestParseBlockPrompt(t *testing.T) {
	in, err := parseBlockPrompt(testNow, "09:00-10:30 Deep work")
	if err != nil {
		t.Fatalf("parseBlockPrompt() error = %v", err)
	}
	if in.Title != "Deep work" {
		t.Errorf("Title = %q, want %q", in.Title, "Deep work")
	}
	if in.End.Sub(in.Start) != 90*time.Minute {
		t.Errorf("span = %v, want 1h30m", in.End.Sub(in.Start))
	}

	for _, bad := range []string{"Deep work", "9-10 x", "10:00-09:00 backwards", "09:00-10:00"} {
		if _, err := parseBlockPrompt(testNow, bad); err == nil {
			t.Errorf("parseBlockPrompt(%q) should fail", bad)
		}
	}
}

func TestParseHabitPrompt(t *testing.T) {
	in, err := parseHabitPrompt("Read")
	if err != nil || in.Type != domain.HabitBinary || in.Name != "Read" {
		t.Errorf("parseHabitPrompt(Read) = %+v, %v", in, err)
	}

	in, err = parseHabitPrompt("Water: 8 glasses")
	if err != nil {
		t.Fatalf("parseHabitPrompt() error = %v", err)
	}
	if in.Type != domain.HabitCount || in.Target != 8 || in.Unit != "glasses" || in.Name != "Water" {
		t.Errorf("parseHabitPrompt(Water) = %+v", in)
	}

	if _, err := parseHabitPrompt("Water: lots"); err == nil {
		t.Error("parseHabitPrompt() should reject a non-numeric target")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, tea.WindowSizeMsg{Width: 150, Height: 50})

	view := m.View()
	for _, want := range []string{"Pomodoro Timer", "Top Priorities", "Time Blocking", "Quick Notes", "Habit Tracker", "Lofi Player"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_SpaceTogglesTimer(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !s.GetState().PomodoroTimer.IsRunning {
		t.Error("space should start the timer")
	}
	if !m.state.PomodoroTimer.IsRunning {
		t.Error("model should see the running timer")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if s.GetState().PomodoroTimer.IsRunning {
		t.Error("second space should pause the timer")
	}
}

func TestModel_PomodoroKeys(t *testing.T) {
	m, s := newTestModel(t)
	m = focusOn(t, m, "pomodoro")

	m = press(t, m, runes("+"))
	if got := s.GetState().PomodoroSettings.FocusDuration; got != 26 {
		t.Errorf("FocusDuration = %d, want 26", got)
	}

	press(t, m, runes("f"))
	if got := s.GetState().PomodoroTimer.Phase; got != domain.PhaseShortBreak {
		t.Errorf("Phase = %v, want %v", got, domain.PhaseShortBreak)
	}
}

func TestModel_TodoFlow(t *testing.T) {
	m, s := newTestModel(t)
	m = focusOn(t, m, "todo")

	m = press(t, m, runes("n"), runes("!Ship it"), tea.KeyMsg{Type: tea.KeyEnter})
	todos := s.GetState().Todos
	if len(todos) != 1 {
		t.Fatalf("len(Todos) = %d, want 1", len(todos))
	}
	if todos[0].Text != "Ship it" || todos[0].Priority != domain.PriorityHigh {
		t.Errorf("todo = %+v, want high priority %q", todos[0], "Ship it")
	}

	m = press(t, m, runes("x"))
	if !s.GetState().Todos[0].Completed {
		t.Error("x should complete the todo")
	}

	press(t, m, runes("d"))
	if len(s.GetState().Todos) != 0 {
		t.Error("d should delete the todo")
	}
}

func TestModel_PromptEscapeCancels(t *testing.T) {
	m, s := newTestModel(t)
	m = focusOn(t, m, "todo")

	m = press(t, m, runes("n"), runes("never mind"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.promptKind != promptNone {
		t.Error("esc should close the prompt")
	}
	if len(s.GetState().Todos) != 0 {
		t.Error("cancelled prompt should not add a todo")
	}
}

func TestModel_HabitAndTimeBlockPrompts(t *testing.T) {
	m, s := newTestModel(t)

	m = focusOn(t, m, "habits")
	m = press(t, m, runes("n"), runes("Read"), tea.KeyMsg{Type: tea.KeyEnter}, runes("x"))
	habits := s.GetState().Habits
	if len(habits) != 1 || !habits[0].IsCompleted(domain.FormatDate(testNow)) {
		t.Fatalf("habit not added and checked: %+v", habits)
	}

	m = focusOn(t, m, "timeblock")
	press(t, m, runes("n"), runes("10:00-11:00 Review"), tea.KeyMsg{Type: tea.KeyEnter})
	blocks := todayBlocks(s.GetState().TimeBlocks, testNow)
	if len(blocks) != 1 || blocks[0].Title != "Review" {
		t.Errorf("todayBlocks() = %+v, want the Review block", blocks)
	}
}

func TestModel_CustomizeMovesWidgets(t *testing.T) {
	m, s := newTestModel(t)
	m = focusOn(t, m, "pomodoro")

	m = press(t, m, runes("c"))
	if !s.GetState().IsCustomizing {
		t.Fatal("c should enter customize mode")
	}

	m = press(t, m, runes("L"))
	w := widgetByID(s.GetState(), "pomodoro")
	if w.Column != 1 {
		t.Errorf("pomodoro column = %d, want 1", w.Column)
	}
	if m.focus != "pomodoro" {
		t.Errorf("focus = %q, want it to follow the moved widget", m.focus)
	}

	m = press(t, m, runes("K"))
	if got := widgetByID(s.GetState(), "pomodoro").Order; got != 1 {
		t.Errorf("pomodoro order = %d after moving up, want 1", got)
	}

	m = press(t, m, runes("v"))
	if widgetByID(s.GetState(), "pomodoro").Visible {
		t.Error("v should hide the widget")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if s.GetState().IsCustomizing {
		t.Error("esc should leave customize mode")
	}
}

func widgetByID(st domain.State, id string) domain.Widget {
	for _, w := range st.Widgets {
		if w.ID == id {
			return w
		}
	}
	return domain.Widget{}
}

func TestModel_BoardMovesTasks(t *testing.T) {
	m, s := newTestModel(t)
	first, _ := s.AddTask(domain.TaskInput{Title: "first"})
	second, _ := s.AddTask(domain.TaskInput{Title: "second"})
	m = press(t, m, runes("b"))
	if m.view != viewBoard {
		t.Fatal("b should open the task board")
	}

	m = press(t, m, runes("L"))
	got, _ := s.GetState().TaskByID(first.ID)
	if got.Status != domain.StatusWorking {
		t.Errorf("first status = %v, want %v", got.Status, domain.StatusWorking)
	}
	if m.boardCol != 1 {
		t.Errorf("boardCol = %d, want the cursor to follow the task", m.boardCol)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if active, _ := s.ActiveTask(); active.ID != first.ID {
		t.Errorf("active task = %q, want %q", active.ID, first.ID)
	}

	m = press(t, m, runes("h"), runes("x"))
	got, _ = s.GetState().TaskByID(second.ID)
	if got.Status != domain.StatusDone {
		t.Errorf("second status = %v, want %v", got.Status, domain.StatusDone)
	}

	m = press(t, m, runes("n"), runes("third #cli"), tea.KeyMsg{Type: tea.KeyEnter})
	todo := s.GetState().TasksByStatus(domain.StatusTodo)
	if len(todo) != 1 || todo[0].Title != "third" || len(todo[0].Tags) != 1 {
		t.Errorf("todo column = %+v, want the tagged task", todo)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewDashboard {
		t.Error("esc should close the board")
	}
}

func TestModel_NoteEditsSaveOnFinish(t *testing.T) {
	m, s := newTestModel(t)
	m = focusOn(t, m, "notes")

	m = press(t, m, runes("n"), runes("Ideas"), tea.KeyMsg{Type: tea.KeyEnter})
	note, ok := s.ActiveNote()
	if !ok || note.Title != "Ideas" {
		t.Fatalf("ActiveNote() = %+v, %v", note, ok)
	}

	m = press(t, m, runes("e"), runes("hello"))
	if got, _ := s.ActiveNote(); got.Content != "" {
		t.Errorf("content saved before the quiet period: %q", got.Content)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got, _ := s.ActiveNote(); got.Content != "<p>hello</p>" {
		t.Errorf("content = %q, want %q", got.Content, "<p>hello</p>")
	}
}

func TestModel_QuitFlushesNoteEdits(t *testing.T) {
	m, s := newTestModel(t)
	s.AddNote("Draft")
	m = press(t, m, storeMsg{s.GetState()})
	m = focusOn(t, m, "notes")

	m = press(t, m, runes("e"), runes("unsaved"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
	if got, _ := s.ActiveNote(); got.Content != "<p>unsaved</p>" {
		t.Errorf("content = %q, want the pending edit flushed", got.Content)
	}
}

func TestModel_SurfaceUnavailable(t *testing.T) {
	m, _ := newTestModel(t)
	m.deps.Surface = surface.New(nil, nil, nil, nil)

	m = press(t, m, runes("o"))
	if m.surfaceOpen {
		t.Error("surface should not open without a host")
	}
	if !strings.Contains(m.status, "unavailable") {
		t.Errorf("status = %q, want an unavailable message", m.status)
	}
}

func TestModel_PlaybackKeys(t *testing.T) {
	m, _ := newTestModel(t)
	lofi := &fakeLofi{state: playback.StreamState{Volume: 50}}
	ambient := &fakeAmbience{}
	m.deps.Lofi = lofi
	m.deps.Ambient = ambient

	press(t, m, runes("p"), runes("]"), runes("["), runes(">"), runes("m"), runes("2"))
	if lofi.toggles != 1 {
		t.Errorf("toggles = %d, want 1", lofi.toggles)
	}
	if len(lofi.tracks) != 2 || lofi.tracks[0] != 1 || lofi.tracks[1] != -1 {
		t.Errorf("tracks = %v, want [1 -1]", lofi.tracks)
	}
	if lofi.state.Volume != 60 || !lofi.state.IsMuted {
		t.Errorf("lofi state = %+v, want volume 60 muted", lofi.state)
	}
	if len(ambient.toggled) != 1 || ambient.toggled[0] != "forest" {
		t.Errorf("ambient toggled = %v, want [forest]", ambient.toggled)
	}
}

func TestTimerSurface(t *testing.T) {
	st := domain.DefaultState()
	factory := NewTimerSurface(config.DefaultThemeConfig())
	model := factory(domain.ThemeLight, st, ports.Size{Width: 20, Height: 10})

	next, _ := model.Update(surface.StateMsg{State: func() domain.State {
		st.PomodoroTimer.TimeLeft = 90
		st.PomodoroTimer.IsRunning = true
		return st
	}()})
	view := next.View()
	if !strings.Contains(view, "01:30") {
		t.Errorf("surface view should mirror the store clock, got %q", view)
	}
	if !strings.Contains(view, "running") {
		t.Errorf("surface view should show the running state, got %q", view)
	}

	_, cmd := next.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should close the surface")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
