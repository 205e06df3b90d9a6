package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func TestStore_SubscribeNotifiesInCommitOrder(t *testing.T) {
	s, _ := newTestStore(t)

	var themes []domain.Theme
	unsubscribe := s.Subscribe(func(st domain.State) { themes = append(themes, st.Theme) })

	s.ToggleTheme()
	s.ToggleTheme()
	unsubscribe()
	s.ToggleTheme()

	assert.Equal(t, []domain.Theme{domain.ThemeLight, domain.ThemeDark}, themes)
}

func TestStore_ListenerMayMutate(t *testing.T) {
	s, _ := newTestStore(t)

	var seen []bool
	s.Subscribe(func(st domain.State) {
		seen = append(seen, st.IsCustomizing)
		if st.IsCustomizing {
			s.SetCustomizing(false)
		}
	})
	s.SetCustomizing(true)

	assert.Equal(t, []bool{true, false}, seen)
	assert.False(t, s.GetState().IsCustomizing)
}

func TestStore_NoopMutationsDoNotNotify(t *testing.T) {
	s, _ := newTestStore(t)
	calls := 0
	s.Subscribe(func(domain.State) { calls++ })

	assert.False(t, s.ToggleTodo("missing"))
	assert.False(t, s.DeleteTask("missing"))
	assert.False(t, s.UpdateNote("missing", domain.NotePatch{}))
	assert.False(t, s.MoveWidget("notes", "notes"))
	assert.False(t, s.TickPomodoroTimer()) // paused
	assert.Equal(t, 0, calls)
}

func TestStore_GetStateIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	st := s.GetState()
	st.Widgets[0].Title = "changed"
	assert.NotEqual(t, "changed", s.GetState().Widgets[0].Title)
}

func TestStore_WidgetMutations(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.UpdateWidgetHeight("notes", 5000))
	require.True(t, s.UpdateWidgetWidth("notes", 9))
	require.True(t, s.ToggleWidgetVisibility("lofi"))

	st := s.GetState()
	for _, w := range st.Widgets {
		switch w.ID {
		case "notes":
			assert.Equal(t, domain.MaxWidgetHeight, w.Height)
			assert.Equal(t, 3, w.Width)
		case "lofi":
			assert.False(t, w.Visible)
		}
	}

	s.UpdateWidgetHeight("notes", 10)
	for _, w := range s.GetState().Widgets {
		if w.ID == "notes" {
			assert.Equal(t, domain.MinWidgetHeight, w.Height)
		}
	}
}

func TestStore_MoveWidgetUsesCustomizeFlag(t *testing.T) {
	s, _ := newTestStore(t)
	s.ToggleWidgetVisibility("habits")
	s.SetCustomizing(true)

	require.True(t, s.MoveWidget("todo", layout.ColumnTarget(2)))
	for _, w := range s.GetState().Widgets {
		if w.ID == "todo" {
			assert.Equal(t, 2, w.Column)
			assert.Equal(t, 2, w.Order)
		}
	}
}

func TestStore_UpdateWidgetPositionKeepsColumnsContiguous(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.UpdateWidgetPosition("pomodoro", 2, 0))

	orders := map[int][]int{}
	for _, w := range s.GetState().Widgets {
		orders[w.Column] = append(orders[w.Column], w.Order)
	}
	assert.ElementsMatch(t, []int{0}, orders[0])
	assert.ElementsMatch(t, []int{0, 1, 2}, orders[2])
	assert.False(t, s.UpdateWidgetPosition("pomodoro", 7, 0))
}

func TestStore_AddTaskOrder(t *testing.T) {
	s, _ := newTestStore(t)

	a, err := s.AddTask(domain.TaskInput{Title: "a"})
	require.NoError(t, err)
	b, _ := s.AddTask(domain.TaskInput{Title: "b"})
	c, _ := s.AddTask(domain.TaskInput{Title: "c", Status: domain.StatusDone})

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 0, c.Order)

	_, err = s.AddTask(domain.TaskInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestStore_UpdateTaskStampsUpdatedAt(t *testing.T) {
	s, clock := newTestStore(t)
	task, _ := s.AddTask(domain.TaskInput{Title: "write"})

	clock.Advance(time.Hour)
	title := "rewrite"
	require.True(t, s.UpdateTask(task.ID, domain.TaskPatch{Title: &title}))

	got, ok := s.GetState().TaskByID(task.ID)
	require.True(t, ok)
	assert.Equal(t, "rewrite", got.Title)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
}

func TestStore_UpdateTaskStatusAppendsToNewStatus(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.AddTask(domain.TaskInput{Title: "a"})
	b, _ := s.AddTask(domain.TaskInput{Title: "b"})
	s.AddTask(domain.TaskInput{Title: "c", Status: domain.StatusDone})

	done := domain.StatusDone
	s.UpdateTask(a.ID, domain.TaskPatch{Status: &done})

	st := s.GetState()
	got, _ := st.TaskByID(a.ID)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, 1, got.Order)
	left, _ := st.TaskByID(b.ID)
	assert.Equal(t, 0, left.Order)
}

func TestStore_DeleteTaskClosesGapAndClearsActive(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.AddTask(domain.TaskInput{Title: "a"})
	b, _ := s.AddTask(domain.TaskInput{Title: "b"})
	s.SetActiveTask(a.ID)

	require.True(t, s.DeleteTask(a.ID))
	st := s.GetState()
	assert.Nil(t, st.ActiveTaskID)
	got, _ := st.TaskByID(b.ID)
	assert.Equal(t, 0, got.Order)

	active, ok := s.ActiveTask()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
}

func TestStore_ActiveTaskDanglingFallsBack(t *testing.T) {
	s, _ := newTestStore(t)
	_, ok := s.ActiveTask()
	assert.False(t, ok)

	a, _ := s.AddTask(domain.TaskInput{Title: "a"})
	s.SetActiveTask("gone")
	got, ok := s.ActiveTask()
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)
}

func TestStore_MoveTask(t *testing.T) {
	s, clock := newTestStore(t)
	a, _ := s.AddTask(domain.TaskInput{Title: "a"})
	s.AddTask(domain.TaskInput{Title: "b"})

	clock.Advance(time.Minute)
	require.True(t, s.MoveTask(a.ID, layout.StatusTarget(domain.StatusWorking)))
	got, _ := s.GetState().TaskByID(a.ID)
	assert.Equal(t, domain.StatusWorking, got.Status)
	assert.Equal(t, 0, got.Order)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestStore_Notes(t *testing.T) {
	s, clock := newTestStore(t)

	first := s.AddNote("")
	assert.Equal(t, domain.DefaultNoteTitle, first.Title)
	second := s.AddNote("Second")

	st := s.GetState()
	require.Len(t, st.Notes, 2)
	assert.Equal(t, second.ID, st.Notes[0].ID, "newest first")
	assert.Equal(t, second.ID, *st.ActiveNoteID)

	clock.Advance(time.Minute)
	body := "<p>hi</p>"
	require.True(t, s.UpdateNote(first.ID, domain.NotePatch{Content: &body}))
	n, _ := s.GetState().NoteByID(first.ID)
	assert.Equal(t, body, n.Content)
	assert.True(t, n.UpdatedAt.After(n.CreatedAt))

	require.True(t, s.DeleteNote(second.ID))
	assert.Equal(t, first.ID, *s.GetState().ActiveNoteID)

	require.True(t, s.DeleteNote(first.ID))
	assert.Nil(t, s.GetState().ActiveNoteID)
	_, ok := s.ActiveNote()
	assert.False(t, ok)
}

func TestStore_DeleteInactiveNoteKeepsSelection(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddNote("a")
	b := s.AddNote("b")
	s.SetActiveNote(a.ID)

	s.DeleteNote(b.ID)
	assert.Equal(t, a.ID, *s.GetState().ActiveNoteID)
}

func TestStore_Habits(t *testing.T) {
	s, _ := newTestStore(t)
	h, err := s.AddHabit(domain.HabitInput{Name: "Water", Type: domain.HabitCount, Target: 2})
	require.NoError(t, err)

	day := "2024-06-01"
	s.IncrementHabitCount(h.ID, day)
	s.IncrementHabitCount(h.ID, day)
	s.DecrementHabitCount(h.ID, day)
	s.DecrementHabitCount(h.ID, day)
	s.DecrementHabitCount(h.ID, day)

	got := s.GetState().Habits[0]
	assert.Equal(t, 0, got.Count(day))
	assert.Len(t, got.DayData, 1)

	assert.False(t, s.ToggleHabitDay(h.ID, "June 1st"))
	assert.True(t, s.ToggleHabitDay(h.ID, day))

	target := 5
	s.UpdateHabit(h.ID, domain.HabitPatch{Target: &target})
	assert.Equal(t, 5, s.GetState().Habits[0].Target)

	assert.True(t, s.DeleteHabit(h.ID))
	assert.Empty(t, s.GetState().Habits)
}

func TestStore_TodosAndTimeBlocks(t *testing.T) {
	s, _ := newTestStore(t)

	todo, err := s.AddTodo("ship it", domain.PriorityHigh)
	require.NoError(t, err)
	require.True(t, s.ToggleTodo(todo.ID))
	assert.True(t, s.GetState().Todos[0].Completed)
	require.True(t, s.DeleteTodo(todo.ID))

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	block, err := s.AddTimeBlock(domain.TimeBlockInput{Title: "standup", Start: start, End: start.Add(15 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T09:00:00", block.Start)
	assert.Equal(t, domain.ColorSky, block.Color)

	rose := domain.ColorRose
	require.True(t, s.UpdateTimeBlock(block.ID, domain.TimeBlockPatch{Color: &rose}))
	assert.Equal(t, domain.ColorRose, s.GetState().TimeBlocks[0].Color)
	require.True(t, s.DeleteTimeBlock(block.ID))
	assert.Empty(t, s.GetState().TimeBlocks)
}

func TestStore_PomodoroFlow(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.StartPomodoro())
	assert.False(t, s.StartPomodoro(), "already running")
	require.True(t, s.TickPomodoroTimer())
	assert.Equal(t, 25*60-1, s.GetState().PomodoroTimer.TimeLeft)

	assert.False(t, s.SelectPomodoroPhase(domain.PhaseShortBreak), "running timers cannot switch phase")

	s.UpdatePomodoroTimer(domain.TimerPatch{TimeLeft: intPtr(0)})
	ended := s.CompletePomodoroPhase()
	assert.Equal(t, domain.PhaseFocus, ended)

	timer := s.GetState().PomodoroTimer
	assert.Equal(t, domain.PhaseShortBreak, timer.Phase)
	assert.Equal(t, 1, timer.SessionsCompleted)
	assert.False(t, timer.IsRunning)

	s.ChangePomodoroDuration(domain.FieldShortBreak, 2)
	assert.Equal(t, 7*60, s.GetState().PomodoroTimer.TimeLeft)

	s.ResetPomodoroTimer()
	assert.Equal(t, domain.NewTimerState(s.GetState().PomodoroSettings), s.GetState().PomodoroTimer)
}

func TestStore_TogglePomodoro(t *testing.T) {
	s, _ := newTestStore(t)
	assert.True(t, s.TogglePomodoro())
	assert.False(t, s.TogglePomodoro())
	assert.False(t, s.GetState().PomodoroTimer.IsRunning)
}

func TestStore_UpdatePomodoroSettingsFollowsPausedPhase(t *testing.T) {
	s, _ := newTestStore(t)
	s.UpdatePomodoroSettings(domain.SettingsPatch{FocusDuration: intPtr(50), SessionsUntilLongBreak: intPtr(0)})

	st := s.GetState()
	assert.Equal(t, 50*60, st.PomodoroTimer.TimeLeft)
	assert.Equal(t, 1, st.PomodoroSettings.SessionsUntilLongBreak)
}

func TestStore_CustomStreamsAndPlayback(t *testing.T) {
	s, _ := newTestStore(t)
	cs, err := s.AddCustomStream("Jazz", "https://www.youtube.com/watch?v=abc123&t=5", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", cs.VideoID)
	assert.Len(t, s.GetState().AllStreams(), len(domain.BuiltinStreams)+1)

	s.SetAmbientSettings(domain.AmbientSettings{Volumes: map[string]int{"rain": 150}, Enabled: map[string]bool{"rain": true}})
	pb := s.GetState().Playback
	assert.Equal(t, 100, pb.Ambient.Volumes["rain"])
	assert.True(t, pb.Ambient.Enabled["rain"])
	assert.Equal(t, domain.DefaultAmbientVolume, pb.Ambient.Volumes["forest"])

	s.SetLofiSettings(domain.LofiSettings{Volume: 70, StreamIndex: 2})
	assert.Equal(t, domain.LofiSettings{Volume: 70, StreamIndex: 2}, s.GetState().Playback.Lofi)

	require.True(t, s.DeleteCustomStream(cs.ID))
	assert.Len(t, s.GetState().AllStreams(), len(domain.BuiltinStreams))
}

func TestStore_Theme(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, domain.ThemeDark, s.GetState().Theme)
	s.SetTheme(domain.ThemeLight)
	assert.Equal(t, domain.ThemeLight, s.GetState().Theme)
	s.SetTheme("solarized")
	assert.Equal(t, domain.ThemeDark, s.GetState().Theme)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s, _ := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddTask(domain.TaskInput{Title: "parallel"})
		}()
	}
	wg.Wait()

	orders := map[int]bool{}
	for _, task := range s.GetState().Tasks {
		orders[task.Order] = true
	}
	assert.Len(t, orders, 20)
}

func intPtr(v int) *int { return &v }
