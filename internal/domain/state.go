package domain

import "sort"

// Theme is the color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle flips between dark and light.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// IsDark reports whether t is the dark scheme.
func (t Theme) IsDark() bool {
	return t != ThemeLight
}

// PersistedState is the durable projection of the application state.
type PersistedState struct {
	Widgets          []Widget         `json:"widgets"`
	Todos            []Todo           `json:"todos"`
	Tasks            []Task           `json:"tasks"`
	ActiveTaskID     *string          `json:"activeTaskId"`
	TimeBlocks       []TimeBlock      `json:"timeBlocks"`
	Habits           []Habit          `json:"habits"`
	Notes            []Note           `json:"notes"`
	ActiveNoteID     *string          `json:"activeNoteId"`
	PomodoroSettings PomodoroSettings `json:"pomodoroSettings"`
	PomodoroTimer    TimerState       `json:"pomodoroTimer"`
	CustomStreams    []CustomStream   `json:"customStreams"`
	Theme            Theme            `json:"theme"`
	Playback         PlaybackSettings `json:"playback"`
}

// State is the full in-memory state, persisted fields plus UI flags.
type State struct {
	PersistedState
	IsCustomizing bool `json:"-"`
}

// DefaultState returns the first-run state.
func DefaultState() State {
	settings := DefaultPomodoroSettings()
	return State{PersistedState: PersistedState{
		Widgets:          DefaultWidgets(),
		Todos:            []Todo{},
		Tasks:            []Task{},
		TimeBlocks:       []TimeBlock{},
		Habits:           []Habit{},
		Notes:            []Note{},
		PomodoroSettings: settings,
		PomodoroTimer:    NewTimerState(settings),
		CustomStreams:    []CustomStream{},
		Theme:            ThemeDark,
		Playback:         DefaultPlaybackSettings(),
	}}
}

// Clone returns a deep copy so readers cannot alias store internals.
func (s State) Clone() State {
	c := s
	c.Widgets = cloneSlice(s.Widgets)
	c.Todos = cloneSlice(s.Todos)
	c.Tasks = cloneSlice(s.Tasks)
	for i, t := range c.Tasks {
		t.Tags = cloneSlice(t.Tags)
		if t.DueDate != nil {
			d := *t.DueDate
			t.DueDate = &d
		}
		c.Tasks[i] = t
	}
	c.TimeBlocks = cloneSlice(s.TimeBlocks)
	c.Habits = cloneSlice(s.Habits)
	for i, h := range c.Habits {
		h.DayData = cloneSlice(h.DayData)
		c.Habits[i] = h
	}
	c.Notes = cloneSlice(s.Notes)
	c.CustomStreams = cloneSlice(s.CustomStreams)
	c.ActiveTaskID = cloneString(s.ActiveTaskID)
	c.ActiveNoteID = cloneString(s.ActiveNoteID)
	c.Playback = s.Playback.clone()
	return c
}

func (p PlaybackSettings) clone() PlaybackSettings {
	c := p
	c.Ambient.Volumes = make(map[string]int, len(p.Ambient.Volumes))
	for k, v := range p.Ambient.Volumes {
		c.Ambient.Volumes[k] = v
	}
	c.Ambient.Enabled = make(map[string]bool, len(p.Ambient.Enabled))
	for k, v := range p.Ambient.Enabled {
		c.Ambient.Enabled[k] = v
	}
	return c
}

// cloneSlice copies s, keeping nil and empty distinct.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// TaskByID finds a task.
func (s State) TaskByID(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// NoteByID finds a note.
func (s State) NoteByID(id string) (Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// ActiveTask resolves activeTaskId, falling back to the first task when
// the reference is dangling or unset.
func (s State) ActiveTask() (Task, bool) {
	if s.ActiveTaskID != nil {
		if t, ok := s.TaskByID(*s.ActiveTaskID); ok {
			return t, true
		}
	}
	if len(s.Tasks) > 0 {
		return s.Tasks[0], true
	}
	return Task{}, false
}

// ActiveNote resolves activeNoteId with the same fallback as ActiveTask.
func (s State) ActiveNote() (Note, bool) {
	if s.ActiveNoteID != nil {
		if n, ok := s.NoteByID(*s.ActiveNoteID); ok {
			return n, true
		}
	}
	if len(s.Notes) > 0 {
		return s.Notes[0], true
	}
	return Note{}, false
}

// TasksByStatus returns the tasks of one status sorted by order.
func (s State) TasksByStatus(status TaskStatus) []Task {
	var out []Task
	for _, t := range s.Tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	sortByOrder(out, func(t Task) int { return t.Order })
	return out
}

// WidgetsByColumn returns the widgets of one column sorted by order.
// Hidden widgets are included only when includeHidden is set.
func (s State) WidgetsByColumn(column int, includeHidden bool) []Widget {
	var out []Widget
	for _, w := range s.Widgets {
		if w.Column == column && (w.Visible || includeHidden) {
			out = append(out, w)
		}
	}
	sortByOrder(out, func(w Widget) int { return w.Order })
	return out
}

// AllStreams returns the built-in catalog followed by the custom streams.
func (s State) AllStreams() []Stream {
	out := append([]Stream(nil), BuiltinStreams...)
	for _, c := range s.CustomStreams {
		out = append(out, StreamFromCustom(c))
	}
	return out
}

func sortByOrder[T any](items []T, order func(T) int) {
	sort.SliceStable(items, func(i, j int) bool { return order(items[i]) < order(items[j]) })
}
