// Package domain contains the core entities of the dashboard: widgets,
// tasks, time blocks, habits, notes, the pomodoro state machine and the
// playback catalogs. Entities are plain records; the store owns every
// mutation and the domain only supplies pure transitions.
package domain

// WidgetType selects which view a widget renders.
type WidgetType string

const (
	WidgetPomodoro  WidgetType = "pomodoro"
	WidgetTodo      WidgetType = "todo"
	WidgetTimeBlock WidgetType = "timeblock"
	WidgetHabits    WidgetType = "habits"
	WidgetNotes     WidgetType = "notes"
	WidgetLofi      WidgetType = "lofi"
)

// Widget height bounds, in the same pixel units the layout persists.
const (
	MinWidgetHeight = 150
	MaxWidgetHeight = 800
)

// ColumnCount is the number of dashboard columns.
const ColumnCount = 3

// Widget is one tile of the dashboard layout.
type Widget struct {
	ID      string     `json:"id"`
	Type    WidgetType `json:"type"`
	Title   string     `json:"title"`
	Height  int        `json:"height"`
	Width   int        `json:"width"`
	Column  int        `json:"column"`
	Order   int        `json:"order"`
	Visible bool       `json:"visible"`
}

// DefaultWidgets returns the fixed widget catalog seeded on first run.
func DefaultWidgets() []Widget {
	return []Widget{
		{ID: "pomodoro", Type: WidgetPomodoro, Title: "Pomodoro Timer", Height: 310, Width: 2, Column: 0, Order: 0, Visible: true},
		{ID: "todo", Type: WidgetTodo, Title: "Top Priorities", Height: 437, Width: 1, Column: 0, Order: 1, Visible: true},
		{ID: "timeblock", Type: WidgetTimeBlock, Title: "Time Blocking", Height: 558, Width: 1, Column: 1, Order: 1, Visible: true},
		{ID: "habits", Type: WidgetHabits, Title: "Habit Tracker", Height: 336, Width: 1, Column: 2, Order: 1, Visible: true},
		{ID: "notes", Type: WidgetNotes, Title: "Quick Notes", Height: 410, Width: 1, Column: 2, Order: 0, Visible: true},
		{ID: "lofi", Type: WidgetLofi, Title: "Lofi Player", Height: 190, Width: 1, Column: 1, Order: 0, Visible: true},
	}
}

// ClampHeight bounds a requested height to the allowed range.
func ClampHeight(h int) int {
	if h < MinWidgetHeight {
		return MinWidgetHeight
	}
	if h > MaxWidgetHeight {
		return MaxWidgetHeight
	}
	return h
}

// ClampWidth bounds a requested width to 1..3.
func ClampWidth(w int) int {
	if w < 1 {
		return 1
	}
	if w > 3 {
		return 3
	}
	return w
}
