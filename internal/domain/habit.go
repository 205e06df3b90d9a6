package domain

import (
	"sort"
	"strings"
	"time"
)

// HabitType is either a done/not-done habit or a counted one.
type HabitType string

const (
	HabitBinary HabitType = "binary"
	HabitCount  HabitType = "count"
)

// DayEntry records the count reached on one date.
type DayEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Habit is a daily habit. DayData holds at most one entry per date.
type Habit struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Type      HabitType  `json:"type"`
	Target    int        `json:"target"`
	Unit      string     `json:"unit,omitempty"`
	DayData   []DayEntry `json:"dayData"`
	CreatedAt time.Time  `json:"createdAt"`
}

// HabitInput carries the fields of a new habit.
type HabitInput struct {
	Name   string
	Icon   string
	Type   HabitType
	Target int
	Unit   string
}

// HabitPatch is a partial update.
type HabitPatch struct {
	Name   *string
	Icon   *string
	Type   *HabitType
	Target *int
	Unit   *string
}

// NewHabit builds a habit. Binary habits always target 1.
func NewHabit(in HabitInput, now time.Time) (Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Habit{}, ErrEmptyTitle
	}
	typ := in.Type
	if typ == "" {
		typ = HabitBinary
	}
	if typ != HabitBinary && typ != HabitCount {
		return Habit{}, ErrInvalidHabitType
	}
	h := Habit{
		ID:        generateID(),
		Name:      name,
		Icon:      in.Icon,
		Type:      typ,
		Target:    in.Target,
		Unit:      in.Unit,
		DayData:   []DayEntry{},
		CreatedAt: now,
	}
	h.Target = h.normalizedTarget()
	return h, nil
}

func (h Habit) normalizedTarget() int {
	if h.Type == HabitBinary || h.Target < 1 {
		return 1
	}
	return h.Target
}

// Apply returns h with the patch applied and the target re-normalized.
func (h Habit) Apply(p HabitPatch) Habit {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		h.Name = strings.TrimSpace(*p.Name)
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Type != nil && (*p.Type == HabitBinary || *p.Type == HabitCount) {
		h.Type = *p.Type
	}
	if p.Target != nil {
		h.Target = *p.Target
	}
	if p.Unit != nil {
		h.Unit = *p.Unit
	}
	h.Target = h.normalizedTarget()
	return h
}

// Count returns the count recorded on date, zero when absent.
func (h Habit) Count(date string) int {
	for _, e := range h.DayData {
		if e.Date == date {
			return e.Count
		}
	}
	return 0
}

// IsCompleted reports whether the target was reached on date.
func (h Habit) IsCompleted(date string) bool {
	return h.Count(date) >= h.normalizedTarget()
}

// WithCount upserts the entry for date, clamping the count at zero.
func (h Habit) WithCount(date string, count int) Habit {
	if count < 0 {
		count = 0
	}
	data := make([]DayEntry, 0, len(h.DayData)+1)
	found := false
	for _, e := range h.DayData {
		if e.Date == date {
			e.Count = count
			found = true
		}
		data = append(data, e)
	}
	if !found {
		data = append(data, DayEntry{Date: date, Count: count})
	}
	h.DayData = data
	return h
}

// Increment adds one to the count on date.
func (h Habit) Increment(date string) Habit {
	return h.WithCount(date, h.Count(date)+1)
}

// Decrement removes one from the count on date.
func (h Habit) Decrement(date string) Habit {
	return h.WithCount(date, h.Count(date)-1)
}

// Toggle flips completion on date. A completed day resets to zero, an
// incomplete binary day jumps to the target and an incomplete count day
// moves one step closer.
func (h Habit) Toggle(date string) Habit {
	if h.IsCompleted(date) {
		return h.WithCount(date, 0)
	}
	if h.Type == HabitBinary {
		return h.WithCount(date, h.normalizedTarget())
	}
	return h.Increment(date)
}

// CompletedDates returns the sorted dates on which the target was reached.
func (h Habit) CompletedDates() []string {
	var dates []string
	for _, e := range h.DayData {
		if e.Count >= h.normalizedTarget() {
			dates = append(dates, e.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

// Streak counts consecutive completed days ending today. An incomplete
// today does not break a streak that ran through yesterday.
func (h Habit) Streak(today time.Time) int {
	day := truncateDay(today)
	if !h.IsCompleted(FormatDate(day)) {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for h.IsCompleted(FormatDate(day)) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
