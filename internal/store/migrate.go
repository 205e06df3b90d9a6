package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/dailo/internal/domain"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 7

// Migration upgrades a raw decoded state to Version. Apply must leave
// records that are already in the new shape untouched, since a step runs
// for every stored version below its own.
type Migration struct {
	Version int
	Name    string
	Apply   func(state map[string]any, now time.Time) map[string]any
}

// Migrations is the ordered upgrade pipeline.
var Migrations = []Migration{
	{Version: 3, Name: "reset widget layout", Apply: migrateWidgetLayout},
	{Version: 4, Name: "structured notes", Apply: migrateNotes},
	{Version: 5, Name: "persisted pomodoro timer", Apply: migratePomodoroTimer},
	{Version: 6, Name: "habit day data and task board", Apply: migrateHabitsAndTasks},
	{Version: 7, Name: "iso time blocks", Apply: migrateTimeBlocks},
}

// Migrate folds every step above from over state, in ascending order.
func Migrate(state map[string]any, from int, now time.Time) (map[string]any, error) {
	if from > CurrentVersion {
		return state, fmt.Errorf("%w: version %d", domain.ErrUnsupportedSchema, from)
	}
	if state == nil {
		state = map[string]any{}
	}
	for _, m := range Migrations {
		if from < m.Version {
			state = m.Apply(state, now)
		}
	}
	return state, nil
}

func migrateWidgetLayout(state map[string]any, _ time.Time) map[string]any {
	if widgets, ok := state["widgets"].([]any); ok && len(widgets) > 0 {
		positioned := true
		for _, w := range widgets {
			m, ok := w.(map[string]any)
			if !ok || m["column"] == nil || m["order"] == nil {
				positioned = false
				break
			}
		}
		if positioned {
			return state
		}
	}
	state["widgets"] = toRaw(domain.DefaultWidgets())
	return state
}

func migrateNotes(state map[string]any, now time.Time) map[string]any {
	switch notes := state["notes"].(type) {
	case []any:
		return state
	case string:
		if strings.TrimSpace(notes) != "" {
			note := domain.NewNote("My Notes", now)
			note.Content = domain.TextToHTML(notes)
			state["notes"] = toRaw([]domain.Note{note})
			state["activeNoteId"] = note.ID
			return state
		}
	}
	state["notes"] = []any{}
	state["activeNoteId"] = nil
	return state
}

func migratePomodoroTimer(state map[string]any, _ time.Time) map[string]any {
	if timer, ok := state["pomodoroTimer"].(map[string]any); ok && timer["phase"] != nil {
		return state
	}
	focus := domain.DefaultPomodoroSettings().FocusDuration
	if settings, ok := state["pomodoroSettings"].(map[string]any); ok {
		if f, ok := settings["focusDuration"].(float64); ok && f >= 1 {
			focus = int(f)
		}
	}
	state["pomodoroTimer"] = map[string]any{
		"phase":             string(domain.PhaseFocus),
		"timeLeft":          float64(focus * 60),
		"isRunning":         false,
		"sessionsCompleted": float64(0),
	}
	return state
}

func migrateHabitsAndTasks(state map[string]any, now time.Time) map[string]any {
	if habits, ok := state["habits"].([]any); ok {
		for i, h := range habits {
			m, ok := h.(map[string]any)
			if !ok || m["dayData"] != nil {
				continue
			}
			days, _ := m["completedDays"].([]any)
			data := make([]any, 0, len(days))
			for _, d := range days {
				if date, ok := d.(string); ok {
					data = append(data, map[string]any{"date": date, "count": float64(1)})
				}
			}
			m["dayData"] = data
			m["type"] = string(domain.HabitBinary)
			m["target"] = float64(1)
			if m["createdAt"] == nil {
				m["createdAt"] = now.UTC().Format(time.RFC3339)
			}
			delete(m, "completedDays")
			habits[i] = m
		}
	}
	if _, ok := state["tasks"]; !ok {
		state["tasks"] = []any{}
	}
	if _, ok := state["activeTaskId"]; !ok {
		state["activeTaskId"] = nil
	}
	return state
}

func migrateTimeBlocks(state map[string]any, now time.Time) map[string]any {
	blocks, ok := state["timeBlocks"].([]any)
	if !ok {
		return state
	}
	for i, b := range blocks {
		m, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if _, hasStart := m["start"]; hasStart {
			if _, hasEnd := m["end"]; hasEnd {
				continue
			}
		}
		date, _ := m["date"].(string)
		if date == "" {
			date = domain.FormatDate(now)
		}
		startTime, _ := m["startTime"].(string)
		endTime, _ := m["endTime"].(string)
		m["start"] = date + "T" + clockWithSeconds(startTime)
		m["end"] = date + "T" + clockWithSeconds(endTime)
		color, _ := m["color"].(string)
		m["color"] = string(domain.MapLegacyColor(color))
		m["allDay"] = false
		delete(m, "date")
		delete(m, "startTime")
		delete(m, "endTime")
		blocks[i] = m
	}
	return state
}

// clockWithSeconds turns "09:00" into "09:00:00".
func clockWithSeconds(hm string) string {
	switch strings.Count(hm, ":") {
	case 0:
		return "00:00:00"
	case 1:
		return hm + ":00"
	}
	return hm
}

// toRaw converts a typed value into the generic JSON shape migrations
// operate on.
func toRaw(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}
