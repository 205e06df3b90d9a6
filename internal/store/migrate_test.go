package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dailo/internal/domain"
)

var migrateNow = time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)

func rawState(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestMigrate_LegacyTimeBlock(t *testing.T) {
	state := rawState(t, `{"timeBlocks":[{"id":"b1","title":"Deep work","date":"2024-01-01","startTime":"09:00","endTime":"10:00","color":"blue"}]}`)

	got, err := Migrate(state, 6, migrateNow)
	require.NoError(t, err)

	block := got["timeBlocks"].([]any)[0].(map[string]any)
	assert.Equal(t, "2024-01-01T09:00:00", block["start"])
	assert.Equal(t, "2024-01-01T10:00:00", block["end"])
	assert.Equal(t, "sky", block["color"])
	assert.Equal(t, false, block["allDay"])
	assert.NotContains(t, block, "date")
	assert.NotContains(t, block, "startTime")

	again, err := Migrate(got, 6, migrateNow)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestMigrate_LegacyTimeBlockWithoutDate(t *testing.T) {
	state := rawState(t, `{"timeBlocks":[{"id":"b1","title":"x","startTime":"13:30","endTime":"14:00","color":"purple"}]}`)

	got, err := Migrate(state, 6, migrateNow)
	require.NoError(t, err)

	block := got["timeBlocks"].([]any)[0].(map[string]any)
	assert.Equal(t, "2024-03-10T13:30:00", block["start"])
	assert.Equal(t, "violet", block["color"])
}

func TestMigrate_LegacyColors(t *testing.T) {
	for legacy, want := range map[string]string{
		"blue": "sky", "green": "emerald", "yellow": "amber", "red": "rose", "purple": "violet", "magenta": "sky",
	} {
		state := map[string]any{"timeBlocks": []any{map[string]any{"startTime": "09:00", "endTime": "09:30", "color": legacy}}}
		got, err := Migrate(state, 6, migrateNow)
		require.NoError(t, err)
		block := got["timeBlocks"].([]any)[0].(map[string]any)
		assert.Equal(t, want, block["color"], legacy)
	}
}

func TestMigrate_ResetsUnpositionedWidgets(t *testing.T) {
	state := rawState(t, `{"widgets":[{"id":"pomodoro","type":"pomodoro","title":"Timer","visible":true}]}`)

	got, err := Migrate(state, 2, migrateNow)
	require.NoError(t, err)

	ps, err := decodeState(got)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWidgets(), ps.Widgets)
}

func TestMigrate_KeepsPositionedWidgets(t *testing.T) {
	state := rawState(t, `{"widgets":[{"id":"notes","type":"notes","title":"Mine","height":300,"width":1,"column":1,"order":0,"visible":false}]}`)

	got, err := Migrate(state, 2, migrateNow)
	require.NoError(t, err)
	w := got["widgets"].([]any)[0].(map[string]any)
	assert.Equal(t, "Mine", w["title"])
}

func TestMigrate_NotesStringBecomesNote(t *testing.T) {
	state := rawState(t, `{"notes":"line one\nline <two>"}`)

	got, err := Migrate(state, 3, migrateNow)
	require.NoError(t, err)

	ps, err := decodeState(got)
	require.NoError(t, err)
	require.Len(t, ps.Notes, 1)
	assert.Equal(t, "My Notes", ps.Notes[0].Title)
	assert.Contains(t, ps.Notes[0].Content, "line one")
	assert.Contains(t, ps.Notes[0].Content, "&lt;two&gt;")
	require.NotNil(t, ps.ActiveNoteID)
	assert.Equal(t, ps.Notes[0].ID, *ps.ActiveNoteID)
}

func TestMigrate_EmptyNotesString(t *testing.T) {
	got, err := Migrate(map[string]any{"notes": "   "}, 3, migrateNow)
	require.NoError(t, err)
	assert.Equal(t, []any{}, got["notes"])
	assert.Nil(t, got["activeNoteId"])
}

func TestMigrate_BackfillsTimerFromFocusDuration(t *testing.T) {
	state := rawState(t, `{"pomodoroSettings":{"focusDuration":40,"shortBreakDuration":5,"longBreakDuration":15,"sessionsUntilLongBreak":4}}`)

	got, err := Migrate(state, 4, migrateNow)
	require.NoError(t, err)

	timer := got["pomodoroTimer"].(map[string]any)
	assert.Equal(t, "focus", timer["phase"])
	assert.Equal(t, float64(40*60), timer["timeLeft"])
	assert.Equal(t, false, timer["isRunning"])
}

func TestMigrate_HabitsCompletedDays(t *testing.T) {
	state := rawState(t, `{"habits":[{"id":"h1","name":"Read","icon":"book","completedDays":["2024-01-01","2024-01-02"]}]}`)

	got, err := Migrate(state, 5, migrateNow)
	require.NoError(t, err)

	ps, err := decodeState(got)
	require.NoError(t, err)
	require.Len(t, ps.Habits, 1)
	h := ps.Habits[0]
	assert.Equal(t, domain.HabitBinary, h.Type)
	assert.Equal(t, 1, h.Target)
	assert.Equal(t, []domain.DayEntry{{Date: "2024-01-01", Count: 1}, {Date: "2024-01-02", Count: 1}}, h.DayData)
	assert.False(t, h.CreatedAt.IsZero())
	assert.Empty(t, ps.Tasks)
	assert.Nil(t, ps.ActiveTaskID)
}

func TestMigrate_FullPipelineIsIdempotentOnCurrentShape(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddNote("keep")
	s.AddTask(domain.TaskInput{Title: "keep"})
	h, _ := s.AddHabit(domain.HabitInput{Name: "Run"})
	s.ToggleHabitDay(h.ID, "2024-01-01")

	data, err := json.Marshal(s.Persisted())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	var before map[string]any
	require.NoError(t, json.Unmarshal(data, &before))

	got, err := Migrate(raw, 0, migrateNow)
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

func TestMigrate_NewerVersion(t *testing.T) {
	_, err := Migrate(map[string]any{}, CurrentVersion+1, migrateNow)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSchema)
}

func TestMigrate_CurrentVersionIsNoop(t *testing.T) {
	state := map[string]any{"notes": "legacy string left alone"}
	got, err := Migrate(state, CurrentVersion, migrateNow)
	require.NoError(t, err)
	assert.Equal(t, "legacy string left alone", got["notes"])
}

func TestClockWithSeconds(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"09:00", "09:00:00"},
		{"09:00:30", "09:00:30"},
		{"", "00:00:00"},
	}
	for _, tt := range tests {
		if got := clockWithSeconds(tt.in); got != tt.want {
			t.Errorf("clockWithSeconds(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
