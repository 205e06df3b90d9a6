package services

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dailo/internal/domain"
)

func TestBuildCalendar(t *testing.T) {
	stamp := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	blocks := []domain.TimeBlock{
		{ID: "b2", Title: "Review", Start: "2024-06-01T14:00:00", End: "2024-06-01T15:00:00", Color: domain.ColorRose, Location: "Room 4"},
		{ID: "b1", Title: "Deep work", Description: "no meetings", Start: "2024-06-01T09:00:00", End: "2024-06-01T11:00:00"},
		{ID: "bad", Title: "Broken", Start: "yesterday", End: "today"},
		{ID: "b3", Title: "Offsite", Start: "2024-06-03T00:00:00", End: "2024-06-03T00:00:00", AllDay: true},
	}

	cal, skipped := BuildCalendar(blocks, stamp)
	assert.Equal(t, []string{"bad"}, skipped)

	parsed, err := ics.ParseCalendar(strings.NewReader(cal.Serialize()))
	require.NoError(t, err)

	events := parsed.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "b1", events[0].Id())
	assert.Equal(t, "Deep work", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "no meetings", events[0].GetProperty(ics.ComponentPropertyDescription).Value)
	assert.Equal(t, "Room 4", events[1].GetProperty(ics.ComponentPropertyLocation).Value)
	assert.Equal(t, "rose", events[1].GetProperty(ics.ComponentPropertyCategories).Value)

	end := events[2].GetProperty(ics.ComponentPropertyDtEnd)
	require.NotNil(t, end)
	assert.Equal(t, "20240604", end.Value, "all-day end is exclusive")
}

func TestBlocksInRange(t *testing.T) {
	blocks := []domain.TimeBlock{
		{ID: "a", Start: "2024-06-01T09:00:00", End: "2024-06-01T10:00:00"},
		{ID: "b", Start: "2024-06-02T09:00:00", End: "2024-06-02T10:00:00"},
		{ID: "c", Start: "2024-06-03T09:00:00", End: "2024-06-03T10:00:00"},
	}
	from := time.Date(2024, 6, 2, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)

	got, err := BlocksInRange(blocks, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	all, err := BlocksInRange(blocks, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = BlocksInRange([]domain.TimeBlock{{ID: "x", Start: "soon"}}, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidDateTime)
}
