package services

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xvierd/dailo/internal/domain"
)

// CalendarProductID identifies dailo in exported calendars.
const CalendarProductID = "-//dailo//time blocks//EN"

// BuildCalendar renders time blocks as an iCalendar feed, ordered by start.
// Blocks whose datetimes do not parse are skipped and reported by id.
func BuildCalendar(blocks []domain.TimeBlock, stamp time.Time) (*ics.Calendar, []string) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(CalendarProductID)

	sorted := append([]domain.TimeBlock(nil), blocks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var skipped []string
	for _, b := range sorted {
		start, end, err := b.Times()
		if err != nil {
			skipped = append(skipped, b.ID)
			continue
		}
		ev := cal.AddEvent(b.ID)
		ev.SetDtStampTime(stamp)
		if b.AllDay {
			ev.SetAllDayStartAt(start)
			// DTEND is exclusive for all-day events.
			ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		} else {
			ev.SetStartAt(start)
			ev.SetEndAt(end)
		}
		ev.SetSummary(b.Title)
		if b.Description != "" {
			ev.SetDescription(b.Description)
		}
		if b.Location != "" {
			ev.SetLocation(b.Location)
		}
		if b.Color != "" {
			ev.AddProperty(ics.ComponentPropertyCategories, string(b.Color))
		}
	}
	return cal, skipped
}

// BlocksInRange keeps the blocks starting on or after from and before to.
// A zero bound is open.
func BlocksInRange(blocks []domain.TimeBlock, from, to time.Time) ([]domain.TimeBlock, error) {
	var out []domain.TimeBlock
	for _, b := range blocks {
		start, _, err := b.Times()
		if err != nil {
			return nil, fmt.Errorf("time block %s: %w", b.ID, err)
		}
		if !from.IsZero() && start.Before(from) {
			continue
		}
		if !to.IsZero() && !start.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
