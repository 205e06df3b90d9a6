package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/playback"
)

// rowsPerPixel converts persisted widget heights into terminal rows.
const rowsPerPixel = 20

func widgetRows(w domain.Widget) int {
	return domain.ClampHeight(w.Height) / rowsPerPixel
}

// cursorLine marks the selected row of a list widget.
func cursorLine(s styles, selected bool, line string) string {
	if selected {
		return s.selected.Render("› " + line)
	}
	return "  " + line
}

func clampCursor(c, n int) int {
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func renderTodos(s styles, todos []domain.Todo, cursor, width int, focused bool) string {
	if len(todos) == 0 {
		return s.muted.Render("No priorities yet. Press n to add one.")
	}
	cursor = clampCursor(cursor, len(todos))
	lines := make([]string, 0, len(todos))
	for i, t := range todos {
		box := "[ ]"
		text := truncate(t.Text, width-8)
		if t.Completed {
			box = "[x]"
			text = s.done.Render(text)
		}
		dot := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render("●")
		lines = append(lines, cursorLine(s, focused && i == cursor, fmt.Sprintf("%s %s %s", box, dot, text)))
	}
	return strings.Join(lines, "\n")
}

// todayBlocks returns the blocks that start on the day of now, by start
// time.
func todayBlocks(blocks []domain.TimeBlock, now time.Time) []domain.TimeBlock {
	day := domain.FormatDate(now)
	var out []domain.TimeBlock
	for _, b := range blocks {
		if strings.HasPrefix(b.Start, day) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func clockOf(datetime string) string {
	t, err := domain.ParseDateTime(datetime)
	if err != nil {
		return "--:--"
	}
	return t.Format("15:04")
}

func renderTimeBlocks(s styles, blocks []domain.TimeBlock, now time.Time, cursor, width int, focused bool) string {
	header := s.muted.Render(now.Format("Monday, Jan 2"))
	if len(blocks) == 0 {
		return header + "\n" + s.muted.Render("Nothing scheduled. Press n to add HH:MM-HH:MM title.")
	}
	cursor = clampCursor(cursor, len(blocks))
	nowClock := now.Format("15:04")
	lines := []string{header}
	for i, b := range blocks {
		span := "all day    "
		if !b.AllDay {
			span = clockOf(b.Start) + "–" + clockOf(b.End)
		}
		bar := lipgloss.NewStyle().Foreground(blockColors[b.Color]).Render("▌")
		line := fmt.Sprintf("%s %s %s", bar, span, truncate(b.Title, width-18))
		if !b.AllDay && clockOf(b.Start) <= nowClock && nowClock < clockOf(b.End) {
			line += s.title.Render(" ◂ now")
		}
		lines = append(lines, cursorLine(s, focused && i == cursor, line))
	}
	return strings.Join(lines, "\n")
}

func renderHabits(s styles, habits []domain.Habit, now time.Time, cursor, width int, focused bool) string {
	if len(habits) == 0 {
		return s.muted.Render("No habits yet. Press n to add one.")
	}
	cursor = clampCursor(cursor, len(habits))
	day := domain.FormatDate(now)
	lines := make([]string, 0, len(habits))
	for i, h := range habits {
		mark := "○"
		if h.IsCompleted(day) {
			mark = lipgloss.NewStyle().Foreground(s.breakCol).Render("●")
		}
		progress := ""
		if h.Type == domain.HabitCount {
			progress = fmt.Sprintf(" %d/%d %s", h.Count(day), h.Target, h.Unit)
		}
		streak := ""
		if n := h.Streak(now); n > 0 {
			streak = s.muted.Render(fmt.Sprintf(" 🔥%d", n))
		}
		name := strings.TrimSpace(h.Icon + " " + h.Name)
		line := fmt.Sprintf("%s %s%s%s", mark, truncate(name, width-16), progress, streak)
		lines = append(lines, cursorLine(s, focused && i == cursor, line))
	}
	return strings.Join(lines, "\n")
}

func renderNotes(s styles, notes []domain.Note, activeID string, now time.Time, width, rows int, focused bool) string {
	if len(notes) == 0 {
		return s.muted.Render("No notes yet. Press n to create one.")
	}
	var lines []string
	var active domain.Note
	for _, n := range notes {
		selected := n.ID == activeID
		if selected {
			active = n
		}
		age := humanize.RelTime(n.UpdatedAt, now, "ago", "from now")
		line := fmt.Sprintf("%s %s", truncate(n.Title, width-20), s.muted.Render(age))
		lines = append(lines, cursorLine(s, focused && selected, line))
	}
	if active.ID == "" {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, s.muted.Render(strings.Repeat("─", max(width-2, 1))))
	body := strings.TrimSpace(domain.HTMLToText(active.Content))
	if body == "" {
		body = s.muted.Render("Empty note. Press e to write.")
	} else {
		body = wordwrap.String(body, max(width-2, 10))
	}
	out := strings.Join(append(lines, body), "\n")
	if rows > 0 {
		if split := strings.Split(out, "\n"); len(split) > rows {
			out = strings.Join(split[:rows], "\n")
		}
	}
	return out
}

func volumeBar(v, width int) string {
	if width < 1 {
		width = 1
	}
	filled := v * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func renderLofi(s styles, streams []domain.Stream, lofi playback.StreamState, ambient playback.AmbientState, available bool, width int) string {
	var lines []string
	if !available {
		lines = append(lines, s.muted.Render("Player unavailable (mpv not found)."))
	} else if idx := lofi.StreamIndex; idx >= 0 && idx < len(streams) {
		st := streams[idx]
		icon := "⏸"
		if lofi.IsPlaying {
			icon = "▶"
		}
		if !lofi.IsReady {
			icon = "…"
		}
		lines = append(lines,
			fmt.Sprintf("%s %s", icon, s.title.Render(truncate(st.Name, width-4))),
			s.muted.Render(fmt.Sprintf("  %s · %d/%d", st.Channel, idx+1, len(streams))))
		vol := fmt.Sprintf("  vol %s %3d%%", volumeBar(lofi.Volume, 10), lofi.Volume)
		if lofi.IsMuted {
			vol += s.muted.Render(" muted")
		}
		lines = append(lines, vol)
	}
	for i, snd := range domain.AmbientSounds {
		state := "off"
		if ambient.Enabled[snd.ID] {
			state = fmt.Sprintf("%d%%", ambient.Volumes[snd.ID])
		}
		lines = append(lines, fmt.Sprintf("[%d] %-7s %s", i+1, snd.Name, s.muted.Render(state)))
	}
	return strings.Join(lines, "\n")
}
