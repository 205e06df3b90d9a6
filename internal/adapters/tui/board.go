package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
)

// boardTask returns the task under the board cursor.
func (m Model) boardTask() (domain.Task, bool) {
	tasks := m.state.TasksByStatus(domain.TaskStatuses[m.boardCol])
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clampCursor(m.boardRow, len(tasks))], true
}

// boardFollow puts the cursor back on id after a move.
func (m *Model) boardFollow(id string) {
	for c, status := range domain.TaskStatuses {
		for r, t := range m.state.TasksByStatus(status) {
			if t.ID == id {
				m.boardCol, m.boardRow = c, r
				return
			}
		}
	}
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.deps.Store
	cols := len(domain.TaskStatuses)
	task, ok := m.boardTask()

	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Board):
		m.view = viewDashboard
	case key.Matches(msg, keys.Left):
		m.boardCol = (m.boardCol + cols - 1) % cols
	case key.Matches(msg, keys.Right):
		m.boardCol = (m.boardCol + 1) % cols
	case key.Matches(msg, keys.Up):
		if m.boardRow > 0 {
			m.boardRow--
		}
	case key.Matches(msg, keys.Down):
		m.boardRow++
	case key.Matches(msg, keys.MoveLeft), key.Matches(msg, keys.MoveRight):
		if !ok {
			break
		}
		step := 1
		if key.Matches(msg, keys.MoveLeft) {
			step = -1
		}
		target := m.boardCol + step
		if target < 0 || target >= cols {
			break
		}
		s.MoveTask(task.ID, layout.StatusTarget(domain.TaskStatuses[target]))
		m.refresh()
		m.boardFollow(task.ID)
	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		if !ok {
			break
		}
		tasks := m.state.TasksByStatus(task.Status)
		row := clampCursor(m.boardRow, len(tasks))
		if key.Matches(msg, keys.MoveUp) {
			row--
		} else {
			row++
		}
		if row < 0 || row >= len(tasks) {
			break
		}
		s.MoveTask(task.ID, tasks[row].ID)
		m.refresh()
		m.boardFollow(task.ID)
	case key.Matches(msg, keys.Check):
		if ok && task.Status != domain.StatusDone {
			s.MoveTask(task.ID, layout.StatusTarget(domain.StatusDone))
			m.refresh()
		}
	case key.Matches(msg, keys.Enter):
		if ok {
			s.SetActiveTask(task.ID)
			m.status = "Focusing on " + task.Title
		}
	case key.Matches(msg, keys.Delete):
		if ok {
			s.DeleteTask(task.ID)
		}
	case key.Matches(msg, keys.New):
		return m.openPrompt(promptTask, "New task (#tags allowed)", "")
	}
	m.refresh()
	return m, nil
}

func (m Model) viewBoard() string {
	s := m.styles()
	cols := len(domain.TaskStatuses)
	width := m.width / cols
	if width < 16 {
		width = 16
	}
	activeID := ""
	if t, ok := m.state.ActiveTask(); ok {
		activeID = t.ID
	}

	rendered := make([]string, 0, cols)
	for c, status := range domain.TaskStatuses {
		tasks := m.state.TasksByStatus(status)
		lines := []string{s.title.Render(fmt.Sprintf("%s (%d)", status.Label(), len(tasks))), ""}
		row := clampCursor(m.boardRow, len(tasks))
		for r, t := range tasks {
			title := truncate(t.Title, width-8)
			if t.ID == activeID {
				title = "◎ " + title
			}
			if t.IsOverdue(m.now()) {
				title = s.errorMsg.Render(title)
			}
			dot := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render("●")
			line := dot + " " + title
			if len(t.Tags) > 0 {
				line += "\n    " + s.muted.Render(truncate("#"+strings.Join(t.Tags, " #"), width-8))
			}
			lines = append(lines, cursorLine(s, c == m.boardCol && r == row, line))
		}
		if len(tasks) == 0 {
			lines = append(lines, s.muted.Render("  empty"))
		}
		panel := s.panel
		if c == m.boardCol {
			panel = s.active
		}
		rendered = append(rendered, panel.Width(width-2).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
