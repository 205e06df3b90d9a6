package ports

import (
	"context"

	"github.com/xvierd/dailo/internal/domain"
)

// Dashboard is the slice of the store the MCP server drives.
// This is a driving port (implemented by the store).
type Dashboard interface {
	GetState() domain.State

	AddTask(in domain.TaskInput) (domain.Task, error)
	UpdateTask(id string, patch domain.TaskPatch) bool
	MoveTask(activeID, overID string) bool
	DeleteTask(id string) bool

	ToggleHabitDay(id, date string) bool

	AddNote(title string) domain.Note
	UpdateNote(id string, patch domain.NotePatch) bool

	StartPomodoro() bool
	PausePomodoro()
	ResetPomodoroTimer()
	SelectPomodoroPhase(phase domain.Phase) bool
}

// TimerControl starts and pauses a live countdown.
// Implemented by the ticker service.
type TimerControl interface {
	StartTimer(ctx context.Context) bool
	PauseTimer()
}
