package domain

import "errors"

// Common domain errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("priority must be 1, 2 or 3")
	ErrInvalidPhase      = errors.New("invalid pomodoro phase")
	ErrInvalidHabitType  = errors.New("invalid habit type")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateTime   = errors.New("invalid datetime, expected YYYY-MM-DDTHH:MM:SS")
	ErrInvalidImport     = errors.New("invalid import file")
	ErrUnsupportedSchema = errors.New("snapshot schema is newer than this build")
)
