package domain

import (
	"strings"
	"time"
)

// TaskStatus is the board column a task lives in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusWorking    TaskStatus = "working"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists the board columns from left to right.
var TaskStatuses = []TaskStatus{StatusTodo, StatusWorking, StatusInProgress, StatusDone}

// Label returns the human-readable column title.
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusWorking:
		return "Working"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseTaskStatus validates a status name.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range TaskStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Priority ranks a task or todo from 1 (high) to 3 (low).
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// Task is a card on the task board.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	DueDate     *string    `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Order       int        `json:"order"`
}

// TaskInput carries the caller-supplied fields of a new task.
type TaskInput struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	Tags        []string
	DueDate     *string
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *Priority
	Tags        []string
	DueDate     **string
}

// NewTask builds a task from input. Order is assigned by the store.
func NewTask(in TaskInput, now time.Time) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	status := in.Status
	if status == "" {
		status = StatusTodo
	}
	if _, err := ParseTaskStatus(string(status)); err != nil {
		return Task{}, err
	}
	priority := in.Priority
	if priority == 0 {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, ErrInvalidPriority
	}
	if in.DueDate != nil {
		if _, err := ParseDate(*in.DueDate); err != nil {
			return Task{}, err
		}
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		tags = appendUnique(tags, t)
	}
	return Task{
		ID:          generateID(),
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		Tags:        tags,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply returns t with the patch applied and updatedAt stamped.
func (t Task) Apply(p TaskPatch, now time.Time) Task {
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		if _, err := ParseTaskStatus(string(*p.Status)); err == nil {
			t.Status = *p.Status
		}
	}
	if p.Priority != nil && p.Priority.Valid() {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		tags := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			tags = appendUnique(tags, tag)
		}
		t.Tags = tags
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	t.UpdatedAt = now
	return t
}

// IsOverdue reports whether the task has a due date before today and is not done.
func (t Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	due, err := ParseDate(*t.DueDate)
	if err != nil {
		return false
	}
	return due.Before(truncateDay(today))
}

// ParseTagsFromInput extracts #tags from a one-line task title.
// "Fix login #bug #urgent" returns ("Fix login", ["bug", "urgent"]).
func ParseTagsFromInput(input string) (string, []string) {
	var words []string
	var tags []string
	for _, w := range strings.Fields(input) {
		if strings.HasPrefix(w, "#") && len(w) > 1 {
			tags = appendUnique(tags, strings.ToLower(w[1:]))
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " "), tags
}

func appendUnique(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// BranchTag is the tag recorded on a task created on a git branch.
func BranchTag(branch string) string {
	return "branch:" + branch
}
