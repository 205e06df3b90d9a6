package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
	"github.com/xvierd/dailo/internal/ports"
	"github.com/xvierd/dailo/internal/store"
)

// TaskService handles the task use cases of the command line.
type TaskService struct {
	store        *store.Store
	git          ports.BranchDetector
	tagGitBranch bool
}

// NewTaskService creates a new task service. detector may be nil.
func NewTaskService(s *store.Store, detector ports.BranchDetector, tagGitBranch bool) *TaskService {
	return &TaskService{store: s, git: detector, tagGitBranch: tagGitBranch}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.Priority
	Tags        []string
	DueDate     *string
	WorkingDir  string
}

// AddTask creates a new task. Inside a git repository the task is
// tagged with the current branch when tagging is enabled.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (domain.Task, error) {
	tags := req.Tags
	if branch := s.branch(ctx, req.WorkingDir); branch != "" {
		tags = append(append([]string{}, tags...), domain.BranchTag(branch))
	}
	task, err := s.store.AddTask(domain.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        tags,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("invalid task: %w", err)
	}
	return task, nil
}

func (s *TaskService) branch(ctx context.Context, dir string) string {
	if !s.tagGitBranch || s.git == nil {
		return ""
	}
	branch, err := s.git.CurrentBranch(ctx, dir)
	if err != nil {
		return ""
	}
	return branch
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Status      *domain.TaskStatus
	OnlyPending bool
}

// ListTasks returns tasks in board order: by status column, then order.
func (s *TaskService) ListTasks(req ListTasksRequest) []domain.Task {
	st := s.store.GetState()
	var out []domain.Task
	for _, status := range domain.TaskStatuses {
		if req.Status != nil && *req.Status != status {
			continue
		}
		if req.OnlyPending && status == domain.StatusDone {
			continue
		}
		out = append(out, st.TasksByStatus(status)...)
	}
	return out
}

// GetTask resolves a task by id or by a unique id prefix.
func (s *TaskService) GetTask(idOrPrefix string) (domain.Task, error) {
	st := s.store.GetState()
	if t, ok := st.TaskByID(idOrPrefix); ok {
		return t, nil
	}
	var found []domain.Task
	for _, t := range st.Tasks {
		if idOrPrefix != "" && strings.HasPrefix(t.ID, idOrPrefix) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return domain.Task{}, domain.ErrNotFound
	case 1:
		return found[0], nil
	}
	return domain.Task{}, fmt.Errorf("ambiguous task id %q: %d matches", idOrPrefix, len(found))
}

// MoveTaskToStatus moves a task to the end of another status column.
func (s *TaskService) MoveTaskToStatus(id string, status domain.TaskStatus) error {
	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		return err
	}
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}
	s.store.MoveTask(task.ID, layout.StatusTarget(status))
	return nil
}

// CompleteTask moves a task to done.
func (s *TaskService) CompleteTask(id string) error {
	return s.MoveTaskToStatus(id, domain.StatusDone)
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(id string) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}
	s.store.DeleteTask(task.ID)
	return nil
}

// TaskMatch is one fuzzy search hit.
type TaskMatch struct {
	Task           domain.Task
	Score          int
	MatchedIndexes []int
}

// FindTasks fuzzy-matches query against task titles, best first.
func (s *TaskService) FindTasks(query string) []TaskMatch {
	tasks := s.store.GetState().Tasks
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	matches := fuzzy.Find(query, titles)
	out := make([]TaskMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, TaskMatch{Task: tasks[m.Index], Score: m.Score, MatchedIndexes: m.MatchedIndexes})
	}
	return out
}

// NoteMatch is one fuzzy search hit.
type NoteMatch struct {
	Note           domain.Note
	Score          int
	MatchedIndexes []int
}

// noteSource adapts notes to fuzzy.Source.
type noteSource []domain.Note

func (n noteSource) String(i int) string { return n[i].Title }
func (n noteSource) Len() int            { return len(n) }

// FindNotes fuzzy-matches query against note titles, best first.
func FindNotes(s *store.Store, query string) []NoteMatch {
	notes := noteSource(s.GetState().Notes)
	matches := fuzzy.FindFrom(query, notes)
	out := make([]NoteMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, NoteMatch{Note: notes[m.Index], Score: m.Score, MatchedIndexes: m.MatchedIndexes})
	}
	return out
}
