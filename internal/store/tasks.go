package store

import (
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
)

// AddTask appends a task after the last one of its status.
func (s *Store) AddTask(in domain.TaskInput) (domain.Task, error) {
	task, err := domain.NewTask(in, s.now())
	if err != nil {
		return domain.Task{}, err
	}
	s.update(func(st *domain.State) bool {
		order := 0
		for _, t := range st.Tasks {
			if t.Status == task.Status && t.Order+1 > order {
				order = t.Order + 1
			}
		}
		task.Order = order
		st.Tasks = append(st.Tasks, task)
		return true
	})
	return task, nil
}

// UpdateTask patches a task and stamps updatedAt. A status change
// appends the task to its new status and closes the gap it left.
func (s *Store) UpdateTask(id string, patch domain.TaskPatch) bool {
	return s.update(func(st *domain.State) bool {
		for i, t := range st.Tasks {
			if t.ID != id {
				continue
			}
			next := t.Apply(patch, s.now())
			if next.Status != t.Status {
				next.Order = len(st.TasksByStatus(next.Status))
				st.Tasks[i] = next
				st.Tasks = layout.NormalizeTasks(st.Tasks)
				return true
			}
			st.Tasks[i] = next
			return true
		}
		return false
	})
}

// DeleteTask removes a task and re-closes its status partition.
func (s *Store) DeleteTask(id string) bool {
	return s.update(func(st *domain.State) bool {
		out := st.Tasks[:0:0]
		found := false
		for _, t := range st.Tasks {
			if t.ID == id {
				found = true
				continue
			}
			out = append(out, t)
		}
		if !found {
			return false
		}
		st.Tasks = layout.NormalizeTasks(out)
		if st.ActiveTaskID != nil && *st.ActiveTaskID == id {
			st.ActiveTaskID = nil
		}
		return true
	})
}

// MoveTask applies a completed drag of activeID onto overID. Moved tasks
// get a fresh updatedAt.
func (s *Store) MoveTask(activeID, overID string) bool {
	return s.update(func(st *domain.State) bool {
		next, changed := layout.MoveTask(st.Tasks, activeID, overID)
		if !changed {
			return false
		}
		now := s.now()
		for i := range next {
			if next[i].ID == activeID {
				next[i].UpdatedAt = now
			}
		}
		st.Tasks = next
		return true
	})
}

// SetActiveTask selects a task; an empty id clears the selection.
func (s *Store) SetActiveTask(id string) {
	s.update(func(st *domain.State) bool {
		if id == "" {
			st.ActiveTaskID = nil
		} else {
			st.ActiveTaskID = &id
		}
		return true
	})
}

// ActiveTask resolves the selected task with first-task fallback.
func (s *Store) ActiveTask() (domain.Task, bool) {
	return s.GetState().ActiveTask()
}
