package store

import "github.com/xvierd/dailo/internal/domain"

// AddTodo appends an open todo.
func (s *Store) AddTodo(text string, priority domain.Priority) (domain.Todo, error) {
	todo, err := domain.NewTodo(text, priority)
	if err != nil {
		return domain.Todo{}, err
	}
	s.update(func(st *domain.State) bool {
		st.Todos = append(st.Todos, todo)
		return true
	})
	return todo, nil
}

// ToggleTodo flips a todo's completion.
func (s *Store) ToggleTodo(id string) bool {
	return s.update(func(st *domain.State) bool {
		for i := range st.Todos {
			if st.Todos[i].ID == id {
				st.Todos[i].Completed = !st.Todos[i].Completed
				return true
			}
		}
		return false
	})
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(id string) bool {
	return s.update(func(st *domain.State) bool {
		var ok bool
		st.Todos, ok = without(st.Todos, func(t domain.Todo) bool { return t.ID == id })
		return ok
	})
}

// AddTimeBlock adds a calendar entry.
func (s *Store) AddTimeBlock(in domain.TimeBlockInput) (domain.TimeBlock, error) {
	block, err := domain.NewTimeBlock(in)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	s.update(func(st *domain.State) bool {
		st.TimeBlocks = append(st.TimeBlocks, block)
		return true
	})
	return block, nil
}

// UpdateTimeBlock patches a calendar entry.
func (s *Store) UpdateTimeBlock(id string, patch domain.TimeBlockPatch) bool {
	return s.update(func(st *domain.State) bool {
		for i := range st.TimeBlocks {
			if st.TimeBlocks[i].ID == id {
				st.TimeBlocks[i] = st.TimeBlocks[i].Apply(patch)
				return true
			}
		}
		return false
	})
}

// DeleteTimeBlock removes a calendar entry.
func (s *Store) DeleteTimeBlock(id string) bool {
	return s.update(func(st *domain.State) bool {
		var ok bool
		st.TimeBlocks, ok = without(st.TimeBlocks, func(b domain.TimeBlock) bool { return b.ID == id })
		return ok
	})
}

// AddHabit appends a habit.
func (s *Store) AddHabit(in domain.HabitInput) (domain.Habit, error) {
	habit, err := domain.NewHabit(in, s.now())
	if err != nil {
		return domain.Habit{}, err
	}
	s.update(func(st *domain.State) bool {
		st.Habits = append(st.Habits, habit)
		return true
	})
	return habit, nil
}

func (s *Store) updateHabit(id string, fn func(domain.Habit) domain.Habit) bool {
	return s.update(func(st *domain.State) bool {
		for i := range st.Habits {
			if st.Habits[i].ID == id {
				st.Habits[i] = fn(st.Habits[i])
				return true
			}
		}
		return false
	})
}

// UpdateHabit patches a habit.
func (s *Store) UpdateHabit(id string, patch domain.HabitPatch) bool {
	return s.updateHabit(id, func(h domain.Habit) domain.Habit { return h.Apply(patch) })
}

// DeleteHabit removes a habit.
func (s *Store) DeleteHabit(id string) bool {
	return s.update(func(st *domain.State) bool {
		var ok bool
		st.Habits, ok = without(st.Habits, func(h domain.Habit) bool { return h.ID == id })
		return ok
	})
}

// ToggleHabitDay flips completion of a habit on date.
func (s *Store) ToggleHabitDay(id, date string) bool {
	if _, err := domain.ParseDate(date); err != nil {
		return false
	}
	return s.updateHabit(id, func(h domain.Habit) domain.Habit { return h.Toggle(date) })
}

// IncrementHabitCount adds one to a habit's count on date.
func (s *Store) IncrementHabitCount(id, date string) bool {
	if _, err := domain.ParseDate(date); err != nil {
		return false
	}
	return s.updateHabit(id, func(h domain.Habit) domain.Habit { return h.Increment(date) })
}

// DecrementHabitCount removes one from a habit's count on date.
func (s *Store) DecrementHabitCount(id, date string) bool {
	if _, err := domain.ParseDate(date); err != nil {
		return false
	}
	return s.updateHabit(id, func(h domain.Habit) domain.Habit { return h.Decrement(date) })
}

// AddNote prepends an empty note and selects it.
func (s *Store) AddNote(title string) domain.Note {
	note := domain.NewNote(title, s.now())
	s.update(func(st *domain.State) bool {
		st.Notes = append([]domain.Note{note}, st.Notes...)
		id := note.ID
		st.ActiveNoteID = &id
		return true
	})
	return note
}

// UpdateNote patches a note and stamps updatedAt.
func (s *Store) UpdateNote(id string, patch domain.NotePatch) bool {
	return s.update(func(st *domain.State) bool {
		for i := range st.Notes {
			if st.Notes[i].ID == id {
				st.Notes[i] = st.Notes[i].Apply(patch, s.now())
				return true
			}
		}
		return false
	})
}

// DeleteNote removes a note. Deleting the active note selects the new
// first note, or none.
func (s *Store) DeleteNote(id string) bool {
	return s.update(func(st *domain.State) bool {
		var ok bool
		st.Notes, ok = without(st.Notes, func(n domain.Note) bool { return n.ID == id })
		if !ok {
			return false
		}
		if st.ActiveNoteID != nil && *st.ActiveNoteID == id {
			st.ActiveNoteID = nil
			if len(st.Notes) > 0 {
				first := st.Notes[0].ID
				st.ActiveNoteID = &first
			}
		}
		return true
	})
}

// SetActiveNote selects a note; an empty id clears the selection.
func (s *Store) SetActiveNote(id string) {
	s.update(func(st *domain.State) bool {
		if id == "" {
			st.ActiveNoteID = nil
		} else {
			st.ActiveNoteID = &id
		}
		return true
	})
}

// ActiveNote resolves the selected note with first-note fallback.
func (s *Store) ActiveNote() (domain.Note, bool) {
	return s.GetState().ActiveNote()
}

// without returns items minus those matching drop, and whether any did.
func without[T any](items []T, drop func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if drop(it) {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
