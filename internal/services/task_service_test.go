package services

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/dailo/internal/domain"
)

func TestTaskService_AddTask(t *testing.T) {
	ctx := context.Background()

	t.Run("add valid task", func(t *testing.T) {
		service := NewTaskService(newTestStore(t), nil, false)
		req := AddTaskRequest{
			Title:       "Test Task",
			Description: "A test task",
			Tags:        []string{"test", "example"},
		}

		task, err := service.AddTask(ctx, req)
		if err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
		if task.Title != req.Title {
			t.Errorf("AddTask() title = %v, want %v", task.Title, req.Title)
		}
		if len(task.Tags) != 2 {
			t.Errorf("AddTask() tags = %v, want 2 tags", len(task.Tags))
		}
		if task.Status != domain.StatusTodo {
			t.Errorf("AddTask() status = %v, want todo", task.Status)
		}
	})

	t.Run("add task with empty title", func(t *testing.T) {
		service := NewTaskService(newTestStore(t), nil, false)
		_, err := service.AddTask(ctx, AddTaskRequest{Title: ""})
		if !errors.Is(err, domain.ErrEmptyTitle) {
			t.Errorf("AddTask() error = %v, want ErrEmptyTitle", err)
		}
	})

	t.Run("tags git branch", func(t *testing.T) {
		service := NewTaskService(newTestStore(t), fakeBranch{branch: "feature/timer"}, true)
		task, err := service.AddTask(ctx, AddTaskRequest{Title: "Wire ticker", Tags: []string{"dev"}})
		if err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
		want := []string{"dev", "branch:feature/timer"}
		if len(task.Tags) != 2 || task.Tags[0] != want[0] || task.Tags[1] != want[1] {
			t.Errorf("AddTask() tags = %v, want %v", task.Tags, want)
		}
	})

	t.Run("tagging disabled", func(t *testing.T) {
		service := NewTaskService(newTestStore(t), fakeBranch{branch: "main"}, false)
		task, _ := service.AddTask(ctx, AddTaskRequest{Title: "x"})
		if len(task.Tags) != 0 {
			t.Errorf("AddTask() tags = %v, want none", task.Tags)
		}
	})

	t.Run("outside a repository", func(t *testing.T) {
		service := NewTaskService(newTestStore(t), fakeBranch{err: errNotRepo}, true)
		task, err := service.AddTask(ctx, AddTaskRequest{Title: "x"})
		if err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
		if len(task.Tags) != 0 {
			t.Errorf("AddTask() tags = %v, want none", task.Tags)
		}
	})
}

func TestTaskService_ListTasks(t *testing.T) {
	s := newTestStore(t)
	service := NewTaskService(s, nil, false)
	ctx := context.Background()

	done := domain.StatusDone
	service.AddTask(ctx, AddTaskRequest{Title: "Task 1"})
	service.AddTask(ctx, AddTaskRequest{Title: "Task 2", Status: done})
	service.AddTask(ctx, AddTaskRequest{Title: "Task 3"})

	t.Run("list all tasks", func(t *testing.T) {
		tasks := service.ListTasks(ListTasksRequest{})
		if len(tasks) != 3 {
			t.Fatalf("ListTasks() returned %d tasks, want 3", len(tasks))
		}
		if tasks[0].Title != "Task 1" || tasks[1].Title != "Task 3" || tasks[2].Title != "Task 2" {
			t.Errorf("ListTasks() order = %v, %v, %v", tasks[0].Title, tasks[1].Title, tasks[2].Title)
		}
	})

	t.Run("list pending only", func(t *testing.T) {
		if tasks := service.ListTasks(ListTasksRequest{OnlyPending: true}); len(tasks) != 2 {
			t.Errorf("ListTasks() returned %d pending tasks, want 2", len(tasks))
		}
	})

	t.Run("list by status", func(t *testing.T) {
		tasks := service.ListTasks(ListTasksRequest{Status: &done})
		if len(tasks) != 1 || tasks[0].Title != "Task 2" {
			t.Errorf("ListTasks() = %v, want only Task 2", tasks)
		}
	})
}

func TestTaskService_GetTask(t *testing.T) {
	service := NewTaskService(newTestStore(t), nil, false)
	task, _ := service.AddTask(context.Background(), AddTaskRequest{Title: "Find me"})

	got, err := service.GetTask(task.ID[:8])
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.ID != task.ID {
		t.Errorf("GetTask() = %v, want %v", got.ID, task.ID)
	}

	if _, err := service.GetTask("zzzz-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTask() error = %v, want ErrNotFound", err)
	}
	if _, err := service.GetTask(""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTask(\"\") error = %v, want ErrNotFound", err)
	}
}

func TestTaskService_CompleteAndDelete(t *testing.T) {
	s := newTestStore(t)
	service := NewTaskService(s, nil, false)
	ctx := context.Background()

	a, _ := service.AddTask(ctx, AddTaskRequest{Title: "a"})
	b, _ := service.AddTask(ctx, AddTaskRequest{Title: "b"})

	if err := service.CompleteTask(a.ID); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	got, _ := service.GetTask(a.ID)
	if got.Status != domain.StatusDone || got.Order != 0 {
		t.Errorf("CompleteTask() = %v/%d, want done/0", got.Status, got.Order)
	}
	got, _ = service.GetTask(b.ID)
	if got.Order != 0 {
		t.Errorf("remaining todo order = %d, want 0", got.Order)
	}

	if err := service.MoveTaskToStatus(b.ID, "blocked"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("MoveTaskToStatus() error = %v, want ErrInvalidStatus", err)
	}

	if err := service.DeleteTask(a.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if len(s.GetState().Tasks) != 1 {
		t.Errorf("tasks after delete = %d, want 1", len(s.GetState().Tasks))
	}
	if err := service.DeleteTask(a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteTask() twice error = %v, want ErrNotFound", err)
	}
}

func TestTaskService_FindTasks(t *testing.T) {
	service := NewTaskService(newTestStore(t), nil, false)
	ctx := context.Background()
	for _, title := range []string{"Write release notes", "Fix login bug", "Refactor timer"} {
		service.AddTask(ctx, AddTaskRequest{Title: title})
	}

	matches := service.FindTasks("rnotes")
	if len(matches) == 0 || matches[0].Task.Title != "Write release notes" {
		t.Fatalf("FindTasks() = %v, want release notes first", matches)
	}
	if got := service.FindTasks("qqq"); len(got) != 0 {
		t.Errorf("FindTasks() = %v, want no matches", got)
	}
}

func TestFindNotes(t *testing.T) {
	s := newTestStore(t)
	s.AddNote("Meeting agenda")
	s.AddNote("Groceries")

	matches := FindNotes(s, "gro")
	if len(matches) != 1 || matches[0].Note.Title != "Groceries" {
		t.Errorf("FindNotes() = %v, want Groceries", matches)
	}
}
