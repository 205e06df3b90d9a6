package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/services"
)

var (
	taskTags        []string
	taskDescription string
	taskStatus      string
	taskPriority    int
	taskDue         string
	taskInteractive bool
	taskListStatus  string
	taskListAll     bool
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the task board",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task to the board",
	Long: `Add a task to the end of a board column. Words starting with # in the
title become tags. Inside a git repository the task is tagged with the
current branch unless tasks.tag_git_branch is off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.AddTaskRequest{
			Description: taskDescription,
			Status:      domain.TaskStatus(taskStatus),
			Priority:    domain.Priority(taskPriority),
			Tags:        taskTags,
		}
		req.Title, req.Tags = parseTitleTags(joinArgs(args), req.Tags)
		if taskDue != "" {
			req.DueDate = &taskDue
		}
		if taskInteractive {
			if err := taskForm(&req); err != nil {
				return err
			}
		}
		if req.Title == "" {
			return errors.New("a task title is required")
		}
		req.WorkingDir, _ = os.Getwd()

		task, err := app.tasks.AddTask(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(out(cmd), taskJSON(task))
		}
		fmt.Fprintf(out(cmd), "%s Task added: %s (ID: %s)\n", success.Sprint("✓"), task.Title, shortID(task.ID))
		return nil
	},
}

func parseTitleTags(input string, extra []string) (string, []string) {
	title, tags := domain.ParseTagsFromInput(input)
	return title, append(tags, extra...)
}

// taskForm fills the request interactively, starting from what the flags
// already set.
func taskForm(req *services.AddTaskRequest) error {
	status := string(req.Status)
	if status == "" {
		status = string(domain.StatusTodo)
	}
	priority := strconv.Itoa(int(req.Priority))
	if req.Priority == 0 {
		priority = strconv.Itoa(int(domain.PriorityMedium))
	}
	tags := strings.Join(req.Tags, " ")
	due := ""
	if req.DueDate != nil {
		due = *req.DueDate
	}

	statusOpts := make([]huh.Option[string], 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		statusOpts = append(statusOpts, huh.NewOption(s.Label(), string(s)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&req.Title).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return domain.ErrEmptyTitle
				}
				return nil
			}),
			huh.NewText().Title("Description").Value(&req.Description),
			huh.NewInput().Title("Tags (space separated)").Value(&tags),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Column").Options(statusOpts...).Value(&status),
			huh.NewSelect[string]().Title("Priority").
				Options(
					huh.NewOption("High", "1"),
					huh.NewOption("Medium", "2"),
					huh.NewOption("Low", "3"),
				).
				Value(&priority),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(&due).Validate(func(s string) error {
				if s == "" {
					return nil
				}
				_, err := domain.ParseDate(s)
				return err
			}),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("task form: %w", err)
	}

	req.Status = domain.TaskStatus(status)
	p, _ := strconv.Atoi(priority)
	req.Priority = domain.Priority(p)
	req.Tags = strings.Fields(strings.ReplaceAll(tags, "#", ""))
	req.DueDate = nil
	if due != "" {
		req.DueDate = &due
	}
	return nil
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `List open tasks in board order, or filter by column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.ListTasksRequest{OnlyPending: !taskListAll && taskListStatus == ""}
		if taskListStatus != "" {
			status, err := domain.ParseTaskStatus(taskListStatus)
			if err != nil {
				return err
			}
			req.Status = &status
		}
		tasks := app.tasks.ListTasks(req)

		if jsonOutput {
			list := make([]map[string]any, 0, len(tasks))
			for _, t := range tasks {
				list = append(list, taskJSON(t))
			}
			return printJSON(out(cmd), map[string]any{"tasks": list, "count": len(list)})
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out(cmd), "No tasks found.")
			return nil
		}
		printTasks(cmd, tasks)
		return nil
	},
}

func printTasks(cmd *cobra.Command, tasks []domain.Task) {
	active := ""
	if t, ok := app.store.ActiveTask(); ok {
		active = t.ID
	}

	tbl := newTable("", "ID", "TITLE", "COLUMN", "PRIORITY", "DUE", "TAGS")
	for _, t := range tasks {
		title := t.Title
		if t.ID == active {
			title = bold.Sprint("◎ " + title)
		}
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
			if t.IsOverdue(nowFunc()) {
				due = danger.Sprint(due)
			}
		}
		tbl.AddRow(statusIcon(t.Status), shortID(t.ID), title, t.Status.Label(), priorityLabel(t.Priority), due, faint.Sprint(joinTags(t.Tags)))
	}
	fmt.Fprintln(out(cmd), tbl)
}

var taskMoveCmd = &cobra.Command{
	Use:   "move [task-id] [status]",
	Short: "Move a task to the end of another column",
	Long:  `Move a task to the end of a column: todo, working, in-progress or done.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := domain.ParseTaskStatus(args[1])
		if err != nil {
			return err
		}
		if err := app.tasks.MoveTaskToStatus(args[0], status); err != nil {
			return taskErr(args[0], err)
		}
		task, _ := app.tasks.GetTask(args[0])
		if jsonOutput {
			return printJSON(out(cmd), taskJSON(task))
		}
		fmt.Fprintf(out(cmd), "%s %s moved to %s\n", statusIcon(status), task.Title, status.Label())
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Move a task to done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.tasks.CompleteTask(args[0]); err != nil {
			return taskErr(args[0], err)
		}
		task, _ := app.tasks.GetTask(args[0])
		if jsonOutput {
			return printJSON(out(cmd), taskJSON(task))
		}
		fmt.Fprintf(out(cmd), "%s Task completed: %s\n", success.Sprint("✓"), task.Title)
		return nil
	},
}

var taskFocusCmd = &cobra.Command{
	Use:   "focus [task-id]",
	Short: "Make a task the focus of the pomodoro timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.GetTask(args[0])
		if err != nil {
			return taskErr(args[0], err)
		}
		app.store.SetActiveTask(task.ID)
		if jsonOutput {
			return printJSON(out(cmd), taskJSON(task))
		}
		fmt.Fprintf(out(cmd), "◎ Focusing on %s\n", task.Title)
		return nil
	},
}

var taskDeleteYes bool

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long:  `Delete a task by its ID. Use with caution - this cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.GetTask(args[0])
		if err != nil {
			return taskErr(args[0], err)
		}

		if !jsonOutput && !taskDeleteYes {
			confirmed := false
			err := huh.NewConfirm().
				Title(fmt.Sprintf("Delete task '%s' (%s)?", task.Title, shortID(task.ID))).
				Value(&confirmed).
				Run()
			if err != nil || !confirmed {
				fmt.Fprintln(out(cmd), "Deletion cancelled.")
				return nil
			}
		}

		if err := app.tasks.DeleteTask(task.ID); err != nil {
			return taskErr(args[0], err)
		}
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"deleted": true, "task_id": task.ID})
		}
		fmt.Fprintf(out(cmd), "%s Task '%s' deleted.\n", success.Sprint("✓"), task.Title)
		return nil
	},
}

var taskFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy find tasks by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches := app.tasks.FindTasks(joinArgs(args))
		if jsonOutput {
			list := make([]map[string]any, 0, len(matches))
			for _, m := range matches {
				data := taskJSON(m.Task)
				data["score"] = m.Score
				list = append(list, data)
			}
			return printJSON(out(cmd), map[string]any{"tasks": list, "count": len(list)})
		}
		if len(matches) == 0 {
			fmt.Fprintln(out(cmd), "No matching tasks.")
			return nil
		}
		tbl := newTable("", "ID", "TITLE", "COLUMN")
		for _, m := range matches {
			tbl.AddRow(statusIcon(m.Task.Status), shortID(m.Task.ID), highlight(m.Task.Title, m.MatchedIndexes), m.Task.Status.Label())
		}
		fmt.Fprintln(out(cmd), tbl)
		return nil
	},
}

// highlight bolds the matched byte positions of s.
func highlight(s string, idx []int) string {
	if len(idx) == 0 {
		return s
	}
	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(warn.Sprint(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func taskErr(ref string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("task not found: %s", ref)
	}
	return err
}

func init() {
	taskAddCmd.Flags().StringArrayVarP(&taskTags, "tags", "t", []string{}, "Tags for the task")
	taskAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
	taskAddCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "Board column (todo, working, in-progress, done)")
	taskAddCmd.Flags().IntVarP(&taskPriority, "priority", "p", 0, "Priority: 1 high, 2 medium, 3 low")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date, YYYY-MM-DD")
	taskAddCmd.Flags().BoolVarP(&taskInteractive, "interactive", "i", false, "Fill the task in a form")

	taskListCmd.Flags().StringVarP(&taskListStatus, "status", "s", "", "Filter by column (todo, working, in-progress, done)")
	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "Include done tasks")

	taskDeleteCmd.Flags().BoolVarP(&taskDeleteYes, "yes", "y", false, "Skip the confirmation")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskMoveCmd, taskDoneCmd, taskFocusCmd, taskDeleteCmd, taskFindCmd)
}
