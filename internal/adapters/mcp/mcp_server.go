// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
	"github.com/xvierd/dailo/internal/ports"
)

// Version is reported to MCP clients. The CLI overrides it with the build
// version.
var Version = "dev"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server    *server.MCPServer
	dashboard ports.Dashboard
	timer     ports.TimerControl
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithTimer routes start_pomodoro and pause_pomodoro through a running
// clock. Without one they only flip the stored flag.
func WithTimer(timer ports.TimerControl) Option {
	return func(s *Server) { s.timer = timer }
}

// NewServer creates a new MCP server instance.
func NewServer(dashboard ports.Dashboard, opts ...Option) *Server {
	s := &Server{
		dashboard: dashboard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = server.NewMCPServer(
		"dailo",
		Version,
		server.WithLogging(),
	)
	s.registerTools()
	return s
}

func statusNames() []string {
	out := make([]string, len(domain.TaskStatuses))
	for i, st := range domain.TaskStatuses {
		out[i] = string(st)
	}
	return out
}

func phaseNames() []string {
	out := make([]string, len(domain.Phases))
	for i, p := range domain.Phases {
		out[i] = string(p)
	}
	return out
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get the dashboard state: pomodoro timer, active task, board counts, today's priorities, habits and notes"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List board tasks in column order, optionally filtered by status"),
			mcp.WithString("status", mcp.Description("Board column to list"), mcp.Enum(statusNames()...)),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"add_task",
			mcp.WithDescription("Add a task to the end of a board column"),
			mcp.WithString("title", mcp.Required(), mcp.Description("The title of the task")),
			mcp.WithString("description", mcp.Description("Optional description of the task")),
			mcp.WithString("status", mcp.Description("Board column, default todo"), mcp.Enum(statusNames()...)),
			mcp.WithNumber("priority", mcp.Description("1 (high) to 3 (low), default 2")),
			mcp.WithArray("tags", mcp.Description("Optional array of tags"), mcp.WithStringItems()),
			mcp.WithString("due_date", mcp.Description("Optional due date, YYYY-MM-DD")),
		),
		s.handleAddTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_task",
			mcp.WithDescription("Change the title, description or priority of a task"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID or unique prefix")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithNumber("priority", mcp.Description("New priority, 1 to 3")),
		),
		s.handleUpdateTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"move_task",
			mcp.WithDescription("Move a task onto another task's position, or to the end of a board column"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID or unique prefix")),
			mcp.WithString("over_task_id", mcp.Description("Task to drop onto")),
			mcp.WithString("status", mcp.Description("Column to drop into"), mcp.Enum(statusNames()...)),
		),
		s.handleMoveTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"delete_task",
			mcp.WithDescription("Delete a task"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID or unique prefix")),
		),
		s.handleDeleteTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_habit_day",
			mcp.WithDescription("Toggle completion of a habit on a day"),
			mcp.WithString("habit_id", mcp.Required(), mcp.Description("Habit ID or unique prefix")),
			mcp.WithString("date", mcp.Description("Day to toggle, YYYY-MM-DD, default today")),
		),
		s.handleToggleHabitDay,
	)

	s.server.AddTool(
		mcp.NewTool(
			"add_note",
			mcp.WithDescription("Create a note and select it"),
			mcp.WithString("title", mcp.Description("Note title")),
			mcp.WithString("content", mcp.Description("Plain text body")),
		),
		s.handleAddNote,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_note",
			mcp.WithDescription("Replace a note's title or body"),
			mcp.WithString("note_id", mcp.Required(), mcp.Description("Note ID or unique prefix")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("content", mcp.Description("New plain text body")),
		),
		s.handleUpdateNote,
	)

	s.server.AddTool(
		mcp.NewTool("start_pomodoro", mcp.WithDescription("Start the pomodoro countdown")),
		s.handleStartPomodoro,
	)
	s.server.AddTool(
		mcp.NewTool("pause_pomodoro", mcp.WithDescription("Pause the pomodoro countdown")),
		s.handlePausePomodoro,
	)
	s.server.AddTool(
		mcp.NewTool("reset_pomodoro", mcp.WithDescription("Reset to a fresh focus phase")),
		s.handleResetPomodoro,
	)
	s.server.AddTool(
		mcp.NewTool(
			"select_phase",
			mcp.WithDescription("Switch the paused timer to another phase"),
			mcp.WithString("phase", mcp.Required(), mcp.Enum(phaseNames()...)),
		),
		s.handleSelectPhase,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolve finds the single id among ids that equals or starts with ref.
func resolve(kind, ref string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%s id %q is ambiguous", kind, ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s %q: %w", kind, ref, domain.ErrNotFound)
	}
	return match, nil
}

func (s *Server) resolveTask(ref string) (string, error) {
	tasks := s.dashboard.GetState().Tasks
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolve("task", ref, ids)
}

func taskData(t domain.Task) map[string]any {
	data := map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    int(t.Priority),
		"tags":        t.Tags,
		"order":       t.Order,
	}
	if t.DueDate != nil {
		data["due_date"] = *t.DueDate
	}
	return data
}

func timerData(st domain.State) map[string]any {
	t := st.PomodoroTimer
	return map[string]any{
		"phase":              string(t.Phase),
		"time_left":          fmt.Sprintf("%02d:%02d", t.TimeLeft/60, t.TimeLeft%60),
		"seconds_left":       t.TimeLeft,
		"is_running":         t.IsRunning,
		"sessions_completed": t.SessionsCompleted,
		"progress":           t.Progress(st.PomodoroSettings),
	}
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.dashboard.GetState()
	now := s.now()
	today := domain.FormatDate(now)

	board := map[string]int{}
	for _, status := range domain.TaskStatuses {
		board[string(status)] = len(st.TasksByStatus(status))
	}

	todos := make([]map[string]any, 0, len(st.Todos))
	for _, t := range st.Todos {
		todos = append(todos, map[string]any{"id": t.ID, "text": t.Text, "completed": t.Completed, "priority": int(t.Priority)})
	}

	habits := make([]map[string]any, 0, len(st.Habits))
	for _, h := range st.Habits {
		habits = append(habits, map[string]any{
			"id":        h.ID,
			"name":      h.Name,
			"today":     h.Count(today),
			"target":    h.Target,
			"completed": h.IsCompleted(today),
			"streak":    h.Streak(now),
		})
	}

	notes := make([]map[string]any, 0, len(st.Notes))
	for _, n := range st.Notes {
		notes = append(notes, map[string]any{"id": n.ID, "title": n.Title, "updated_at": n.UpdatedAt.Format(time.RFC3339)})
	}

	result := map[string]any{
		"pomodoro":    timerData(st),
		"active_task": nil,
		"board":       board,
		"todos":       todos,
		"habits":      habits,
		"notes":       notes,
	}
	if t, ok := st.ActiveTask(); ok {
		result["active_task"] = taskData(t)
	}
	return jsonResult(result)
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := request.GetString("status", "")
	if filter != "" {
		if _, err := domain.ParseTaskStatus(filter); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid status %q", filter)), nil
		}
	}

	st := s.dashboard.GetState()
	tasks := []map[string]any{}
	for _, status := range domain.TaskStatuses {
		if filter != "" && string(status) != filter {
			continue
		}
		for _, t := range st.TasksByStatus(status) {
			tasks = append(tasks, taskData(t))
		}
	}
	return jsonResult(map[string]any{"tasks": tasks, "count": len(tasks)})
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	in := domain.TaskInput{
		Title:       title,
		Description: request.GetString("description", ""),
		Status:      domain.TaskStatus(request.GetString("status", "")),
		Priority:    domain.Priority(request.GetInt("priority", 0)),
		Tags:        request.GetStringSlice("tags", nil),
	}
	if due := request.GetString("due_date", ""); due != "" {
		in.DueDate = &due
	}

	task, err := s.dashboard.AddTask(in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}
	return jsonResult(taskData(task))
}

// handleUpdateTask handles the update_task tool.
func (s *Server) handleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}
	id, err := s.resolveTask(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch domain.TaskPatch
	if title := strings.TrimSpace(request.GetString("title", "")); title != "" {
		patch.Title = &title
	}
	if desc := request.GetString("description", ""); desc != "" {
		patch.Description = &desc
	}
	if p := domain.Priority(request.GetInt("priority", 0)); p != 0 {
		if !p.Valid() {
			return mcp.NewToolResultError(domain.ErrInvalidPriority.Error()), nil
		}
		patch.Priority = &p
	}

	s.dashboard.UpdateTask(id, patch)
	task, _ := s.dashboard.GetState().TaskByID(id)
	return jsonResult(taskData(task))
}

// handleMoveTask handles the move_task tool.
func (s *Server) handleMoveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}
	id, err := s.resolveTask(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var over string
	switch {
	case request.GetString("over_task_id", "") != "":
		over, err = s.resolveTask(request.GetString("over_task_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	case request.GetString("status", "") != "":
		status, err := domain.ParseTaskStatus(request.GetString("status", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		over = layout.StatusTarget(status)
	default:
		return mcp.NewToolResultError("one of over_task_id or status is required"), nil
	}

	moved := s.dashboard.MoveTask(id, over)
	task, _ := s.dashboard.GetState().TaskByID(id)
	data := taskData(task)
	data["moved"] = moved
	return jsonResult(data)
}

// handleDeleteTask handles the delete_task tool.
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}
	id, err := s.resolveTask(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.dashboard.DeleteTask(id)
	return jsonResult(map[string]any{"id": id, "deleted": true})
}

// handleToggleHabitDay handles the toggle_habit_day tool.
func (s *Server) handleToggleHabitDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("habit_id")
	if err != nil {
		return mcp.NewToolResultError("habit_id is required: " + err.Error()), nil
	}
	habits := s.dashboard.GetState().Habits
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	id, err := resolve("habit", ref, ids)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	date := request.GetString("date", domain.FormatDate(s.now()))
	if _, err := domain.ParseDate(date); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date %q", date)), nil
	}
	s.dashboard.ToggleHabitDay(id, date)

	for _, h := range s.dashboard.GetState().Habits {
		if h.ID == id {
			return jsonResult(map[string]any{
				"id":        h.ID,
				"name":      h.Name,
				"date":      date,
				"count":     h.Count(date),
				"completed": h.IsCompleted(date),
				"streak":    h.Streak(s.now()),
			})
		}
	}
	return mcp.NewToolResultError("habit disappeared while toggling"), nil
}

// handleAddNote handles the add_note tool.
func (s *Server) handleAddNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note := s.dashboard.AddNote(request.GetString("title", ""))
	if body := request.GetString("content", ""); body != "" {
		content := domain.TextToHTML(body)
		s.dashboard.UpdateNote(note.ID, domain.NotePatch{Content: &content})
	}
	note, _ = s.dashboard.GetState().NoteByID(note.ID)
	return jsonResult(map[string]any{"id": note.ID, "title": note.Title, "content": note.Content})
}

// handleUpdateNote handles the update_note tool.
func (s *Server) handleUpdateNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError("note_id is required: " + err.Error()), nil
	}
	notes := s.dashboard.GetState().Notes
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	id, err := resolve("note", ref, ids)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch domain.NotePatch
	if title := strings.TrimSpace(request.GetString("title", "")); title != "" {
		patch.Title = &title
	}
	if body := request.GetString("content", ""); body != "" {
		content := domain.TextToHTML(body)
		patch.Content = &content
	}
	s.dashboard.UpdateNote(id, patch)
	note, _ := s.dashboard.GetState().NoteByID(id)
	return jsonResult(map[string]any{"id": note.ID, "title": note.Title, "content": note.Content})
}

// handleStartPomodoro handles the start_pomodoro tool.
func (s *Server) handleStartPomodoro(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.timer != nil {
		s.timer.StartTimer(ctx)
	} else {
		s.dashboard.StartPomodoro()
	}
	return jsonResult(timerData(s.dashboard.GetState()))
}

// handlePausePomodoro handles the pause_pomodoro tool.
func (s *Server) handlePausePomodoro(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.timer != nil {
		s.timer.PauseTimer()
	} else {
		s.dashboard.PausePomodoro()
	}
	return jsonResult(timerData(s.dashboard.GetState()))
}

// handleResetPomodoro handles the reset_pomodoro tool.
func (s *Server) handleResetPomodoro(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.dashboard.ResetPomodoroTimer()
	return jsonResult(timerData(s.dashboard.GetState()))
}

// handleSelectPhase handles the select_phase tool.
func (s *Server) handleSelectPhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("phase")
	if err != nil {
		return mcp.NewToolResultError("phase is required: " + err.Error()), nil
	}
	phase, err := domain.ParsePhase(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid phase %q", name)), nil
	}
	if s.dashboard.GetState().PomodoroTimer.IsRunning {
		return mcp.NewToolResultError("pause the timer before switching phase"), nil
	}
	s.dashboard.SelectPomodoroPhase(phase)
	return jsonResult(timerData(s.dashboard.GetState()))
}
