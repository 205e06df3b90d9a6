package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	warn    = color.New(color.FgHiYellow)
	danger  = color.New(color.FgRed)
)

// nowFunc is the clock used for "today"; tests pin it.
var nowFunc = time.Now

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	for i := range header {
		header[i] = bold.Sprint(header[i])
	}
	tbl.AddRow(header...)
	return tbl
}

// shortID is the id prefix shown in tables; any unique prefix is accepted
// back as an argument.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func priorityLabel(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return danger.Sprint("high")
	case domain.PriorityLow:
		return faint.Sprint("low")
	default:
		return warn.Sprint("medium")
	}
}

func statusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusTodo:
		return "○"
	case domain.StatusWorking:
		return "◔"
	case domain.StatusInProgress:
		return "◑"
	case domain.StatusDone:
		return "●"
	default:
		return "?"
	}
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func taskJSON(t domain.Task) map[string]any {
	data := map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    int(t.Priority),
		"tags":        t.Tags,
		"created_at":  domain.FormatDateTime(t.CreatedAt),
	}
	if t.DueDate != nil {
		data["due_date"] = *t.DueDate
	}
	return data
}

// terminalWidth is the wrap width for long text, 80 when f is not a
// terminal.
func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
