package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/services"
)

var noteBody string

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes"},
	Short:   "Write and search notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a note",
	Long: `Create a note and select it on the dashboard. The body comes from
--body, or from stdin when --body is "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := noteBody
		if body == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read note body: %w", err)
			}
			body = strings.TrimRight(string(data), "\n")
		}

		note := app.store.AddNote(joinArgs(args))
		if body != "" {
			content := domain.TextToHTML(body)
			app.store.UpdateNote(note.ID, domain.NotePatch{Content: &content})
			note, _ = app.store.GetState().NoteByID(note.ID)
		}

		if jsonOutput {
			return printJSON(out(cmd), noteJSON(note))
		}
		fmt.Fprintf(out(cmd), "%s Note created: %s (ID: %s)\n", success.Sprint("✓"), note.Title, shortID(note.ID))
		return nil
	},
}

func noteJSON(n domain.Note) map[string]any {
	return map[string]any{
		"id":         n.ID,
		"title":      n.Title,
		"text":       domain.HTMLToText(n.Content),
		"created_at": domain.FormatDateTime(n.CreatedAt),
		"updated_at": domain.FormatDateTime(n.UpdatedAt),
	}
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := app.store.GetState().Notes
		if jsonOutput {
			list := make([]map[string]any, 0, len(notes))
			for _, n := range notes {
				list = append(list, noteJSON(n))
			}
			return printJSON(out(cmd), map[string]any{"notes": list, "count": len(list)})
		}
		if len(notes) == 0 {
			fmt.Fprintln(out(cmd), "No notes yet.")
			return nil
		}
		active, _ := app.store.ActiveNote()
		tbl := newTable("", "ID", "TITLE", "UPDATED")
		for _, n := range notes {
			mark := ""
			if n.ID == active.ID {
				mark = "▸"
			}
			tbl.AddRow(mark, shortID(n.ID), n.Title, faint.Sprint(humanize.RelTime(n.UpdatedAt, nowFunc(), "ago", "from now")))
		}
		fmt.Fprintln(out(cmd), tbl)
		return nil
	},
}

func findNote(ref string) (domain.Note, error) {
	var found []domain.Note
	for _, n := range app.store.GetState().Notes {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) {
			found = append(found, n)
		}
	}
	switch len(found) {
	case 0:
		return domain.Note{}, fmt.Errorf("note not found: %s", ref)
	case 1:
		return found[0], nil
	}
	return domain.Note{}, fmt.Errorf("ambiguous note id %q: %d matches", ref, len(found))
}

var noteShowCmd = &cobra.Command{
	Use:   "show [note-id]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := findNote(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), noteJSON(note))
		}
		fmt.Fprintln(out(cmd), bold.Sprint(note.Title))
		fmt.Fprintln(out(cmd), faint.Sprintf("updated %s", humanize.RelTime(note.UpdatedAt, nowFunc(), "ago", "from now")))
		fmt.Fprintln(out(cmd))
		fmt.Fprintln(out(cmd), wordwrap.String(domain.HTMLToText(note.Content), terminalWidth(os.Stdout)))
		return nil
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := findNote(args[0])
		if err != nil {
			return err
		}
		app.store.DeleteNote(note.ID)
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"deleted": true, "note_id": note.ID})
		}
		fmt.Fprintf(out(cmd), "%s Note '%s' deleted.\n", success.Sprint("✓"), note.Title)
		return nil
	},
}

var noteFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy find notes by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches := services.FindNotes(app.store, joinArgs(args))
		if jsonOutput {
			list := make([]map[string]any, 0, len(matches))
			for _, m := range matches {
				data := noteJSON(m.Note)
				data["score"] = m.Score
				list = append(list, data)
			}
			return printJSON(out(cmd), map[string]any{"notes": list, "count": len(list)})
		}
		if len(matches) == 0 {
			fmt.Fprintln(out(cmd), "No matching notes.")
			return nil
		}
		tbl := newTable("ID", "TITLE")
		for _, m := range matches {
			tbl.AddRow(shortID(m.Note.ID), highlight(m.Note.Title, m.MatchedIndexes))
		}
		fmt.Fprintln(out(cmd), tbl)
		return nil
	},
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteBody, "body", "b", "", `Note body, or "-" to read stdin`)
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteShowCmd, noteDeleteCmd, noteFindCmd)
}
