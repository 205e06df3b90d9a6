package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Back up the dashboard to a JSON file",
	Long: `Write the saved dashboard (tasks, todos, time blocks, habits, notes,
timer settings and custom streams) to a JSON file that "dailo import"
reads back. Use -o - to write to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := app.store.Export()
		if err != nil {
			return err
		}
		if exportOutput == "-" {
			_, err = out(cmd).Write(append(data, '\n'))
			return err
		}

		path := exportOutput
		if path == "" {
			path = store.ExportFileName(nowFunc())
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"path": path, "bytes": len(data)})
		}
		fmt.Fprintf(out(cmd), "%s Exported to %s\n", success.Sprint("✓"), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the dashboard with a JSON backup",
	Long: `Replace the saved dashboard with the contents of a file written by
"dailo export". Older backups are upgraded on the way in. A file that
cannot be read leaves everything as it was. Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}

		if err := app.store.Import(data); err != nil {
			if errors.Is(err, domain.ErrInvalidImport) {
				return fmt.Errorf("nothing imported: %w", err)
			}
			return fmt.Errorf("failed to import: %w", err)
		}

		st := app.store.GetState()
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{
				"imported":    true,
				"tasks":       len(st.Tasks),
				"todos":       len(st.Todos),
				"time_blocks": len(st.TimeBlocks),
				"habits":      len(st.Habits),
				"notes":       len(st.Notes),
			})
		}
		fmt.Fprintf(out(cmd), "%s Imported %d tasks, %d todos, %d time blocks, %d habits and %d notes\n",
			success.Sprint("✓"), len(st.Tasks), len(st.Todos), len(st.TimeBlocks), len(st.Habits), len(st.Notes))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "File to write (default dailo-backup-<date>.json)")
}
