package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/adapters/blob"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/services"
)

var canvasOutput string

var canvasCmd = &cobra.Command{
	Use:     "canvas",
	Aliases: []string{"drawing"},
	Short:   "Back up or restore the drawing canvas",
	Long: `The drawing canvas is stored as an Excalidraw scene next to the
dashboard database. These commands move it in and out as JSON.`,
}

func canvasService() *services.CanvasService {
	return services.NewCanvasService(blob.New(config.GetCanvasDir(app.config), ""), prefixed(app.logger, "canvas"))
}

var canvasExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the drawing as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, ok, err := canvasService().Load()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("nothing has been drawn yet")
		}
		data, err := json.MarshalIndent(scene, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode drawing: %w", err)
		}
		if canvasOutput == "" || canvasOutput == "-" {
			_, err = out(cmd).Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(canvasOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write drawing: %w", err)
		}
		fmt.Fprintf(out(cmd), "%s Drawing exported to %s (%d elements)\n", success.Sprint("✓"), canvasOutput, len(scene.Elements))
		return nil
	},
}

var canvasImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the drawing with a JSON scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read drawing: %w", err)
		}
		var scene services.CanvasScene
		if err := json.Unmarshal(data, &scene); err != nil {
			return fmt.Errorf("failed to decode drawing: %w", err)
		}

		canvas := canvasService()
		canvas.Save(scene)
		if err := canvas.Flush(); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"imported": true, "elements": len(scene.Elements)})
		}
		fmt.Fprintf(out(cmd), "%s Drawing imported (%d elements)\n", success.Sprint("✓"), len(scene.Elements))
		return nil
	},
}

var canvasClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the drawing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := canvasService().Clear(); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"cleared": true})
		}
		fmt.Fprintf(out(cmd), "%s Drawing cleared\n", success.Sprint("✓"))
		return nil
	},
}

func init() {
	canvasExportCmd.Flags().StringVarP(&canvasOutput, "output", "o", "", "File to write (default stdout)")
	canvasCmd.AddCommand(canvasExportCmd, canvasImportCmd, canvasClearCmd)
}
