package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/adapters/mcp"
	"github.com/xvierd/dailo/internal/services"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server so AI assistants can read
and edit the dashboard: tasks, habits, notes and the pomodoro timer.
The server speaks over stdio until interrupted, and runs the pomodoro
countdown while it is up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("the MCP server is disabled; set mcp.enabled = true in the config")
		}

		// stdout carries the protocol.
		stderr := cmd.ErrOrStderr()
		fmt.Fprintln(stderr, "🚀 Starting MCP server...")
		fmt.Fprintln(stderr, "   The server will communicate via stdio")
		fmt.Fprintln(stderr, "   Press Ctrl+C to stop")

		ctx := setupSignalHandler()

		// No chime or title sink: both would write to stdout.
		ticker := services.NewTicker(app.store, nil, app.notifier,
			services.WithLogger(prefixed(app.logger, "ticker: ")))
		ticker.Start(ctx)
		defer ticker.Stop()

		mcp.Version = Version
		server := mcp.NewServer(app.store, mcp.WithTimer(ticker))
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
