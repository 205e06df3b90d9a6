// Package cmd provides the CLI commands for the dailo application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	dbPath     string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dailo",
	Short: "dailo - a terminal productivity dashboard",
	Long: `dailo is a terminal dashboard combining a pomodoro timer, a task board,
daily priorities, time blocks, habit tracking, notes and background sound.

Run "dailo" with no arguments to open the dashboard. Every subcommand works
on the same saved state, so tasks added from a script show up on the board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runDashboard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if cerr := cleanupServices(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.dailo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: <data_dir>/dailo.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("dailo\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(timeblockCmd)
	rootCmd.AddCommand(pomodoroCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(canvasCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}
