package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit settings",
	Long: `Show the settings read from the config file. Timer lengths here seed a
fresh install; once the dashboard has saved its own timer settings those
win. Use "dailo config edit" to change them interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		path, err := configFile()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"path": path, "config": configJSON(cfg)})
		}

		w := out(cmd)
		fmt.Fprintf(w, "%s\n\n", faint.Sprint(path))
		tbl := newTable("SETTING", "VALUE")
		for _, row := range configRows(cfg) {
			tbl.AddRow(row[0], row[1])
		}
		fmt.Fprintln(w, tbl)
		return nil
	},
}

func configFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func configRows(cfg *config.Config) [][2]string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	tty := cfg.Surface.TTY
	if tty == "" {
		tty = "(off)"
	}
	return [][2]string{
		{"pomodoro.focus_duration", cfg.Pomodoro.FocusDuration.String()},
		{"pomodoro.short_break", cfg.Pomodoro.ShortBreak.String()},
		{"pomodoro.long_break", cfg.Pomodoro.LongBreak.String()},
		{"pomodoro.sessions_before_long", strconv.Itoa(cfg.Pomodoro.SessionsBeforeLong)},
		{"notifications.enabled", onOff(cfg.Notifications.Enabled)},
		{"notifications.sound", onOff(cfg.Notifications.Sound)},
		{"storage.data_dir", cfg.Storage.DataDir},
		{"surface.tty", tty},
		{"playback.mpv_path", cfg.Playback.MPVPath},
		{"playback.media_dir", cfg.Playback.MediaDir},
		{"tasks.tag_git_branch", onOff(cfg.Tasks.TagGitBranch)},
		{"mcp.enabled", onOff(cfg.MCP.Enabled)},
		{"theme.mode", cfg.Theme.Mode},
	}
}

func configJSON(cfg *config.Config) map[string]any {
	data := make(map[string]any)
	for _, row := range configRows(cfg) {
		data[row[0]] = row[1]
	}
	return data
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *app.config
		path, err := configFile()
		if err != nil {
			return err
		}
		form, apply := configForm(&cfg)
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(out(cmd), "No changes made.")
				return nil
			}
			return err
		}
		apply()
		if err := config.SaveTo(path, &cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		*app.config = cfg
		fmt.Fprintf(out(cmd), "%s Saved %s\n", success.Sprint("✓"), path)
		return nil
	},
}

// configForm binds the editable settings. Durations are entered in
// minutes; apply writes them back to cfg after a submit.
func configForm(cfg *config.Config) (*huh.Form, func()) {
	minutes := func(d config.Duration) string {
		return strconv.Itoa(int(time.Duration(d).Minutes()))
	}
	focus := minutes(cfg.Pomodoro.FocusDuration)
	short := minutes(cfg.Pomodoro.ShortBreak)
	long := minutes(cfg.Pomodoro.LongBreak)
	sessions := strconv.Itoa(cfg.Pomodoro.SessionsBeforeLong)

	positive := func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("enter a whole number of at least 1")
		}
		return nil
	}
	toDuration := func(s string, d *config.Duration) {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			*d = config.Duration(time.Duration(n) * time.Minute)
		}
	}

	apply := func() {
		toDuration(focus, &cfg.Pomodoro.FocusDuration)
		toDuration(short, &cfg.Pomodoro.ShortBreak)
		toDuration(long, &cfg.Pomodoro.LongBreak)
		if n, err := strconv.Atoi(sessions); err == nil && n > 0 {
			cfg.Pomodoro.SessionsBeforeLong = n
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus minutes").Value(&focus).Validate(positive),
			huh.NewInput().Title("Short break minutes").Value(&short).Validate(positive),
			huh.NewInput().Title("Long break minutes").Value(&long).Validate(positive),
			huh.NewInput().Title("Focus sessions before a long break").Value(&sessions).Validate(positive),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Desktop notifications").Value(&cfg.Notifications.Enabled),
			huh.NewConfirm().Title("Chime when a phase ends").Value(&cfg.Notifications.Sound),
			huh.NewConfirm().Title("Tag new tasks with the git branch").Value(&cfg.Tasks.TagGitBranch),
		).Title("Behaviour"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", string(domain.ThemeDark)),
					huh.NewOption("Light", string(domain.ThemeLight)),
				).
				Value(&cfg.Theme.Mode),
			huh.NewInput().Title("Detached timer terminal (e.g. /dev/pts/3, blank for off)").Value(&cfg.Surface.TTY),
		).Title("Display"),
	)
	return form, apply
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
