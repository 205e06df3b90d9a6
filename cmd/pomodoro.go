package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/adapters/titlebar"
	"github.com/xvierd/dailo/internal/domain"
)

var (
	pomoFocus    int
	pomoShort    int
	pomoLong     int
	pomoSessions int
)

var pomodoroCmd = &cobra.Command{
	Use:     "pomodoro",
	Aliases: []string{"pomo", "timer"},
	Short:   "Inspect and control the pomodoro timer",
	Long: `Inspect and control the pomodoro timer. The countdown only runs inside
a long-lived process, the dashboard or "dailo mcp", so starting and
pausing happen there; these commands change the paused timer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTimer(cmd)
	},
}

func timerJSON(st domain.State) map[string]any {
	t := st.PomodoroTimer
	data := map[string]any{
		"phase":              string(t.Phase),
		"label":              t.Phase.Label(),
		"time_left":          formatClock(t.TimeLeft),
		"seconds_left":       t.TimeLeft,
		"is_running":         t.IsRunning,
		"sessions_completed": t.SessionsCompleted,
		"progress":           t.Progress(st.PomodoroSettings),
		"settings": map[string]any{
			"focus_minutes":             st.PomodoroSettings.FocusDuration,
			"short_break_minutes":       st.PomodoroSettings.ShortBreakDuration,
			"long_break_minutes":        st.PomodoroSettings.LongBreakDuration,
			"sessions_until_long_break": st.PomodoroSettings.SessionsUntilLongBreak,
		},
	}
	if task, ok := st.ActiveTask(); ok {
		data["active_task"] = taskJSON(task)
	}
	return data
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func printTimer(cmd *cobra.Command) error {
	st := app.store.GetState()
	if jsonOutput {
		return printJSON(out(cmd), timerJSON(st))
	}

	t := st.PomodoroTimer
	state := faint.Sprint("paused")
	if t.IsRunning {
		state = success.Sprint("running")
	}
	fmt.Fprintf(out(cmd), "%s  %s\n", bold.Sprint(titlebar.Title(t, st.PomodoroSettings)), state)
	fmt.Fprintf(out(cmd), "Sessions completed: %d (long break every %d)\n", t.SessionsCompleted, st.PomodoroSettings.SessionsUntilLongBreak)
	if task, ok := st.ActiveTask(); ok && !t.Phase.IsBreak() {
		fmt.Fprintf(out(cmd), "Working on: %s\n", task.Title)
	}
	return nil
}

var pomodoroStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTimer(cmd)
	},
}

// errNoClock rejects start and pause in a one-shot process, which would
// exit before a single second is counted.
var errNoClock = errors.New("the countdown runs in the dashboard; run dailo and press space to start or pause")

var pomodoroStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the countdown (dashboard only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errNoClock
	},
}

var pomodoroPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the countdown (dashboard only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errNoClock
	},
}

var pomodoroResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset to a fresh focus phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.store.ResetPomodoroTimer()
		return printTimer(cmd)
	},
}

var pomodoroPhaseCmd = &cobra.Command{
	Use:       "phase [focus|shortBreak|longBreak]",
	Short:     "Switch the paused timer to another phase",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.PhaseFocus), string(domain.PhaseShortBreak), string(domain.PhaseLongBreak)},
	RunE: func(cmd *cobra.Command, args []string) error {
		phase, err := domain.ParsePhase(args[0])
		if err != nil {
			return err
		}
		if app.store.GetState().PomodoroTimer.IsRunning {
			return fmt.Errorf("pause the timer before switching phase")
		}
		app.store.SelectPomodoroPhase(phase)
		return printTimer(cmd)
	},
}

var pomodoroSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change phase lengths in minutes",
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch domain.SettingsPatch
		flags := cmd.Flags()
		if flags.Changed("focus") {
			patch.FocusDuration = &pomoFocus
		}
		if flags.Changed("short") {
			patch.ShortBreakDuration = &pomoShort
		}
		if flags.Changed("long") {
			patch.LongBreakDuration = &pomoLong
		}
		if flags.Changed("sessions") {
			patch.SessionsUntilLongBreak = &pomoSessions
		}
		app.store.UpdatePomodoroSettings(patch)
		return printTimer(cmd)
	},
}

func init() {
	pomodoroSetCmd.Flags().IntVar(&pomoFocus, "focus", 25, "Focus minutes")
	pomodoroSetCmd.Flags().IntVar(&pomoShort, "short", 5, "Short break minutes")
	pomodoroSetCmd.Flags().IntVar(&pomoLong, "long", 15, "Long break minutes")
	pomodoroSetCmd.Flags().IntVar(&pomoSessions, "sessions", 4, "Focus sessions before a long break")

	pomodoroCmd.AddCommand(pomodoroStatusCmd, pomodoroStartCmd, pomodoroPauseCmd, pomodoroResetCmd, pomodoroPhaseCmd, pomodoroSetCmd)
}
