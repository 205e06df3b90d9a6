package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
)

var (
	habitTarget      int
	habitUnit        string
	habitIcon        string
	habitInteractive bool
	habitDate        string
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits"},
	Short:   "Track daily habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a habit",
	Long: `Add a habit. With --target above 1 the habit counts towards a daily
goal (e.g. 8 glasses); otherwise it is a simple done/not done habit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := domain.HabitInput{
			Name:   joinArgs(args),
			Icon:   habitIcon,
			Target: habitTarget,
			Unit:   habitUnit,
		}
		if habitTarget < 0 {
			return fmt.Errorf("invalid argument %q for \"--target\" flag: target must be a positive number", strconv.Itoa(habitTarget))
		}
		if habitInteractive {
			if err := habitForm(&in); err != nil {
				return err
			}
		}
		in.Type = domain.HabitBinary
		if in.Target > 1 {
			in.Type = domain.HabitCount
		}

		habit, err := app.store.AddHabit(in)
		if err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}
		if jsonOutput {
			return printJSON(out(cmd), habitJSON(habit))
		}
		fmt.Fprintf(out(cmd), "%s Habit added: %s (ID: %s)\n", success.Sprint("✓"), habit.Name, shortID(habit.ID))
		return nil
	},
}

func habitForm(in *domain.HabitInput) error {
	target := ""
	if in.Target > 0 {
		target = strconv.Itoa(in.Target)
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return domain.ErrEmptyTitle
				}
				return nil
			}),
			huh.NewInput().Title("Icon (emoji, optional)").Value(&in.Icon),
			huh.NewInput().Title("Daily target (blank for done/not done)").Value(&target).Validate(func(s string) error {
				if s = strings.TrimSpace(s); s == "" {
					return nil
				}
				if n, err := strconv.Atoi(s); err != nil || n < 1 {
					return errors.New("target must be a positive number")
				}
				return nil
			}),
			huh.NewInput().Title("Unit (e.g. glasses)").Value(&in.Unit),
		),
	).Run()
	if err != nil {
		return fmt.Errorf("habit form: %w", err)
	}
	in.Target = 0
	if target = strings.TrimSpace(target); target != "" {
		n, err := strconv.Atoi(target)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid target %q: must be a positive number", target)
		}
		in.Target = n
	}
	return nil
}

func habitJSON(h domain.Habit) map[string]any {
	today := domain.FormatDate(nowFunc())
	return map[string]any{
		"id":        h.ID,
		"name":      h.Name,
		"icon":      h.Icon,
		"type":      string(h.Type),
		"target":    h.Target,
		"unit":      h.Unit,
		"today":     h.Count(today),
		"completed": h.IsCompleted(today),
		"streak":    h.Streak(nowFunc()),
	}
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's progress and streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		habits := app.store.GetState().Habits
		if jsonOutput {
			list := make([]map[string]any, 0, len(habits))
			for _, h := range habits {
				list = append(list, habitJSON(h))
			}
			return printJSON(out(cmd), map[string]any{"habits": list, "count": len(list)})
		}
		if len(habits) == 0 {
			fmt.Fprintln(out(cmd), "No habits yet.")
			return nil
		}

		today := domain.FormatDate(nowFunc())
		tbl := newTable("", "ID", "HABIT", "TODAY", "STREAK", "LAST 7 DAYS")
		for _, h := range habits {
			mark := "○"
			if h.IsCompleted(today) {
				mark = success.Sprint("●")
			}
			progress := ""
			if h.Type == domain.HabitCount {
				progress = fmt.Sprintf("%d/%d %s", h.Count(today), h.Target, h.Unit)
			}
			streak := ""
			if n := h.Streak(nowFunc()); n > 0 {
				streak = warn.Sprintf("🔥%d", n)
			}
			tbl.AddRow(mark, shortID(h.ID), strings.TrimSpace(h.Icon+" "+h.Name), progress, streak, lastWeek(h))
		}
		fmt.Fprintln(out(cmd), tbl)
		return nil
	},
}

// lastWeek renders the past seven days, oldest first.
func lastWeek(h domain.Habit) string {
	var b strings.Builder
	now := nowFunc()
	for i := 6; i >= 0; i-- {
		if h.IsCompleted(domain.FormatDate(now.AddDate(0, 0, -i))) {
			b.WriteString(success.Sprint("■"))
		} else {
			b.WriteString(faint.Sprint("□"))
		}
	}
	return b.String()
}

func findHabit(ref string) (domain.Habit, error) {
	var found []domain.Habit
	for _, h := range app.store.GetState().Habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Name, ref) {
			found = append(found, h)
		}
	}
	switch len(found) {
	case 0:
		return domain.Habit{}, fmt.Errorf("habit not found: %s", ref)
	case 1:
		return found[0], nil
	}
	return domain.Habit{}, fmt.Errorf("ambiguous habit %q: %d matches", ref, len(found))
}

func habitDay() (string, error) {
	if habitDate == "" {
		return domain.FormatDate(nowFunc()), nil
	}
	if _, err := domain.ParseDate(habitDate); err != nil {
		return "", err
	}
	return habitDate, nil
}

// habitMutation builds the toggle/inc/dec subcommands, which differ only
// in the store call.
func habitMutation(use, short string, apply func(id, date string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [habit-id|name]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			habit, err := findHabit(joinArgs(args))
			if err != nil {
				return err
			}
			date, err := habitDay()
			if err != nil {
				return err
			}
			apply(habit.ID, date)
			habit, _ = findHabit(habit.ID)

			if jsonOutput {
				data := habitJSON(habit)
				data["date"] = date
				data["count"] = habit.Count(date)
				return printJSON(out(cmd), data)
			}
			state := "not done"
			if habit.IsCompleted(date) {
				state = success.Sprint("done")
			}
			if habit.Type == domain.HabitCount {
				state = fmt.Sprintf("%d/%d %s", habit.Count(date), habit.Target, habit.Unit)
			}
			fmt.Fprintf(out(cmd), "%s on %s: %s\n", habit.Name, date, state)
			return nil
		},
	}
}

var habitDeleteCmd = &cobra.Command{
	Use:   "delete [habit-id|name]",
	Short: "Delete a habit and its history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		habit, err := findHabit(joinArgs(args))
		if err != nil {
			return err
		}
		app.store.DeleteHabit(habit.ID)
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"deleted": true, "habit_id": habit.ID})
		}
		fmt.Fprintf(out(cmd), "%s Habit '%s' deleted.\n", success.Sprint("✓"), habit.Name)
		return nil
	},
}

func init() {
	habitAddCmd.Flags().IntVar(&habitTarget, "target", 0, "Daily goal for counted habits")
	habitAddCmd.Flags().StringVar(&habitUnit, "unit", "", "Unit of the daily goal")
	habitAddCmd.Flags().StringVar(&habitIcon, "icon", "", "Emoji shown next to the habit")
	habitAddCmd.Flags().BoolVarP(&habitInteractive, "interactive", "i", false, "Fill the habit in a form")

	toggle := habitMutation("toggle", "Toggle a habit for a day", func(id, date string) bool {
		return app.store.ToggleHabitDay(id, date)
	})
	inc := habitMutation("inc", "Count one more towards a habit's goal", func(id, date string) bool {
		return app.store.IncrementHabitCount(id, date)
	})
	dec := habitMutation("dec", "Count one less towards a habit's goal", func(id, date string) bool {
		return app.store.DecrementHabitCount(id, date)
	})
	for _, c := range []*cobra.Command{toggle, inc, dec} {
		c.Flags().StringVar(&habitDate, "date", "", "Day to change, YYYY-MM-DD (default today)")
	}

	habitCmd.AddCommand(habitAddCmd, habitListCmd, toggle, inc, dec, habitDeleteCmd)
}
