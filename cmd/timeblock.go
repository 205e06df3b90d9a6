package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/services"
)

var (
	blockDate        string
	blockColor       string
	blockLocation    string
	blockDescription string
	blockAllDay      bool
	blockExportICS   bool
	blockExportOut   string
	blockExportFrom  string
	blockExportTo    string
)

var timeblockCmd = &cobra.Command{
	Use:     "timeblock",
	Aliases: []string{"block", "blocks"},
	Short:   "Plan the day in time blocks",
}

var timeblockAddCmd = &cobra.Command{
	Use:   "add [HH:MM-HH:MM] [title]",
	Short: "Add a time block",
	Long: `Add a time block on --date (default today), e.g.

  dailo timeblock add 09:00-10:30 Deep work
  dailo timeblock add --all-day Offsite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := blockDay()
		if err != nil {
			return err
		}

		in := domain.TimeBlockInput{
			Description: blockDescription,
			Color:       domain.BlockColor(blockColor),
			Location:    blockLocation,
			AllDay:      blockAllDay,
		}
		if blockAllDay {
			in.Title = joinArgs(args)
			in.Start, in.End = day, day
		} else {
			if len(args) < 2 {
				return errors.New("expected a HH:MM-HH:MM range and a title")
			}
			in.Start, in.End, err = parseRange(day, args[0])
			if err != nil {
				return err
			}
			in.Title = joinArgs(args[1:])
		}
		if in.Color != "" && !validColor(in.Color) {
			return fmt.Errorf("unknown color %q", blockColor)
		}

		block, err := app.store.AddTimeBlock(in)
		if err != nil {
			return fmt.Errorf("failed to add time block: %w", err)
		}
		if jsonOutput {
			return printJSON(out(cmd), block)
		}
		fmt.Fprintf(out(cmd), "%s Time block added: %s %s (ID: %s)\n", success.Sprint("✓"), blockSpan(block), block.Title, shortID(block.ID))
		return nil
	},
}

func blockDay() (time.Time, error) {
	if blockDate == "" {
		y, m, d := nowFunc().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	return domain.ParseDate(blockDate)
}

// parseRange reads "HH:MM-HH:MM" on day. The end must not precede the
// start.
func parseRange(day time.Time, s string) (time.Time, time.Time, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range %q, expected HH:MM-HH:MM", s)
	}
	start, err := clockOn(day, from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(day, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("range %q ends before it starts", s)
	}
	return start, end, nil
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

func validColor(c domain.BlockColor) bool {
	for _, known := range domain.BlockColors {
		if c == known {
			return true
		}
	}
	return false
}

func blockSpan(b domain.TimeBlock) string {
	if b.AllDay {
		return "all day"
	}
	start, end, err := b.Times()
	if err != nil {
		return "?"
	}
	return start.Format("15:04") + "-" + end.Format("15:04")
}

var timeblockListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the time blocks of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := blockDay()
		if err != nil {
			return err
		}
		var blocks []domain.TimeBlock
		for _, b := range app.store.GetState().TimeBlocks {
			if b.OnDate(day) {
				blocks = append(blocks, b)
			}
		}
		sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"date": domain.FormatDate(day), "time_blocks": blocks, "count": len(blocks)})
		}
		if len(blocks) == 0 {
			fmt.Fprintf(out(cmd), "Nothing planned for %s.\n", domain.FormatDate(day))
			return nil
		}
		tbl := newTable("ID", "WHEN", "TITLE", "WHERE")
		for _, b := range blocks {
			tbl.AddRow(shortID(b.ID), blockSpan(b), b.Title, faint.Sprint(b.Location))
		}
		fmt.Fprintln(out(cmd), tbl)
		return nil
	},
}

var timeblockDeleteCmd = &cobra.Command{
	Use:   "delete [block-id]",
	Short: "Delete a time block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var found []domain.TimeBlock
		for _, b := range app.store.GetState().TimeBlocks {
			if strings.HasPrefix(b.ID, args[0]) {
				found = append(found, b)
			}
		}
		if len(found) != 1 {
			return fmt.Errorf("time block not found or ambiguous: %s", args[0])
		}
		app.store.DeleteTimeBlock(found[0].ID)
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"deleted": true, "block_id": found[0].ID})
		}
		fmt.Fprintf(out(cmd), "%s Time block '%s' deleted.\n", success.Sprint("✓"), found[0].Title)
		return nil
	},
}

var timeblockExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time blocks as an iCalendar file",
	Long: `Export time blocks as iCalendar (.ics) events for any calendar app.
Without --from/--to every block is exported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !blockExportICS {
			return errors.New("only --ics export is supported")
		}
		var from, to time.Time
		var err error
		if blockExportFrom != "" {
			if from, err = domain.ParseDate(blockExportFrom); err != nil {
				return err
			}
		}
		if blockExportTo != "" {
			if to, err = domain.ParseDate(blockExportTo); err != nil {
				return err
			}
			to = to.AddDate(0, 0, 1)
		}

		blocks, err := services.BlocksInRange(app.store.GetState().TimeBlocks, from, to)
		if err != nil {
			return err
		}
		cal, skipped := services.BuildCalendar(blocks, nowFunc())
		for _, id := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped time block %s with unreadable times\n", id)
		}

		data := cal.Serialize()
		if blockExportOut == "" || blockExportOut == "-" {
			_, err = fmt.Fprint(out(cmd), data)
			return err
		}
		if err := os.WriteFile(blockExportOut, []byte(data), 0644); err != nil {
			return fmt.Errorf("failed to write calendar: %w", err)
		}
		fmt.Fprintf(out(cmd), "%s Exported %d time blocks to %s\n", success.Sprint("✓"), len(blocks)-len(skipped), blockExportOut)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{timeblockAddCmd, timeblockListCmd} {
		c.Flags().StringVar(&blockDate, "date", "", "Day, YYYY-MM-DD (default today)")
	}
	timeblockAddCmd.Flags().StringVar(&blockColor, "color", "", "sky, emerald, amber, rose, violet or slate")
	timeblockAddCmd.Flags().StringVar(&blockLocation, "location", "", "Where it happens")
	timeblockAddCmd.Flags().StringVarP(&blockDescription, "description", "d", "", "Details")
	timeblockAddCmd.Flags().BoolVar(&blockAllDay, "all-day", false, "Block the whole day")

	timeblockExportCmd.Flags().BoolVar(&blockExportICS, "ics", true, "Write iCalendar")
	timeblockExportCmd.Flags().StringVarP(&blockExportOut, "output", "o", "", "File to write (default stdout)")
	timeblockExportCmd.Flags().StringVar(&blockExportFrom, "from", "", "First day, YYYY-MM-DD")
	timeblockExportCmd.Flags().StringVar(&blockExportTo, "to", "", "Last day, YYYY-MM-DD")

	timeblockCmd.AddCommand(timeblockAddCmd, timeblockListCmd, timeblockDeleteCmd, timeblockExportCmd)
}
