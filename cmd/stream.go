package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/dailo/internal/domain"
)

var streamGif string

var streamCmd = &cobra.Command{
	Use:     "stream",
	Aliases: []string{"streams", "lofi"},
	Short:   "Manage the lofi playlist",
}

var streamAddCmd = &cobra.Command{
	Use:   "add [name] [video-id|url]",
	Short: "Add a stream to the playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := app.store.AddCustomStream(args[0], args[1], streamGif)
		if err != nil {
			return fmt.Errorf("failed to add stream: %w", err)
		}
		if jsonOutput {
			return printJSON(out(cmd), cs)
		}
		fmt.Fprintf(out(cmd), "%s Stream added: %s (ID: %s)\n", success.Sprint("✓"), cs.Name, shortID(cs.ID))
		return nil
	},
}

var streamListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List built-in and custom streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := app.store.GetState()
		streams := st.AllStreams()
		current := st.Playback.Lofi.StreamIndex

		if jsonOutput {
			list := make([]map[string]any, 0, len(streams))
			for i, s := range streams {
				list = append(list, map[string]any{
					"id":       s.ID,
					"name":     s.Name,
					"channel":  s.Channel,
					"video_id": s.VideoID,
					"custom":   s.Custom,
					"selected": i == current,
				})
			}
			return printJSON(out(cmd), map[string]any{"streams": list, "count": len(list)})
		}

		tbl := newTable("", "ID", "NAME", "CHANNEL", "URL")
		for i, s := range streams {
			mark := ""
			if i == current {
				mark = "♪"
			}
			id := s.ID
			if s.Custom {
				id = shortID(s.ID)
			}
			tbl.AddRow(mark, id, s.Name, faint.Sprint(s.Channel), s.StreamURL())
		}
		fmt.Fprintln(out(cmd), tbl)
		return nil
	},
}

var streamDeleteCmd = &cobra.Command{
	Use:   "delete [stream-id]",
	Short: "Remove a custom stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var found []domain.CustomStream
		for _, cs := range app.store.GetState().CustomStreams {
			if strings.HasPrefix(cs.ID, args[0]) {
				found = append(found, cs)
			}
		}
		if len(found) != 1 {
			return fmt.Errorf("custom stream not found or ambiguous: %s", args[0])
		}
		app.store.DeleteCustomStream(found[0].ID)
		if jsonOutput {
			return printJSON(out(cmd), map[string]any{"deleted": true, "stream_id": found[0].ID})
		}
		fmt.Fprintf(out(cmd), "%s Stream '%s' removed.\n", success.Sprint("✓"), found[0].Name)
		return nil
	},
}

func init() {
	streamAddCmd.Flags().StringVar(&streamGif, "gif", "", "Background animation name")
	streamCmd.AddCommand(streamAddCmd, streamListCmd, streamDeleteCmd)
}
