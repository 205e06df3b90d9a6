package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphRows is the height of the large clock font.
const glyphRows = 3

// glyphs draws digits with half blocks, three rows high.
var glyphs = map[rune][glyphRows]string{
	'0': {"█▀█", "█ █", "▀▀▀"},
	'1': {" ▀█", "  █", "  ▀"},
	'2': {"▀▀█", "█▀▀", "▀▀▀"},
	'3': {"▀▀█", " ▀█", "▀▀▀"},
	'4': {"█ █", "▀▀█", "  ▀"},
	'5': {"█▀▀", "▀▀█", "▀▀▀"},
	'6': {"█▀▀", "█▀█", "▀▀▀"},
	'7': {"▀▀█", "  █", "  ▀"},
	'8': {"█▀█", "█▀█", "▀▀▀"},
	'9': {"█▀█", "▀▀█", "▀▀▀"},
	':': {" ", "▀", "▀"},
}

// bigClockMinWidth is the narrowest area the large clock is drawn in.
const bigClockMinWidth = 24

// renderBigTime draws a clock string like "24:59" in the large font.
// Narrow areas get a single bold line instead.
func renderBigTime(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigClockMinWidth {
		return style.Render(clock)
	}

	var rows [glyphRows]strings.Builder
	for i, ch := range clock {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		for r := range rows {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(g[r])
		}
	}

	out := make([]string, glyphRows)
	for r := range rows {
		out[r] = style.Render(rows[r].String())
	}
	return strings.Join(out, "\n")
}
