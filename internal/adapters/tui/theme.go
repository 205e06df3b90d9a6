package tui

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// styles holds the lipgloss styles for one color scheme.
type styles struct {
	text     lipgloss.Color
	subtle   lipgloss.Color
	accent   lipgloss.Color
	focus    lipgloss.Color
	breakCol lipgloss.Color

	title    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	errorMsg lipgloss.Style
	panel    lipgloss.Style
	active   lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
}

func newStyles(cfg config.ThemeConfig, mode domain.Theme) styles {
	text := lipgloss.Color("#E5E7EB")
	border := lipgloss.Color("#374151")
	if !mode.IsDark() {
		text = lipgloss.Color("#1F2937")
		border = lipgloss.Color("#D1D5DB")
	}
	accent := lipgloss.Color(cfg.ColorAccent)
	subtle := lipgloss.Color(cfg.ColorMuted)

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(text).
		Padding(0, 1)

	return styles{
		text:     text,
		subtle:   subtle,
		accent:   accent,
		focus:    lipgloss.Color(cfg.ColorFocus),
		breakCol: lipgloss.Color(cfg.ColorBreak),
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		muted:    lipgloss.NewStyle().Foreground(subtle),
		selected: lipgloss.NewStyle().Bold(true).Foreground(text).Background(border),
		done:     lipgloss.NewStyle().Foreground(subtle).Strikethrough(true),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		panel:    panel,
		active:   panel.BorderForeground(accent),
		tab:      lipgloss.NewStyle().Foreground(subtle).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Bold(true).Foreground(text).Background(accent).Padding(0, 1),
	}
}

// blockColors maps time-block tints to terminal colors.
var blockColors = map[domain.BlockColor]lipgloss.Color{
	domain.ColorSlate:   lipgloss.Color("#64748B"),
	domain.ColorSky:     lipgloss.Color("#0EA5E9"),
	domain.ColorEmerald: lipgloss.Color("#10B981"),
	domain.ColorAmber:   lipgloss.Color("#F59E0B"),
	domain.ColorRose:    lipgloss.Color("#F43F5E"),
	domain.ColorViolet:  lipgloss.Color("#8B5CF6"),
}

var priorityColors = map[domain.Priority]lipgloss.Color{
	domain.PriorityHigh:   lipgloss.Color("#EF4444"),
	domain.PriorityMedium: lipgloss.Color("#F59E0B"),
	domain.PriorityLow:    lipgloss.Color("#22C55E"),
}
