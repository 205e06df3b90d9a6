package domain

import (
	"strings"
	"time"
)

// BlockColor is the calendar tint of a time block.
type BlockColor string

const (
	ColorSlate   BlockColor = "slate"
	ColorSky     BlockColor = "sky"
	ColorEmerald BlockColor = "emerald"
	ColorAmber   BlockColor = "amber"
	ColorRose    BlockColor = "rose"
	ColorViolet  BlockColor = "violet"
)

// BlockColors lists the palette in picker order.
var BlockColors = []BlockColor{ColorSky, ColorEmerald, ColorAmber, ColorRose, ColorViolet, ColorSlate}

// legacyColors maps colors from the flat time-block format.
var legacyColors = map[string]BlockColor{
	"blue":    ColorSky,
	"slate":   ColorSlate,
	"sky":     ColorSky,
	"emerald": ColorEmerald,
	"green":   ColorEmerald,
	"amber":   ColorAmber,
	"yellow":  ColorAmber,
	"rose":    ColorRose,
	"red":     ColorRose,
	"violet":  ColorViolet,
	"purple":  ColorViolet,
}

// MapLegacyColor converts an old color name, defaulting to sky.
func MapLegacyColor(c string) BlockColor {
	if mapped, ok := legacyColors[strings.ToLower(c)]; ok {
		return mapped
	}
	return ColorSky
}

// TimeBlock is a calendar entry. Start and End are ISO local datetimes.
// Callers keep End at or after Start.
type TimeBlock struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	AllDay      bool       `json:"allDay"`
	Color       BlockColor `json:"color,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// TimeBlockInput carries the fields of a new time block.
type TimeBlockInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Color       BlockColor
	Location    string
}

// TimeBlockPatch is a partial update.
type TimeBlockPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	AllDay      *bool
	Color       *BlockColor
	Location    *string
}

// NewTimeBlock builds a time block from input.
func NewTimeBlock(in TimeBlockInput) (TimeBlock, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TimeBlock{}, ErrEmptyTitle
	}
	color := in.Color
	if color == "" {
		color = ColorSky
	}
	return TimeBlock{
		ID:          generateID(),
		Title:       title,
		Description: in.Description,
		Start:       FormatDateTime(in.Start),
		End:         FormatDateTime(in.End),
		AllDay:      in.AllDay,
		Color:       color,
		Location:    in.Location,
	}, nil
}

// Apply returns b with the patch applied.
func (b TimeBlock) Apply(p TimeBlockPatch) TimeBlock {
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Start != nil {
		b.Start = FormatDateTime(*p.Start)
	}
	if p.End != nil {
		b.End = FormatDateTime(*p.End)
	}
	if p.AllDay != nil {
		b.AllDay = *p.AllDay
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.Location != nil {
		b.Location = *p.Location
	}
	return b
}

// Times parses the start and end datetimes.
func (b TimeBlock) Times() (start, end time.Time, err error) {
	if start, err = ParseDateTime(b.Start); err != nil {
		return
	}
	end, err = ParseDateTime(b.End)
	return
}

// OnDate reports whether the block starts on the given day.
func (b TimeBlock) OnDate(day time.Time) bool {
	return strings.HasPrefix(b.Start, FormatDate(day))
}
