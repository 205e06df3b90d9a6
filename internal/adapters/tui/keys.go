package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	Phase     key.Binding
	Longer    key.Binding
	Shorter   key.Binding
	New       key.Binding
	Edit      key.Binding
	Check     key.Binding
	Delete    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Next      key.Binding
	Prev      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Customize key.Binding
	Hide      key.Binding
	Wider     key.Binding
	Relayout  key.Binding
	Board     key.Binding
	Surface   key.Binding
	Theme     key.Binding
	Lofi      key.Binding
	Track     key.Binding
	Mute      key.Binding
	Louder    key.Binding
	Quieter   key.Binding
	Rain      key.Binding
	Forest    key.Binding
	Help      key.Binding
	Back      key.Binding
	Enter     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset timer")),
	Phase:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next phase")),
	Longer:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer")),
	Shorter:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorter")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Check:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "check")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next widget")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev widget")),
	MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	MoveLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move left")),
	MoveRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move right")),
	Customize: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "customize")),
	Hide:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show/hide")),
	Wider:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "width")),
	Relayout:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset layout")),
	Board:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "task board")),
	Surface:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "detach timer")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Lofi:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/pause lofi")),
	Track:     key.NewBinding(key.WithKeys("]", "["), key.WithHelp("[/]", "track")),
	Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Louder:    key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "louder")),
	Quieter:   key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "quieter")),
	Rain:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "rain")),
	Forest:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "forest")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.New, k.Board, k.Customize, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Phase, k.Longer, k.Shorter, k.Surface},
		{k.Next, k.Prev, k.Up, k.Down, k.New, k.Edit, k.Check, k.Delete},
		{k.Customize, k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight, k.Hide, k.Wider, k.Relayout},
		{k.Lofi, k.Track, k.Mute, k.Louder, k.Quieter, k.Rain, k.Forest},
		{k.Board, k.Theme, k.Help, k.Quit},
	}
}
