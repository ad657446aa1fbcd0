package combobox

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key is an abstract navigation key understood by the machine
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeySpace
	KeyEscape
	KeyTab
	KeyShiftTab
	KeyBackspace
)

// KeyMap binds terminal keys to navigation keys
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Space     key.Binding
	Escape    key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Backspace key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "open / next option"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "first option / close"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "last option / close"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "remove last"),
		),
	}
}

// Match maps a key message to a navigation key
func (k KeyMap) Match(msg tea.KeyMsg) (Key, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return KeyUp, true
	case key.Matches(msg, k.Down):
		return KeyDown, true
	case key.Matches(msg, k.Enter):
		return KeyEnter, true
	case key.Matches(msg, k.Space):
		return KeySpace, true
	case key.Matches(msg, k.Escape):
		return KeyEscape, true
	case key.Matches(msg, k.ShiftTab):
		return KeyShiftTab, true
	case key.Matches(msg, k.Tab):
		return KeyTab, true
	case key.Matches(msg, k.Backspace):
		return KeyBackspace, true
	}
	return KeyNone, false
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Enter, k.Escape}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.ShiftTab},
		{k.Enter, k.Space, k.Escape, k.Backspace},
	}
}
