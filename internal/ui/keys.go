package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"comboselect/internal/combobox"
)

// KeyMap holds the form bindings. Widget bindings are listed in the full
// help but handled by the focused combobox.
type KeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Help      key.Binding
	Save      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	Widget combobox.KeyMap
}

// DefaultKeyMap returns the standard form bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Widget: combobox.DefaultKeyMap(),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Widget.Down, k.Widget.Enter, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return append([][]key.Binding{
		{k.Next, k.Prev, k.Save, k.Help, k.Quit, k.ForceQuit},
	}, k.Widget.FullHelp()...)
}
