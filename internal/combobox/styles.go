package combobox

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for a combobox
type Styles struct {
	Trigger        lipgloss.Style
	TriggerFocused lipgloss.Style
	Placeholder    lipgloss.Style
	Value          lipgloss.Style
	Badge          lipgloss.Style
	Remove         lipgloss.Style
	Arrow          lipgloss.Style
	Panel          lipgloss.Style
	Search         lipgloss.Style
	GroupHeader    lipgloss.Style
	Option         lipgloss.Style
	OptionActive   lipgloss.Style
	OptionSelected lipgloss.Style
	OptionDisabled lipgloss.Style
	Message        lipgloss.Style
	Alert          lipgloss.Style
	Spinner        lipgloss.Style
	Disabled       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Trigger: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")),
		TriggerFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")),
		Placeholder: lipgloss.NewStyle().Faint(true),
		Value:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		Remove: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Arrow:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")),
		Search:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		GroupHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Option:         lipgloss.NewStyle(),
		OptionActive:   lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		OptionSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		OptionDisabled: lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Message:        lipgloss.NewStyle().Faint(true).Italic(true),
		Alert:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Spinner:        lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
		Disabled:       lipgloss.NewStyle().Faint(true),
	}
}
