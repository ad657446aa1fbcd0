package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the form
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Label         lipgloss.Style
	LabelFocused  lipgloss.Style
	Path          lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		LabelFocused:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Path:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:          lipgloss.NewStyle().Faint(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
	}
}

// StatusKind selects the color of the status line
type StatusKind int

const (
	StatusPlain StatusKind = iota
	StatusInfo
	StatusSuccess
	StatusWarning
	StatusError
)

// StatusStyle returns the style for a status kind
func (s *Styles) StatusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusInfo:
		return s.StatusInfo
	case StatusSuccess:
		return s.StatusSuccess
	case StatusWarning:
		return s.StatusWarning
	case StatusError:
		return s.StatusError
	}
	return s.Status
}
