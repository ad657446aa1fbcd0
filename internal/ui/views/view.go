package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FieldView is one form field ready to draw. Trigger is drawn at (X, Y) and
// the label on the line above it.
type FieldView struct {
	Label   string
	Path    string
	Trigger string
	X, Y    int
	Focused bool
}

// FormState contains all the state needed for rendering
type FormState struct {
	Width         int
	Height        int
	Title         string
	Source        string
	Fields        []FieldView
	StatusMessage string
	StatusKind    StatusKind
	ShowStatusBar bool
	HelpLine      string
	Panel         *Layer // open option panel, drawn over everything else
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles returns the renderer styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete screen
func (r *Renderer) Render(state FormState) string {
	width, height := state.Width, state.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	base := make([]string, height)
	base[0] = r.titleLine(state, width)

	footer := r.footer(state)
	for i, line := range footer {
		if row := height - len(footer) + i; row > 0 {
			base[row] = line
		}
	}

	layers := make([]Layer, 0, 2*len(state.Fields)+1)
	for _, f := range state.Fields {
		label := r.styles.Label.Render(f.Label)
		if f.Focused {
			label = r.styles.LabelFocused.Render(f.Label)
		}
		if f.Path != "" {
			label += " " + r.styles.Path.Render(f.Path)
		}
		layers = append(layers,
			Layer{Content: label, X: f.X, Y: f.Y - 1},
			Layer{Content: f.Trigger, X: f.X, Y: f.Y},
		)
	}
	if state.Panel != nil {
		layers = append(layers, *state.Panel)
	}
	return Overlay(strings.Join(base, "\n"), width, height, layers...)
}

// titleLine renders the title with the option source right-aligned
func (r *Renderer) titleLine(state FormState, width int) string {
	title := state.Title
	if title == "" {
		title = "comboselect"
	}
	logo := r.styles.Title.Render(title)
	if state.Source == "" {
		return logo
	}

	right := r.styles.Dim.Render(fmt.Sprintf("[source: %s]", state.Source))
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		return fmt.Sprintf("%s  %s", logo, right)
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) footer(state FormState) []string {
	var lines []string
	if state.ShowStatusBar {
		lines = append(lines, r.styles.StatusStyle(state.StatusKind).Render(state.StatusMessage))
	}
	help := state.HelpLine
	if help == "" {
		help = "Press ? for help"
	}
	lines = append(lines, r.styles.Help.Render(help))
	return lines
}
