package combobox

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	arrowGlyph  = "▾"
	removeGlyph = "×"
	checkGlyph  = "✓"
	ellipsis    = "…"
)

// badge is one multi-select value on the trigger: "label ×"
type badge struct {
	Value string
	Label string
	Row   int
	Col   int
	Width int
}

// RemoveCol is the column of the badge's remove control
func (b badge) RemoveCol() int { return b.Col + b.Width - 1 }

// layoutBadges flows badges left to right, wrapping to a new row when the
// next one doesn't fit. Labels wider than a row are truncated.
func layoutBadges(values, labels []string, width int) []badge {
	out := make([]badge, 0, len(values))
	row, col := 0, 0
	for i, v := range values {
		label := labels[i]
		if limit := max(1, width-2); ansi.StringWidth(label) > limit {
			label = ansi.Truncate(label, limit, ellipsis)
		}
		w := ansi.StringWidth(label) + 2
		if col > 0 && col+w > width {
			row++
			col = 0
		}
		out = append(out, badge{Value: v, Label: label, Row: row, Col: col, Width: w})
		col += w + 1
	}
	return out
}

// badgeRows returns the number of rows the badges occupy
func badgeRows(badges []badge) int {
	if len(badges) == 0 {
		return 1
	}
	return badges[len(badges)-1].Row + 1
}

// listLine is one rendered row of the option list
type listLine struct {
	text   string
	option int // index into Visible.Options; -1 for group headers
	first  bool
}

// listLines renders the visible rows as plain text lines of at most width
// cells. Options get a two-cell mark column. Long labels wrap when wrap is
// set and are truncated otherwise.
func listLines(v Visible, width int, wrap bool, text func(string) string) []listLine {
	var lines []listLine
	inner := max(1, width-2)
	for _, r := range v.Rows {
		if r.Option < 0 {
			lines = append(lines, listLine{text: fit(text(r.Header), width), option: -1, first: true})
			continue
		}
		o := v.Options[r.Option]
		mark := "  "
		if o.Selected {
			mark = checkGlyph + " "
		}
		label := text(o.Label)
		if label == "" {
			label = o.Value
		}
		if !wrap {
			lines = append(lines, listLine{text: mark + fit(label, inner), option: r.Option, first: true})
			continue
		}
		for i, part := range strings.Split(ansi.Wrap(label, inner, ""), "\n") {
			prefix := "  "
			if i == 0 {
				prefix = mark
			}
			lines = append(lines, listLine{text: prefix + part, option: r.Option, first: i == 0})
		}
	}
	return lines
}

// fit truncates s to width cells
func fit(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, ellipsis)
}

// padRight pads s with spaces to width cells
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
