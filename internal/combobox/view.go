package combobox

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// text converts a label for display: HTML labels show their text content
func (m *Model) text(label string) string {
	if m.params.IsHTMLAllowed {
		return plainText(label)
	}
	return strings.Join(strings.Fields(label), " ")
}

// contentWidth is the trigger and panel width inside the border
func (m *Model) contentWidth() int {
	return max(4, m.width()-2)
}

// hasClearControl reports whether the single-select clear control is shown
func (m *Model) hasClearControl() bool {
	st := m.machine.State()
	return !st.Multiple && m.params.CanSelectPlaceholder && st.Value != "" && !st.Disabled
}

func (m *Model) badges() []badge {
	st := m.machine.State()
	labels := m.machine.SelectedLabels()
	for i := range labels {
		labels[i] = m.text(labels[i])
	}
	return layoutBadges(st.Values, labels, m.contentWidth()-2)
}

func (m *Model) triggerHeight() int {
	st := m.machine.State()
	if st.Multiple && len(st.Values) > 0 {
		return badgeRows(m.badges()) + 2
	}
	return 3
}

// triggerLines renders the content rows of the trigger
func (m *Model) triggerLines() []string {
	st := m.machine.State()
	cw := m.contentWidth()
	arrow := m.styles.Arrow.Render(" " + arrowGlyph)

	if st.Multiple && len(st.Values) > 0 {
		bs := m.badges()
		rows := make([]string, badgeRows(bs))
		cols := make([]int, len(rows))
		for _, b := range bs {
			rows[b.Row] += strings.Repeat(" ", b.Col-cols[b.Row])
			rows[b.Row] += m.styles.Badge.Render(b.Label+" ") + m.styles.Remove.Inherit(m.styles.Badge).Render(removeGlyph)
			cols[b.Row] = b.Col + b.Width
		}
		for i := range rows {
			rows[i] = padRight(rows[i], cw-2)
			if i == 0 {
				rows[i] += arrow
			} else {
				rows[i] += "  "
			}
		}
		return rows
	}

	suffix := arrow
	if m.hasClearControl() {
		suffix = " " + m.styles.Remove.Render(removeGlyph) + arrow
	}
	avail := cw - lipgloss.Width(suffix)

	var body string
	if (st.Multiple && len(st.Values) == 0) || (!st.Multiple && st.Value == "") {
		body = m.styles.Placeholder.Render(fit(m.params.Placeholder, avail))
	} else {
		body = m.styles.Value.Render(fit(m.text(m.machine.Label(st.Value)), avail))
	}
	return []string{padRight(body, avail) + suffix}
}

// View renders the trigger. The floating panel is drawn by the host from
// PanelView and PanelRect.
func (m *Model) View() string {
	if m.destroyed {
		return ""
	}
	style := m.styles.Trigger
	if m.focused {
		style = m.styles.TriggerFocused
	}
	body := strings.Join(m.triggerLines(), "\n")
	if m.machine.State().Disabled {
		body = m.styles.Disabled.Render(body)
	}
	return style.Render(body)
}

func (m *Model) panelHeader() []string {
	if !m.params.IsSearchable {
		return nil
	}
	cw := m.contentWidth()
	return []string{
		padRight(fit(m.input.View(), cw), cw),
		m.styles.Arrow.Render(strings.Repeat("─", cw)),
	}
}

func (m *Model) panelFooter() []string {
	st := m.machine.State()
	cw := m.contentWidth()
	var lines []string
	switch {
	case st.IsLoading:
		lines = append(lines, m.spinner.View()+" "+m.styles.Message.Render(fit(m.params.LoadingMessage, cw-2)))
	case st.IsSearching:
		lines = append(lines, m.spinner.View()+" "+m.styles.Message.Render(fit(m.params.SearchingMessage, cw-2)))
	default:
		if msg := m.machine.Visible().Message; msg != "" {
			lines = append(lines, m.styles.Message.Render(fit(msg, cw)))
		}
	}
	if st.Alert != "" {
		lines = append(lines, m.styles.Alert.Render(fit(st.Alert, cw)))
	}
	return lines
}

// panelList returns the option lines, empty while loading or searching
func (m *Model) panelList() []listLine {
	st := m.machine.State()
	if st.IsLoading || st.IsSearching {
		return nil
	}
	return listLines(m.machine.Visible(), m.contentWidth(), m.params.CanOptionLabelsWrap, m.text)
}

func (m *Model) panelNaturalHeight() int {
	return 2 + len(m.panelHeader()) + len(m.panelList()) + len(m.panelFooter())
}

// listHeight is the number of list rows that fit the placed panel
func (m *Model) listHeight() int {
	return max(1, m.placement.Height-2-len(m.panelHeader())-len(m.panelFooter()))
}

// ensureActiveVisible scrolls the list so the focused option is shown
func (m *Model) ensureActiveVisible() {
	lines := m.panelList()
	h := m.listHeight()
	if len(lines) <= h {
		m.scroll = 0
		return
	}
	m.scroll = min(m.scroll, len(lines)-h)
	idx := m.machine.State().SelectedIndex
	if idx < 0 {
		m.scroll = max(0, m.scroll)
		return
	}
	for i, l := range lines {
		if l.option == idx && l.first {
			if i < m.scroll {
				m.scroll = i
			} else if i >= m.scroll+h {
				m.scroll = i - h + 1
			}
			break
		}
	}
}

// PanelView renders the open option panel, or "" when closed
func (m *Model) PanelView() string {
	if !m.IsOpen() {
		return ""
	}
	st := m.machine.State()
	v := m.machine.Visible()
	cw := m.contentWidth()

	rows := m.panelHeader()
	list := m.panelList()
	end := min(len(list), m.scroll+m.listHeight())
	for _, l := range list[min(m.scroll, end):end] {
		style := m.styles.Option
		if l.option < 0 {
			style = m.styles.GroupHeader
		} else {
			o := v.Options[l.option]
			switch {
			case o.Disabled:
				style = m.styles.OptionDisabled
			case l.option == st.SelectedIndex && st.Focus == FocusOption:
				style = m.styles.OptionActive
			case o.Selected:
				style = m.styles.OptionSelected
			}
		}
		rows = append(rows, style.Render(padRight(l.text, cw)))
	}
	rows = append(rows, m.panelFooter()...)
	if len(rows) == 0 {
		rows = []string{""}
	}
	for i := range rows {
		rows[i] = padRight(rows[i], cw)
	}
	return m.styles.Panel.Render(strings.Join(rows, "\n"))
}
