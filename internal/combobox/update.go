package combobox

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"comboselect/internal/domain"
	"comboselect/internal/position"
)

// Update handles a message. Messages produced by other widgets are ignored.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.destroyed {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.SetViewport(position.Rect{Width: msg.Width, Height: msg.Height})

	case ScrollMsg:
		m.anchorMoved()

	case debounceMsg:
		if msg.widget == m.id {
			cmd = m.apply(m.machine.DebounceElapsed(msg.tag))
		}

	case searchResultMsg:
		if msg.widget == m.id {
			cmd = m.handleSearchResult(msg)
		}

	case optionsFetchedMsg:
		if msg.widget == m.id {
			cmd = m.handleOptionsFetched(msg)
		}

	case labelsResolvedMsg:
		if msg.widget == m.id {
			cmd = m.apply(m.machine.LabelsResolved(msg.values, msg.found))
			if m.IsOpen() {
				m.reposition()
			}
		}

	case broadcastMsg:
		if msg.widget == m.id {
			cmd = tea.Batch(m.apply(m.machine.RefreshLabels()), waitForBroadcast(m.pump, m.id))
		}

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() {
			break
		}
		st := m.machine.State()
		if !st.IsLoading && !st.IsSearching {
			m.spinning = false
			break
		}
		m.spinner, cmd = m.spinner.Update(msg)

	default:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
		}
	}

	return m, tea.Batch(cmd, m.syncInput())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.machine.State()
	if !m.focused || st.Disabled {
		return nil
	}

	k, ok := m.keys.Match(msg)
	typing := st.IsOpen && st.Focus == FocusSearch && (!ok || k == KeySpace || k == KeyBackspace)
	jumpToSearch := !ok && st.IsOpen && m.params.IsSearchable && msg.Type == tea.KeyRunes
	if typing || jumpToSearch {
		var focusCmd, cmd tea.Cmd
		if !typing {
			// the input ignores keys while blurred
			m.machine.FocusSearch()
			focusCmd = m.syncInput()
		}
		m.input, cmd = m.input.Update(msg)
		return tea.Batch(focusCmd, cmd, m.apply(m.machine.Type(m.input.Value())))
	}
	if !ok {
		return nil
	}
	return m.apply(m.machine.Key(k))
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if m.machine.State().Disabled {
		return nil
	}

	tr := m.anchorRect()
	if tr.Contains(msg.X, msg.Y) {
		m.focused = true
		return m.clickTrigger(msg.X-tr.X-1, msg.Y-tr.Y-1)
	}
	if pr, ok := m.PanelRect(); ok && pr.Contains(msg.X, msg.Y) {
		return m.clickPanel(msg.Y - pr.Y - 1)
	}
	if m.IsOpen() {
		return m.apply(m.machine.Close())
	}
	return nil
}

// clickTrigger handles a click at content-relative cell (x, y)
func (m *Model) clickTrigger(x, y int) tea.Cmd {
	st := m.machine.State()
	if st.Multiple {
		for _, b := range m.badges() {
			if b.Row == y && x == b.RemoveCol() {
				return m.apply(m.machine.SelectOption(b.Value))
			}
		}
	} else if m.hasClearControl() && y == 0 && x == m.contentWidth()-3 {
		return m.apply(m.machine.SelectOption(""))
	}
	return m.apply(m.machine.Toggle())
}

// clickPanel handles a click on content row y of the panel
func (m *Model) clickPanel(y int) tea.Cmd {
	header := len(m.panelHeader())
	if y < header {
		if m.params.IsSearchable {
			m.machine.FocusSearch()
		}
		return nil
	}
	row := y - header
	list := m.panelList()
	if row >= m.listHeight() || m.scroll+row >= len(list) {
		return nil
	}
	line := list[m.scroll+row]
	if line.option < 0 {
		return nil
	}
	return m.apply(m.machine.Activate(line.option))
}

func (m *Model) handleSearchResult(msg searchResultMsg) tea.Cmd {
	effects, applied := m.machine.SearchResult(msg.seq, msg.options, msg.err)
	if !applied {
		return nil
	}
	if m.bus != nil {
		if msg.err != nil {
			m.bus.Publish(domain.ProviderFailedEvent{WidgetID: m.id, Operation: "search", Err: msg.err})
		} else {
			m.bus.Publish(domain.SearchCompletedEvent{WidgetID: m.id, Query: msg.query, Count: msg.options.Count()})
		}
	}
	return m.apply(effects)
}

func (m *Model) handleOptionsFetched(msg optionsFetchedMsg) tea.Cmd {
	if m.bus != nil {
		if msg.err != nil {
			m.bus.Publish(domain.ProviderFailedEvent{WidgetID: m.id, Operation: "options", Err: msg.err})
		} else {
			m.bus.Publish(domain.OptionsLoadedEvent{WidgetID: m.id, Count: msg.options.Count()})
		}
	}
	return m.apply(m.machine.OptionsFetched(msg.options, msg.err))
}
