package combobox

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"comboselect/internal/domain"
	"comboselect/internal/eventbus"
	"comboselect/internal/labels"
	"comboselect/internal/position"
	"comboselect/internal/provider"
)

// Model is the Bubble Tea combobox component. It owns a Machine and turns
// the machine's effects into commands.
type Model struct {
	id       string
	params   Params
	machine  *Machine
	resolver *labels.Resolver
	provider provider.Provider
	keys     KeyMap
	styles   *Styles

	input    textinput.Model
	spinner  spinner.Model
	spinning bool

	anchor    position.Node
	viewport  position.Rect
	placement position.Result
	scroll    int

	focused   bool
	destroyed bool

	ctx         context.Context
	cancel      context.CancelFunc
	bus         eventbus.EventBus
	unsubscribe func()
	pump        *broadcastPump

	tick tickFunc
}

// New validates params and builds a combobox
func New(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := params.withDefaults()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	prov := p.Provider

	repo := labels.NewRepository()
	resolver := labels.NewResolver(repo, p.initialSelection(), p.InitialOptionLabel, p.InitialOptionLabels)
	initial := State{
		Value:    p.Value,
		Values:   p.Values,
		Options:  p.Options,
		Disabled: p.IsDisabled,
	}

	m := &Model{
		id:       p.ID,
		params:   p,
		machine:  NewMachine(p.settings(), initial, resolver),
		resolver: resolver,
		provider: prov,
		keys:     DefaultKeyMap(),
		styles:   NewStyles(),
		anchor:   p.Anchor,
		viewport: position.Rect{Width: 80, Height: 24},
		tick:     tea.Tick,
	}
	if p.KeyMap != nil {
		m.keys = *p.KeyMap
	}
	if p.Styles != nil {
		m.styles = p.Styles
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.Placeholder = "Search"
	m.input.CharLimit = 256
	m.input.PromptStyle = m.styles.Search
	m.input.Width = max(1, m.width()-4-len([]rune(m.input.Prompt)))

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(m.styles.Spinner))

	if p.Bus != nil {
		m.bus = p.Bus
		m.pump = newBroadcastPump()
		hostID, statePath, pump := p.HostID, p.StatePath, m.pump
		m.unsubscribe = p.Bus.Subscribe(eventbus.EventLabelRefreshRequested, func(e eventbus.DomainEvent) {
			ev, ok := e.(domain.LabelRefreshRequestedEvent)
			if !ok || ev.HostID != hostID || ev.StatePath != statePath {
				return
			}
			pump.push(ev)
		})
	}

	if p.IsAutofocused {
		m.focused = true
	}
	return m, nil
}

// ID returns the widget id used to tag its messages
func (m *Model) ID() string { return m.id }

// StatePath returns the bound field path
func (m *Model) StatePath() string { return m.params.StatePath }

// Params returns the effective parameters
func (m *Model) Params() Params { return m.params }

// State returns a snapshot of the machine state
func (m *Model) State() State { return m.machine.State() }

// Selection returns the bound value
func (m *Model) Selection() domain.Selection { return m.machine.State().Selection() }

// Visible returns what the option panel currently lists
func (m *Model) Visible() Visible { return m.machine.Visible() }

// SelectedLabels returns the labels shown on the trigger
func (m *Model) SelectedLabels() []string { return m.machine.SelectedLabels() }

// Labels exposes the widget's label repository
func (m *Model) Labels() *labels.Repository { return m.resolver.Repository() }

// KeyMap returns the key bindings
func (m *Model) KeyMap() KeyMap { return m.keys }

// IsOpen reports whether the option panel is shown
func (m *Model) IsOpen() bool { return !m.destroyed && m.machine.State().IsOpen }

// Focused reports whether the widget has keyboard focus
func (m *Model) Focused() bool { return m.focused }

// Destroyed reports whether Destroy was called
func (m *Model) Destroyed() bool { return m.destroyed }

// anchorMoved refits the search input to the anchor and places an open
// panel again
func (m *Model) anchorMoved() {
	m.input.Width = max(1, m.width()-4-len([]rune(m.input.Prompt)))
	if m.IsOpen() {
		m.reposition()
	}
}

// SetViewport sets the screen area the panel must stay inside
func (m *Model) SetViewport(r position.Rect) {
	m.viewport = r
	if m.IsOpen() {
		m.reposition()
	}
}

// Focus gives the widget keyboard focus
func (m *Model) Focus() tea.Cmd {
	if m.destroyed {
		return nil
	}
	m.focused = true
	return m.syncInput()
}

// Blur removes keyboard focus and closes the panel
func (m *Model) Blur() {
	m.focused = false
	if m.destroyed {
		return
	}
	m.apply(m.machine.Close())
	m.syncInput()
}

// Enable re-enables the widget
func (m *Model) Enable() {
	if m.destroyed {
		return
	}
	m.machine.Enable()
}

// Disable closes the panel and ignores input
func (m *Model) Disable() {
	if m.destroyed {
		return
	}
	m.machine.Disable()
	m.syncInput()
}

// SelectOption runs the selection mutation as if the user picked value
func (m *Model) SelectOption(value string) tea.Cmd {
	if m.destroyed {
		return nil
	}
	cmd := m.apply(m.machine.SelectOption(value))
	return tea.Batch(cmd, m.syncInput())
}

// RefreshLabels re-resolves the labels of the current selection
func (m *Model) RefreshLabels() tea.Cmd {
	if m.destroyed {
		return nil
	}
	return m.apply(m.machine.RefreshLabels())
}

// Destroy releases the bus subscription, the broadcast pump and any
// in-flight provider calls. The widget renders nothing afterwards.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.focused = false
	m.cancel()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.pump != nil {
		m.pump.close()
	}
	if m.bus != nil {
		m.bus.Publish(domain.WidgetDestroyedEvent{WidgetID: m.id})
	}
	log.Printf("combobox %s (%s) destroyed", m.id, m.params.StatePath)
}

// Init starts the broadcast listener and resolves the initial labels
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.pump != nil {
		cmds = append(cmds, waitForBroadcast(m.pump, m.id))
	}
	cmds = append(cmds, m.apply(m.machine.Init()))
	if m.focused {
		cmds = append(cmds, m.syncInput())
	}
	return tea.Batch(cmds...)
}

// apply converts machine effects into commands
func (m *Model) apply(effects []Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case FetchOptions:
			if m.provider == nil {
				m.machine.OptionsFetched(nil, fmt.Errorf("no provider: %w", provider.ErrNotSupported))
				continue
			}
			cmds = append(cmds, fetchOptionsCmd(m.ctx, m.provider, m.id), m.startSpinner())
		case ScheduleSearch:
			cmds = append(cmds, debounceCmd(m.tick, m.id, e.Tag, e.Delay))
		case RunSearch:
			if m.provider == nil {
				m.machine.SearchResult(e.Seq, nil, fmt.Errorf("no provider: %w", provider.ErrNotSupported))
				continue
			}
			cmds = append(cmds, searchCmd(m.ctx, m.provider, m.id, e.Seq, e.Query), m.startSpinner())
		case ResolveLabels:
			if m.provider == nil {
				m.machine.LabelsResolved(e.Values, nil)
				continue
			}
			cmds = append(cmds, resolveLabelsCmd(m.ctx, m.provider, m.resolver.Repository(), m.id, e))
		case Notify:
			cmds = append(cmds, m.notify(e.Selection))
		case MaxItemsReached:
			if m.bus != nil {
				m.bus.Publish(domain.MaxItemsReachedEvent{WidgetID: m.id, MaxItems: e.MaxItems})
			}
			id, text := m.id, e.Message
			cmds = append(cmds, func() tea.Msg { return MaxItemsReachedMsg{WidgetID: id, Message: text} })
		case Reposition:
			m.reposition()
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) notify(sel domain.Selection) tea.Cmd {
	if m.params.OnStateChange != nil {
		m.params.OnStateChange(sel)
	}
	if m.bus != nil {
		m.bus.Publish(domain.StateChangedEvent{WidgetID: m.id, StatePath: m.params.StatePath, Selection: sel})
	}
	msg := StateChangedMsg{WidgetID: m.id, StatePath: m.params.StatePath, Selection: sel}
	return func() tea.Msg { return msg }
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// syncInput mirrors machine state into the search input
func (m *Model) syncInput() tea.Cmd {
	st := m.machine.State()
	if m.input.Value() != st.SearchQuery {
		m.input.SetValue(st.SearchQuery)
	}
	wantFocus := m.focused && st.IsOpen && st.Focus == FocusSearch
	if wantFocus && !m.input.Focused() {
		return m.input.Focus()
	}
	if !wantFocus && m.input.Focused() {
		m.input.Blur()
	}
	return nil
}

// width is the trigger width: the anchor's when it has one
func (m *Model) width() int {
	if m.anchor != nil {
		if w := m.anchor.Bounds().Width; w > 0 {
			return w
		}
	}
	return m.params.Width
}

// anchorRect returns the trigger rectangle in screen cells
func (m *Model) anchorRect() position.Rect {
	r := position.Rect{Width: m.width(), Height: m.triggerHeight()}
	if m.anchor != nil {
		b := m.anchor.Bounds()
		r.X, r.Y = b.X, b.Y
	}
	return r
}

func (m *Model) anchorNode() position.Node {
	r := m.anchorRect()
	if m.anchor == nil {
		return &position.Box{Rect: r}
	}
	return &position.Box{Rect: r, Up: m.anchor.Parent()}
}

// reposition places the panel for the current content
func (m *Model) reposition() {
	size := position.Size{Width: m.width(), Height: m.panelNaturalHeight()}
	m.placement = position.Place(m.anchorNode(), size, position.Options{
		Viewport: m.viewport,
		Position: m.params.Position,
	})
	m.ensureActiveVisible()
}

// Placement returns the last computed panel placement
func (m *Model) Placement() position.Result { return m.placement }

// PanelRect returns the panel rectangle in screen cells
func (m *Model) PanelRect() (position.Rect, bool) {
	if !m.IsOpen() {
		return position.Rect{}, false
	}
	return position.ToScreen(m.anchorNode(), m.placement), true
}
