package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"comboselect/internal/combobox"
	"comboselect/internal/config"
	"comboselect/internal/domain"
	"comboselect/internal/eventbus"
	"comboselect/internal/position"
	"comboselect/internal/provider"
	"comboselect/internal/transport/rest"
	"comboselect/internal/ui/views"
)

// DefaultHostID identifies the demo form in refresh broadcasts
const DefaultHostID = "form"

const (
	formX         = 2
	firstFieldY   = 3
	maxFieldWidth = 60
	statusTTL     = 3 * time.Second
)

// Options configures the form model
type Options struct {
	Config        *config.Config
	ConfigService config.ConfigService // nil disables saving
	ConfigPath    string               // shown in the status line after a save
	Bus           eventbus.EventBus
	Providers     map[string]provider.Provider // by field name
	HostID        string
	Pager         func(content string) error // nil runs the ov pager
}

// field is one combobox on the form
type field struct {
	cfg    *config.FieldConfig
	widget *combobox.Model
	anchor *position.Box
}

// Model represents the form state
type Model struct {
	bus        eventbus.EventBus
	config     *config.Config
	cfgService config.ConfigService
	cfgPath    string
	hostID     string

	fields []*field
	focus  int
	root   *position.Box

	keys         KeyMap
	help         help.Model
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	pager        func(string) error

	width, height int
	inPagerMode   bool // tracks if we're currently in pager mode
	program       *tea.Program

	status     string
	statusKind views.StatusKind
	statusSeq  int
	statusTTL  time.Duration // 0 keeps messages until replaced
}

// NewModel builds a combobox per configured field
func NewModel(opts Options) (*Model, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("no config")
	}
	hostID := opts.HostID
	if hostID == "" {
		hostID = DefaultHostID
	}

	m := &Model{
		bus:        opts.Bus,
		config:     opts.Config,
		cfgService: opts.ConfigService,
		cfgPath:    opts.ConfigPath,
		hostID:     hostID,
		root:       &position.Box{},
		keys:       DefaultKeyMap(),
		help:       help.New(),
		renderer:   views.NewRenderer(),
		statusTTL:  statusTTL,
	}
	m.helpRenderer = NewHelpRenderer(m.keys)
	m.pager = opts.Pager

	for i := range opts.Config.Fields {
		fc := &opts.Config.Fields[i]
		params := FieldParams(opts.Config, *fc, opts.Providers[fc.Name], opts.Bus, hostID)
		anchor := &position.Box{Up: m.root}
		params.Anchor = anchor

		w, err := combobox.New(params)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		m.fields = append(m.fields, &field{cfg: fc, widget: w, anchor: anchor})
	}

	for i, f := range m.fields {
		if f.cfg.Autofocus {
			m.focus = i
			break
		}
	}
	m.layout()
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Widget returns the combobox of the named field
func (m *Model) Widget(name string) (*combobox.Model, bool) {
	for _, f := range m.fields {
		if f.cfg.Name == name {
			return f.widget, true
		}
	}
	return nil, false
}

// Target describes the named field for a label-change listener
func (m *Model) Target(name string) (rest.Target, bool) {
	w, ok := m.Widget(name)
	if !ok {
		return rest.Target{}, false
	}
	return rest.Target{HostID: m.hostID, StatePath: w.StatePath(), Labels: w.Labels()}, true
}

// HostID returns the id the form's widgets answer broadcasts for
func (m *Model) HostID() string { return m.hostID }

// Focused returns the index of the focused field
func (m *Model) Focused() int { return m.focus }

// Status returns the current status line text
func (m *Model) Status() string { return m.status }

// Close destroys every widget
func (m *Model) Close() {
	for _, f := range m.fields {
		f.widget.Destroy()
	}
}

// Init starts every widget and focuses the first field
func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.fields)+1)
	for _, f := range m.fields {
		cmds = append(cmds, f.widget.Init())
	}
	if f := m.current(); f != nil {
		cmds = append(cmds, f.widget.Focus())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.root.Rect = position.Rect{Width: msg.Width, Height: msg.Height}
		m.layout()
		cmd = m.broadcast(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case combobox.StateChangedMsg:
		cmd = m.handleStateChanged(msg)

	case combobox.MaxItemsReachedMsg:
		cmd = m.setStatus(views.StatusWarning, msg.Message)

	case EventMsg:
		cmd = m.handleEvent(msg.Event)

	case configSavedMsg:
		if msg.err != nil {
			log.Printf("Failed to save config: %v", msg.err)
			cmd = m.setStatus(views.StatusError, fmt.Sprintf("Save failed: %v", msg.err))
		} else {
			cmd = m.setStatus(views.StatusSuccess, "Saved "+msg.path)
		}

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager error: %v", msg.err)
			cmd = m.setStatus(views.StatusError, fmt.Sprintf("Help failed: %v", msg.err))
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	default:
		cmd = m.broadcast(msg)
	}

	m.layout()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	if key.Matches(msg, m.keys.Save) {
		return m.save()
	}

	f := m.current()
	if f != nil && f.widget.IsOpen() {
		return m.forward(f, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	case key.Matches(msg, m.keys.Help):
		return m.showHelp()
	}
	if f != nil {
		return m.forward(f, msg)
	}
	return nil
}

// handleMouse routes clicks. A click inside the open panel only reaches its
// widget; any other press moves focus to the field under it and lets every
// widget see it, so open panels elsewhere close.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	cur := m.current()
	if cur != nil {
		if r, ok := cur.widget.PanelRect(); ok && r.Contains(msg.X, msg.Y) {
			return m.forward(cur, msg)
		}
	}
	if msg.Action != tea.MouseActionPress {
		if cur != nil {
			return m.forward(cur, msg)
		}
		return nil
	}

	var focusCmd tea.Cmd
	for i, f := range m.fields {
		if f.anchor.Rect.Contains(msg.X, msg.Y) && i != m.focus {
			focusCmd = m.setFocus(i)
			break
		}
	}
	return tea.Batch(focusCmd, m.broadcast(msg))
}

func (m *Model) handleStateChanged(msg combobox.StateChangedMsg) tea.Cmd {
	for _, f := range m.fields {
		if f.widget.ID() != msg.WidgetID {
			continue
		}
		f.cfg.SetSelection(msg.Selection)
		text := strings.Join(f.widget.SelectedLabels(), ", ")
		if text == "" {
			text = "(none)"
		}
		log.Printf("%s changed to %s", f.cfg.StatePath, text)
		return m.setStatus(views.StatusInfo, fmt.Sprintf("%s: %s", m.fieldLabel(f), text))
	}
	return nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch e := e.(type) {
	case domain.ProviderFailedEvent:
		name := e.WidgetID
		for _, f := range m.fields {
			if f.widget.ID() == e.WidgetID {
				name = m.fieldLabel(f)
			}
		}
		return m.setStatus(views.StatusError, fmt.Sprintf("%s: %s failed: %v", name, e.Operation, e.Err))
	case domain.OptionLabelChangedEvent:
		return m.setStatus(views.StatusInfo, fmt.Sprintf("%s option %s renamed to %q", e.Source, e.Value, e.Label))
	case domain.ConfigSavedEvent:
		log.Printf("Config saved to %s", e.Path)
	}
	return nil
}

// forward sends msg to one widget
func (m *Model) forward(f *field, msg tea.Msg) tea.Cmd {
	_, cmd := f.widget.Update(msg)
	return cmd
}

// broadcast sends msg to every widget; each ignores what isn't its own
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.fields))
	for _, f := range m.fields {
		_, cmd := f.widget.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) current() *field {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return m.fields[m.focus]
}

// moveFocus steps through the fields, skipping disabled ones
func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.fields)
	if n == 0 {
		return nil
	}
	for step := 1; step <= n; step++ {
		i := ((m.focus+delta*step)%n + n) % n
		if !m.fields[i].widget.State().Disabled {
			return m.setFocus(i)
		}
	}
	return nil
}

func (m *Model) setFocus(i int) tea.Cmd {
	if cur := m.current(); cur != nil {
		cur.widget.Blur()
	}
	m.focus = i
	return m.fields[i].widget.Focus()
}

// layout stacks the fields: a label line above each trigger, a blank line
// between fields. Fields pushed down by a taller trigger above them are
// told their anchor moved.
func (m *Model) layout() {
	width := maxFieldWidth
	if m.width > 0 {
		width = max(10, min(maxFieldWidth, m.width-2*formX))
	}
	y := firstFieldY
	for _, f := range m.fields {
		h := lipgloss.Height(f.widget.View())
		r := position.Rect{X: formX, Y: y, Width: width, Height: h}
		if r != f.anchor.Rect {
			f.anchor.Rect = r
			f.widget.Update(combobox.ScrollMsg{})
		}
		y += h + 2
	}
}

func (m *Model) fieldLabel(f *field) string {
	if f.cfg.Label != "" {
		return f.cfg.Label
	}
	return f.cfg.Name
}

func (m *Model) setStatus(kind views.StatusKind, text string) tea.Cmd {
	m.status, m.statusKind = text, kind
	m.statusSeq++
	if m.statusTTL <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// snapshot copies the config so a save running in a command doesn't race
// with later selections
func (m *Model) snapshot() *config.Config {
	cp := *m.config
	cp.Fields = append([]config.FieldConfig(nil), m.config.Fields...)
	return &cp
}

func (m *Model) save() tea.Cmd {
	if m.cfgService == nil {
		return m.setStatus(views.StatusWarning, "No config file to save to")
	}
	cfg, svc, path := m.snapshot(), m.cfgService, m.cfgPath
	return func() tea.Msg {
		return configSavedMsg{path: path, err: svc.Save(cfg)}
	}
}

func (m *Model) quit() tea.Cmd {
	if m.config.UI.AutosaveOnExit && m.cfgService != nil {
		if err := m.cfgService.Save(m.snapshot()); err != nil {
			log.Printf("Failed to save config on exit: %v", err)
		}
	}
	return tea.Quit
}

// showHelp returns a command that shows help using the pager
func (m *Model) showHelp() tea.Cmd {
	content := m.helpRenderer.RenderHelpContent()
	pager := m.pager
	if pager == nil {
		pager = NewHelpOps(m.program).ShowHelpInPager
	}
	program := m.program
	return func() tea.Msg {
		if program != nil {
			// Send pause message to stop rendering
			program.Send(pauseRenderingMsg{})
		}
		err := pager(content)
		if program != nil {
			program.Send(resumeRenderingMsg{})
		}
		return helpPagerMsg{err: err}
	}
}

// View renders the form with the open panel composited on top
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	state := views.FormState{
		Width:         m.width,
		Height:        m.height,
		Title:         "comboselect",
		Source:        m.config.Source,
		StatusMessage: m.status,
		StatusKind:    m.statusKind,
		ShowStatusBar: m.config.UI.ShowStatusBar,
		HelpLine:      m.help.View(m.keys),
	}
	for i, f := range m.fields {
		state.Fields = append(state.Fields, views.FieldView{
			Label:   m.fieldLabel(f),
			Path:    f.cfg.StatePath,
			Trigger: f.widget.View(),
			X:       f.anchor.Rect.X,
			Y:       f.anchor.Rect.Y,
			Focused: i == m.focus,
		})
	}
	if f := m.current(); f != nil {
		if r, ok := f.widget.PanelRect(); ok {
			state.Panel = &views.Layer{Content: f.widget.PanelView(), X: r.X, Y: r.Y}
		}
	}
	return m.renderer.Render(state)
}
