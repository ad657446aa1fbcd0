package combobox

import (
	"log"

	"comboselect/internal/domain"
	"comboselect/internal/labels"
)

// Machine is the headless combobox. Every transition mutates State and
// returns the effects the host has to carry out.
type Machine struct {
	cfg      Settings
	state    State
	resolver *labels.Resolver
	// values a provider was already asked about and had no label for
	attempted map[string]bool
}

// NewMachine creates a machine. initial holds the bound value and the
// static option list in Options.
func NewMachine(cfg Settings, initial State, resolver *labels.Resolver) *Machine {
	st := initial
	st.Multiple = cfg.Multiple
	st.SelectedIndex = -1
	st.Focus = FocusTrigger
	st.Options = initial.Options.Clone()
	st.OriginalOptions = initial.Options.Clone()
	st.OptionsLoaded = !cfg.DynamicOptions
	if st.Multiple {
		st.Values = dedupe(st.Values)
		st.Value = ""
	} else {
		st.Values = nil
	}

	m := &Machine{cfg: cfg, state: st, resolver: resolver, attempted: make(map[string]bool)}
	resolver.Repository().PutOptions(st.Options)
	return m
}

// State returns a snapshot of the current state
func (m *Machine) State() State {
	return m.state
}

// Settings returns the machine settings
func (m *Machine) Settings() Settings {
	return m.cfg
}

// Visible computes the current panel content
func (m *Machine) Visible() Visible {
	return ComputeVisible(m.state, m.cfg)
}

// Label returns the display label of value; unresolved values show as themselves
func (m *Machine) Label(value string) string {
	if label, ok := m.resolver.Lookup(value, m.state.Options); ok {
		return label
	}
	return m.resolver.Display(value, m.state.OriginalOptions)
}

// SelectedLabels returns the labels of the selection in display order
func (m *Machine) SelectedLabels() []string {
	values := m.selectedValues()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = m.Label(v)
	}
	return out
}

// Init returns the effects needed right after construction
func (m *Machine) Init() []Effect {
	return m.labelEffects()
}

// Open shows the panel. The query is reset and the pristine options are
// restored, which discards any stale search still in flight.
func (m *Machine) Open() []Effect {
	return m.openWith(func() {
		if m.cfg.Searchable {
			m.focusSearch()
		} else {
			m.focusIndex(0)
		}
	})
}

func (m *Machine) openWith(place func()) []Effect {
	if m.state.Disabled {
		return nil
	}
	st := &m.state
	st.IsOpen = true
	st.SearchQuery = ""
	st.Options = st.OriginalOptions.Clone()
	st.DebounceTag++
	st.SearchSeq++
	st.IsSearching = false
	st.SelectedIndex = -1
	st.Alert = ""

	var effects []Effect
	if m.cfg.DynamicOptions && !st.OptionsLoaded {
		st.IsLoading = true
		effects = append(effects, FetchOptions{})
	}
	place()
	effects = append(effects, Reposition{})
	return m.settle(effects)
}

// Close hides the panel and returns focus to the trigger
func (m *Machine) Close() []Effect {
	st := &m.state
	st.IsOpen = false
	st.SelectedIndex = -1
	st.Focus = FocusTrigger
	st.Alert = ""
	return nil
}

// Toggle opens a closed panel and closes an open one
func (m *Machine) Toggle() []Effect {
	if m.state.IsOpen {
		return m.Close()
	}
	return m.Open()
}

// Key applies one navigation key
func (m *Machine) Key(k Key) []Effect {
	if m.state.Disabled {
		return nil
	}
	m.state.Alert = ""

	if !m.state.IsOpen {
		return m.triggerKey(k)
	}
	switch m.state.Focus {
	case FocusSearch:
		return m.searchKey(k)
	case FocusOption:
		return m.optionKey(k)
	}
	if k == KeyEscape || k == KeyTab || k == KeyShiftTab {
		return m.Close()
	}
	return m.triggerKey(k)
}

func (m *Machine) triggerKey(k Key) []Effect {
	switch k {
	case KeyDown:
		return m.Open()
	case KeyUp:
		return m.openWith(func() { m.focusIndex(m.Visible().Len() - 1) })
	case KeyEnter, KeySpace:
		return m.Toggle()
	case KeyBackspace:
		return m.removeLast()
	}
	return nil
}

func (m *Machine) searchKey(k Key) []Effect {
	switch k {
	case KeyDown:
		m.state.SelectedIndex = -1
		m.focusNext()
	case KeyUp, KeyShiftTab:
		m.focusIndex(m.Visible().Len() - 1)
	case KeyTab:
		m.focusIndex(0)
	case KeyEnter:
		if m.state.IsSearching {
			return nil
		}
		v := m.Visible()
		if i := v.FirstEnabled(); i >= 0 {
			return m.SelectOption(v.Options[i].Value)
		}
	case KeyEscape:
		return m.Close()
	}
	return nil
}

func (m *Machine) optionKey(k Key) []Effect {
	switch k {
	case KeyDown:
		m.focusNext()
	case KeyUp:
		m.focusPrev()
	case KeyEnter, KeySpace:
		return m.Activate(m.state.SelectedIndex)
	case KeyEscape, KeyTab, KeyShiftTab:
		return m.Close()
	}
	return nil
}

// Activate picks the visible option at index; disabled options are ignored
func (m *Machine) Activate(index int) []Effect {
	v := m.Visible()
	if index < 0 || index >= v.Len() || v.Options[index].Disabled {
		return nil
	}
	return m.SelectOption(v.Options[index].Value)
}

// Type applies a new search query
func (m *Machine) Type(query string) []Effect {
	if m.state.Disabled {
		return nil
	}
	st := &m.state
	st.Alert = ""
	if query == st.SearchQuery {
		return nil
	}
	st.SearchQuery = query
	st.SelectedIndex = -1
	if st.IsOpen && m.cfg.Searchable {
		st.Focus = FocusSearch
	}

	if query == "" {
		st.DebounceTag++
		st.SearchSeq++
		st.IsSearching = false
		st.Options = st.OriginalOptions.Clone()
		return m.settle([]Effect{Reposition{}})
	}

	if m.cfg.DynamicSearch {
		st.DebounceTag++
		return []Effect{ScheduleSearch{Tag: st.DebounceTag, Query: query, Delay: m.cfg.SearchDebounce}}
	}

	st.Options = st.OriginalOptions.Filter(query, m.cfg.SearchableFields)
	return m.settle([]Effect{Reposition{}})
}

// DebounceElapsed fires the search scheduled with tag, unless a later
// keystroke superseded it
func (m *Machine) DebounceElapsed(tag int) []Effect {
	st := &m.state
	if tag != st.DebounceTag || st.SearchQuery == "" {
		return nil
	}
	st.SearchSeq++
	st.IsSearching = true
	return []Effect{RunSearch{Seq: st.SearchSeq, Query: st.SearchQuery}}
}

// SearchResult applies a provider response. Responses for anything but the
// latest request are dropped. It reports whether the result was applied.
func (m *Machine) SearchResult(seq int, list domain.OptionList, err error) ([]Effect, bool) {
	st := &m.state
	if seq != st.SearchSeq {
		return nil, false
	}
	st.IsSearching = false
	if err != nil {
		log.Printf("combobox: search %q failed: %v", st.SearchQuery, err)
		st.Options = st.OriginalOptions.Clone()
	} else {
		st.Options = list.Clone()
		m.resolver.Repository().PutOptions(list)
	}
	st.SelectedIndex = -1
	if st.Focus == FocusOption {
		m.focusSearch()
	}
	return m.settle([]Effect{Reposition{}}), true
}

// OptionsFetched applies the initial dynamic option fetch
func (m *Machine) OptionsFetched(list domain.OptionList, err error) []Effect {
	st := &m.state
	st.IsLoading = false
	if err != nil {
		log.Printf("combobox: failed to fetch options: %v", err)
		return m.settle([]Effect{Reposition{}})
	}
	st.OptionsLoaded = true
	st.OriginalOptions = list.Clone()
	m.resolver.Repository().PutOptions(list)

	if st.SearchQuery == "" {
		st.Options = list.Clone()
	} else if !m.cfg.DynamicSearch {
		st.Options = st.OriginalOptions.Filter(st.SearchQuery, m.cfg.SearchableFields)
	}
	if st.IsOpen && st.Focus == FocusOption && st.SelectedIndex < 0 {
		m.focusIndex(0)
	}
	return m.settle([]Effect{Reposition{}})
}

// LabelsResolved records the outcome of a ResolveLabels effect
func (m *Machine) LabelsResolved(values []string, found map[string]string) []Effect {
	m.resolver.Release(values)
	st := &m.state
	for _, v := range values {
		label, ok := found[v]
		if !ok {
			m.attempted[v] = true
			continue
		}
		m.resolver.Repository().Put(v, label)
		st.Options = st.Options.WithLabel(v, label)
		st.OriginalOptions = st.OriginalOptions.WithLabel(v, label)
	}
	return nil
}

// RefreshLabels drops the cached labels of the selection and refetches them
func (m *Machine) RefreshLabels() []Effect {
	values := m.selectedValues()
	if len(values) == 0 {
		return nil
	}
	m.resolver.Repository().Forget(values...)
	for _, v := range values {
		delete(m.attempted, v)
	}
	if !m.canFetchLabels() {
		return nil
	}
	claimed := m.resolver.Claim(values)
	if len(claimed) == 0 {
		return nil
	}
	return []Effect{ResolveLabels{Values: claimed, Batch: m.cfg.Multiple, Refresh: true}}
}

// SelectOption is the single mutation path for the bound value. In single
// mode it sets the value and closes; in multi mode it toggles membership.
func (m *Machine) SelectOption(value string) []Effect {
	if !m.cfg.Multiple {
		return m.selectSingle(value)
	}
	if value == "" {
		return nil
	}

	st := &m.state
	if i := indexOf(st.Values, value); i >= 0 {
		st.Values = append(append([]string(nil), st.Values[:i]...), st.Values[i+1:]...)
	} else {
		if m.cfg.MaxItems > 0 && len(st.Values) >= m.cfg.MaxItems {
			st.Alert = m.cfg.MaxItemsMessage
			return []Effect{MaxItemsReached{MaxItems: m.cfg.MaxItems, Message: m.cfg.MaxItemsMessage}}
		}
		st.Values = append(append([]string(nil), st.Values...), value)
	}

	if st.IsOpen {
		if m.cfg.Searchable {
			m.focusSearch()
		} else if st.Focus == FocusOption {
			m.focusIndex(min(st.SelectedIndex, m.Visible().Len()-1))
		}
	}
	effects := []Effect{Notify{Selection: st.Selection()}, Reposition{}}
	effects = append(effects, m.labelEffects()...)
	return m.settle(effects)
}

func (m *Machine) selectSingle(value string) []Effect {
	st := &m.state
	st.Value = value
	m.Close()
	effects := []Effect{Notify{Selection: st.Selection()}}
	return append(effects, m.labelEffects()...)
}

func (m *Machine) removeLast() []Effect {
	st := &m.state
	if st.Multiple {
		if len(st.Values) == 0 {
			return nil
		}
		return m.SelectOption(st.Values[len(st.Values)-1])
	}
	if m.cfg.CanSelectPlaceholder && st.Value != "" {
		return m.SelectOption("")
	}
	return nil
}

// SetValue replaces the bound value without notifying the host
func (m *Machine) SetValue(sel domain.Selection) []Effect {
	if m.cfg.Multiple {
		m.state.Values = dedupe(sel.Values)
	} else {
		m.state.Value = sel.Value
	}
	return m.settle(m.labelEffects())
}

// Disable closes the panel and ignores input until Enable
func (m *Machine) Disable() []Effect {
	m.Close()
	m.state.Disabled = true
	return nil
}

// Enable re-enables input
func (m *Machine) Enable() []Effect {
	m.state.Disabled = false
	return nil
}

// FocusSearch moves focus into the search input of an open panel
func (m *Machine) FocusSearch() {
	if m.state.IsOpen && m.cfg.Searchable {
		m.focusSearch()
	}
}

func (m *Machine) focusSearch() {
	m.state.Focus = FocusSearch
	m.state.SelectedIndex = -1
}

// focusIndex focuses the option at i, clamped to the visible range. With
// nothing visible focus rests on the search input or the trigger.
func (m *Machine) focusIndex(i int) {
	n := m.Visible().Len()
	if n == 0 {
		if m.cfg.Searchable {
			m.focusSearch()
		} else {
			m.state.Focus = FocusOption
			m.state.SelectedIndex = -1
		}
		return
	}
	m.state.Focus = FocusOption
	m.state.SelectedIndex = max(0, min(i, n-1))
}

// focusNext moves down; past the end it goes to the search input when there
// is one and wraps to the top otherwise
func (m *Machine) focusNext() {
	n := m.Visible().Len()
	if n == 0 {
		return
	}
	next := m.state.SelectedIndex + 1
	if next >= n {
		if m.cfg.Searchable {
			m.focusSearch()
			return
		}
		next = 0
	}
	m.focusIndex(next)
}

func (m *Machine) focusPrev() {
	n := m.Visible().Len()
	if n == 0 {
		return
	}
	prev := m.state.SelectedIndex - 1
	if prev < 0 {
		if m.cfg.Searchable {
			m.focusSearch()
			return
		}
		prev = n - 1
	}
	m.focusIndex(prev)
}

// settle applies rules that depend on the visible options: the panel of a
// non-searchable multi-select closes once nothing is left to pick
func (m *Machine) settle(effects []Effect) []Effect {
	if m.state.IsOpen && m.Visible().AutoClose {
		m.Close()
	}
	return effects
}

func (m *Machine) selectedValues() []string {
	if m.state.Multiple {
		return append([]string(nil), m.state.Values...)
	}
	if m.state.Value == "" {
		return nil
	}
	return []string{m.state.Value}
}

func (m *Machine) canFetchLabels() bool {
	if m.cfg.Multiple {
		return m.cfg.CanFetchLabels
	}
	return m.cfg.CanFetchLabel
}

// labelEffects requests provider lookups for selected values that no
// synchronous source could label, skipping values already in flight
func (m *Machine) labelEffects() []Effect {
	missing := m.resolver.Unresolved(m.selectedValues(), m.state.Options)
	missing = m.resolver.Unresolved(missing, m.state.OriginalOptions)

	var ask []string
	for _, v := range missing {
		if !m.attempted[v] {
			ask = append(ask, v)
		}
	}
	if len(ask) == 0 || !m.canFetchLabels() {
		return nil
	}
	claimed := m.resolver.Claim(ask)
	if len(claimed) == 0 {
		return nil
	}
	return []Effect{ResolveLabels{Values: claimed, Batch: m.cfg.Multiple}}
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
