package combobox

import "comboselect/internal/domain"

// VisibleOption is one navigable option of the rendered panel
type VisibleOption struct {
	domain.Option
	Group    string
	Selected bool // single-select mark
}

// Row is one rendered panel row: a group header or an option
type Row struct {
	Header string
	Option int // index into Visible.Options; -1 for a header
}

// Visible is the pure render model of the option panel
type Visible struct {
	Options   []VisibleOption
	Rows      []Row
	Message   string
	AutoClose bool
}

// Len returns the number of navigable options
func (v Visible) Len() int { return len(v.Options) }

// FirstEnabled returns the index of the first option that can be picked
func (v Visible) FirstEnabled() int {
	for i, o := range v.Options {
		if !o.Disabled {
			return i
		}
	}
	return -1
}

// IndexOf returns the visible index of value
func (v Visible) IndexOf(value string) int {
	for i, o := range v.Options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

// ComputeVisible derives what the panel shows. Ungrouped options come first,
// then each group; this is also the keyboard navigation order. In multi-select
// mode selected options are hidden. The options limit is consumed in list order.
func ComputeVisible(st State, cfg Settings) Visible {
	budget := cfg.OptionsLimit
	take := func() bool {
		if cfg.OptionsLimit <= 0 {
			return true
		}
		if budget == 0 {
			return false
		}
		budget--
		return true
	}
	keep := func(o domain.Option) bool {
		if st.Multiple && containsValue(st.Values, o.Value) {
			return false
		}
		return take()
	}

	var ungrouped []VisibleOption
	type group struct {
		label   string
		options []VisibleOption
	}
	var groups []group

	for _, e := range st.Options {
		if !e.IsGroup() {
			if keep(e.Option) {
				ungrouped = append(ungrouped, visibleOption(st, e.Option, ""))
			}
			continue
		}
		g := group{label: e.Group.Label}
		for _, o := range e.Group.Options {
			if keep(o) {
				g.options = append(g.options, visibleOption(st, o, e.Group.Label))
			}
		}
		if len(g.options) > 0 {
			groups = append(groups, g)
		}
	}

	var v Visible
	for _, o := range ungrouped {
		v.Rows = append(v.Rows, Row{Option: len(v.Options)})
		v.Options = append(v.Options, o)
	}
	for _, g := range groups {
		v.Rows = append(v.Rows, Row{Header: g.label, Option: -1})
		for _, o := range g.options {
			v.Rows = append(v.Rows, Row{Option: len(v.Options)})
			v.Options = append(v.Options, o)
		}
	}

	if len(v.Options) > 0 || st.IsLoading || st.IsSearching {
		return v
	}
	switch {
	case st.SearchQuery != "":
		v.Message = cfg.NoSearchResults
	case cfg.Multiple && !cfg.Searchable:
		v.AutoClose = true
	case cfg.Searchable && cfg.SearchPrompt != "":
		v.Message = cfg.SearchPrompt
	default:
		v.Message = cfg.NoSearchResults
	}
	return v
}

func visibleOption(st State, o domain.Option, group string) VisibleOption {
	return VisibleOption{
		Option:   o,
		Group:    group,
		Selected: !st.Multiple && st.Value != "" && st.Value == o.Value,
	}
}

func containsValue(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
