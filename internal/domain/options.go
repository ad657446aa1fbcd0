package domain

import "strings"

// Searchable option fields
const (
	FieldLabel = "label"
	FieldValue = "value"
)

// Flatten returns every option in navigation order: ungrouped options first,
// then the children of each group in list order
func (l OptionList) Flatten() []Option {
	var ungrouped, grouped []Option
	for _, e := range l {
		if e.IsGroup() {
			grouped = append(grouped, e.Group.Options...)
			continue
		}
		ungrouped = append(ungrouped, e.Option)
	}
	return append(ungrouped, grouped...)
}

// Find looks up an option by value, descending into groups
func (l OptionList) Find(value string) (Option, bool) {
	for _, e := range l {
		if !e.IsGroup() {
			if e.Option.Value == value {
				return e.Option, true
			}
			continue
		}
		for _, o := range e.Group.Options {
			if o.Value == value {
				return o, true
			}
		}
	}
	return Option{}, false
}

// Count returns the number of selectable options (group headers excluded)
func (l OptionList) Count() int {
	n := 0
	for _, e := range l {
		if e.IsGroup() {
			n += len(e.Group.Options)
		} else {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers can mutate groups freely
func (l OptionList) Clone() OptionList {
	if l == nil {
		return nil
	}
	out := make(OptionList, len(l))
	for i, e := range l {
		if e.IsGroup() {
			opts := make([]Option, len(e.Group.Options))
			copy(opts, e.Group.Options)
			out[i] = Entry{Group: &Group{Label: e.Group.Label, Options: opts}}
			continue
		}
		out[i] = e
	}
	return out
}

// WithLabel returns a copy where every option carrying value gets the new label
func (l OptionList) WithLabel(value, label string) OptionList {
	out := l.Clone()
	for i := range out {
		if !out[i].IsGroup() {
			if out[i].Option.Value == value {
				out[i].Option.Label = label
			}
			continue
		}
		for j := range out[i].Group.Options {
			if out[i].Group.Options[j].Value == value {
				out[i].Group.Options[j].Label = label
			}
		}
	}
	return out
}

// Filter keeps options whose searchable fields contain query (case-insensitive).
// A group survives when at least one child matches and keeps only those children.
// An empty query returns a copy of the whole list.
func (l OptionList) Filter(query string, fields []string) OptionList {
	if query == "" {
		return l.Clone()
	}
	if len(fields) == 0 {
		fields = []string{FieldLabel}
	}
	needle := strings.ToLower(query)

	out := OptionList{}
	for _, e := range l {
		if !e.IsGroup() {
			if MatchesOption(e.Option, needle, fields) {
				out = append(out, e)
			}
			continue
		}
		var kept []Option
		for _, o := range e.Group.Options {
			if MatchesOption(o, needle, fields) {
				kept = append(kept, o)
			}
		}
		if len(kept) > 0 {
			out = append(out, Entry{Group: &Group{Label: e.Group.Label, Options: kept}})
		}
	}
	return out
}

// MatchesOption checks a lower-cased needle against the option's searchable fields
func MatchesOption(o Option, needle string, fields []string) bool {
	for _, f := range fields {
		switch f {
		case FieldLabel:
			if strings.Contains(strings.ToLower(o.Label), needle) {
				return true
			}
		case FieldValue:
			if strings.Contains(strings.ToLower(o.Value), needle) {
				return true
			}
		}
	}
	return false
}

// ValidSearchField reports whether name is a known searchable field
func ValidSearchField(name string) bool {
	return name == FieldLabel || name == FieldValue
}
