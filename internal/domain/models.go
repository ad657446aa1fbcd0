package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Option represents a single selectable choice
type Option struct {
	Value    string
	Label    string // may contain HTML when the widget allows it
	Disabled bool
}

// Group represents a labelled set of options. Group labels are never values.
type Group struct {
	Label   string
	Options []Option
}

// Entry is one element of an option list: either an option or a group
type Entry struct {
	Option Option
	Group  *Group
}

// IsGroup reports whether the entry is a group
func (e Entry) IsGroup() bool {
	return e.Group != nil
}

// OptionList is an ordered, possibly grouped, list of options
type OptionList []Entry

// NewOption builds an ungrouped entry
func NewOption(value, label string) Entry {
	return Entry{Option: Option{Value: value, Label: label}}
}

// NewDisabledOption builds an ungrouped entry that can't be picked
func NewDisabledOption(value, label string) Entry {
	return Entry{Option: Option{Value: value, Label: label, Disabled: true}}
}

// NewGroup builds a group entry
func NewGroup(label string, options ...Option) Entry {
	return Entry{Group: &Group{Label: label, Options: options}}
}

// Selection is the bound value of a widget: a single scalar or an ordered list
type Selection struct {
	Multiple bool
	Value    string   // single-select; "" is the empty sentinel
	Values   []string // multi-select; insertion order is display order
}

// IsEmpty reports whether nothing is selected
func (s Selection) IsEmpty() bool {
	if s.Multiple {
		return len(s.Values) == 0
	}
	return s.Value == ""
}

// Contains reports whether value is part of the selection
func (s Selection) Contains(value string) bool {
	if !s.Multiple {
		return s.Value != "" && s.Value == value
	}
	for _, v := range s.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Wire shape, shared with the REST transport:
// {"value":..,"label":..,"isDisabled":..} or {"label":..,"options":[..]}
type wireEntry struct {
	Value      json.RawMessage `json:"value,omitempty"`
	Label      string          `json:"label"`
	IsDisabled bool            `json:"isDisabled,omitempty"`
}

// MarshalJSON encodes an option
func (o Option) MarshalJSON() ([]byte, error) {
	value, err := json.Marshal(o.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEntry{Value: value, Label: o.Label, IsDisabled: o.Disabled})
}

// UnmarshalJSON decodes an option, accepting string or numeric values
func (o *Option) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	value, err := decodeScalar(w.Value)
	if err != nil {
		return err
	}
	*o = Option{Value: value, Label: w.Label, Disabled: w.IsDisabled}
	return nil
}

// MarshalJSON encodes the entry as an option or a group
func (e Entry) MarshalJSON() ([]byte, error) {
	if !e.IsGroup() {
		return json.Marshal(e.Option)
	}
	options := e.Group.Options
	if options == nil {
		options = []Option{}
	}
	return json.Marshal(struct {
		Label   string   `json:"label"`
		Options []Option `json:"options"`
	}{Label: e.Group.Label, Options: options})
}

// UnmarshalJSON decodes an entry; objects with an "options" array are groups
func (e *Entry) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if raw, ok := probe["options"]; ok && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var g struct {
			Label   string   `json:"label"`
			Options []Option `json:"options"`
		}
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		*e = Entry{Group: &Group{Label: g.Label, Options: g.Options}}
		return nil
	}
	var o Option
	if err := json.Unmarshal(data, &o); err != nil {
		return err
	}
	*e = Entry{Option: o}
	return nil
}

// decodeScalar turns a JSON scalar into its string form
func decodeScalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("option value must be a scalar, got %s", string(raw))
	}
}
