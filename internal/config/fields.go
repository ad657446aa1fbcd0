package config

import "comboselect/internal/domain"

// OptionList converts the static options into a domain list. Options sharing a
// Group are collected under one group entry placed where the group first appears.
func (f FieldConfig) OptionList() domain.OptionList {
	list := domain.OptionList{}
	groupAt := make(map[string]int)

	for _, o := range f.Options {
		opt := domain.Option{Value: o.Value, Label: o.Label, Disabled: o.Disabled}
		if o.Label == "" {
			opt.Label = o.Value
		}
		if o.Group == "" {
			list = append(list, domain.Entry{Option: opt})
			continue
		}
		if i, ok := groupAt[o.Group]; ok {
			list[i].Group.Options = append(list[i].Group.Options, opt)
			continue
		}
		groupAt[o.Group] = len(list)
		list = append(list, domain.NewGroup(o.Group, opt))
	}
	return list
}

// SetSelection stores the field's current selection for the next run
func (f *FieldConfig) SetSelection(sel domain.Selection) {
	if f.Multiple {
		f.Values = append([]string(nil), sel.Values...)
		f.Value = ""
		return
	}
	f.Value = sel.Value
	f.Values = nil
}

// Selection returns the saved selection
func (f FieldConfig) Selection() domain.Selection {
	if f.Multiple {
		return domain.Selection{Multiple: true, Values: append([]string(nil), f.Values...)}
	}
	return domain.Selection{Value: f.Value}
}
