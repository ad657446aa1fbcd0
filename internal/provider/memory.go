package provider

import (
	"context"
	"sync"

	"comboselect/internal/domain"
)

// Memory serves a fixed option list. Search filters it in memory.
type Memory struct {
	mu     sync.RWMutex
	list   domain.OptionList
	fields []string
}

// NewMemory creates a provider over list searching the given fields
// (label only when none are given)
func NewMemory(list domain.OptionList, fields ...string) *Memory {
	if len(fields) == 0 {
		fields = []string{domain.FieldLabel}
	}
	return &Memory{list: list.Clone(), fields: fields}
}

// FetchInitial returns a copy of the whole list
func (m *Memory) FetchInitial(ctx context.Context) (domain.OptionList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.Clone(), nil
}

// Search filters the list
func (m *Memory) Search(ctx context.Context, query string) (domain.OptionList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.Filter(query, m.fields), nil
}

// LabelFor finds one label; an unknown value has no label
func (m *Memory) LabelFor(ctx context.Context, value string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.list.Find(value); ok {
		return o.Label, nil
	}
	return "", nil
}

// LabelsFor returns the known options among values, in input order
func (m *Memory) LabelsFor(ctx context.Context, values []string) ([]domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Option
	for _, v := range values {
		if o, ok := m.list.Find(v); ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// SetLabel changes the label of value; it reports whether value exists
func (m *Memory) SetLabel(value, label string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.list.Find(value); !ok {
		return false
	}
	m.list = m.list.WithLabel(value, label)
	return true
}
