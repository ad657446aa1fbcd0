package provider

import (
	"context"
	"errors"

	"comboselect/internal/domain"
)

// ErrNotSupported is returned by a provider that lacks a capability
var ErrNotSupported = errors.New("provider: operation not supported")

// Provider supplies options and labels to a combobox. Implementations must
// be safe for concurrent use: calls run on command goroutines.
type Provider interface {
	FetchInitial(ctx context.Context) (domain.OptionList, error)
	Search(ctx context.Context, query string) (domain.OptionList, error)
	LabelFor(ctx context.Context, value string) (string, error)
	LabelsFor(ctx context.Context, values []string) ([]domain.Option, error)
}

// Capability names one provider operation
type Capability int

const (
	CapOptions Capability = iota
	CapSearch
	CapLabel
	CapLabels
)

func (c Capability) String() string {
	switch c {
	case CapOptions:
		return "options"
	case CapSearch:
		return "search"
	case CapLabel:
		return "label"
	case CapLabels:
		return "labels"
	}
	return "unknown"
}

// Capabler is implemented by providers that only support some operations
type Capabler interface {
	Supports(c Capability) bool
}

// Supports reports whether p can serve c. Providers that don't implement
// Capabler are assumed to support everything.
func Supports(p Provider, c Capability) bool {
	if p == nil {
		return false
	}
	if cp, ok := p.(Capabler); ok {
		return cp.Supports(c)
	}
	return true
}

// Funcs adapts four optional callbacks into a Provider. A nil callback
// makes the matching operation return ErrNotSupported.
type Funcs struct {
	GetOptionsUsing       func(ctx context.Context) (domain.OptionList, error)
	GetSearchResultsUsing func(ctx context.Context, query string) (domain.OptionList, error)
	GetOptionLabelUsing   func(ctx context.Context, value string) (string, error)
	GetOptionLabelsUsing  func(ctx context.Context, values []string) ([]domain.Option, error)
}

// FetchInitial calls GetOptionsUsing
func (f Funcs) FetchInitial(ctx context.Context) (domain.OptionList, error) {
	if f.GetOptionsUsing == nil {
		return nil, ErrNotSupported
	}
	return f.GetOptionsUsing(ctx)
}

// Search calls GetSearchResultsUsing
func (f Funcs) Search(ctx context.Context, query string) (domain.OptionList, error) {
	if f.GetSearchResultsUsing == nil {
		return nil, ErrNotSupported
	}
	return f.GetSearchResultsUsing(ctx, query)
}

// LabelFor calls GetOptionLabelUsing
func (f Funcs) LabelFor(ctx context.Context, value string) (string, error) {
	if f.GetOptionLabelUsing == nil {
		return "", ErrNotSupported
	}
	return f.GetOptionLabelUsing(ctx, value)
}

// LabelsFor calls GetOptionLabelsUsing
func (f Funcs) LabelsFor(ctx context.Context, values []string) ([]domain.Option, error) {
	if f.GetOptionLabelsUsing == nil {
		return nil, ErrNotSupported
	}
	return f.GetOptionLabelsUsing(ctx, values)
}

// Supports implements Capabler
func (f Funcs) Supports(c Capability) bool {
	switch c {
	case CapOptions:
		return f.GetOptionsUsing != nil
	case CapSearch:
		return f.GetSearchResultsUsing != nil
	case CapLabel:
		return f.GetOptionLabelUsing != nil
	case CapLabels:
		return f.GetOptionLabelsUsing != nil
	}
	return false
}
