package combobox

import (
	"errors"
	"fmt"
	"time"

	"comboselect/internal/domain"
	"comboselect/internal/eventbus"
	"comboselect/internal/position"
	"comboselect/internal/provider"
)

// ErrInvalidParams is wrapped by every configuration error
var ErrInvalidParams = errors.New("invalid combobox params")

// Default messages
const (
	DefaultLoadingMessage   = "Loading..."
	DefaultSearchingMessage = "Searching..."
	DefaultNoResultsMessage = "No options match your search."
	DefaultMaxItemsMessage  = "Maximum number of items selected."
	DefaultPlaceholder      = "Select an option"
	DefaultSearchDebounce   = 1000 * time.Millisecond
)

// Params configures a combobox
type Params struct {
	ID     string // generated when empty
	Anchor position.Node
	Width  int

	Options     domain.OptionList
	Placeholder string

	Value  string   // single-select state
	Values []string // multi-select state

	InitialValue        string
	InitialValues       []string
	InitialOptionLabel  string
	InitialOptionLabels []domain.Option

	CanOptionLabelsWrap  bool
	CanSelectPlaceholder bool
	IsHTMLAllowed        bool
	IsAutofocused        bool
	IsDisabled           bool
	IsMultiple           bool
	IsSearchable         bool

	Provider                provider.Provider
	HasDynamicOptions       bool
	HasDynamicSearchResults bool

	SearchPrompt           string
	SearchDebounce         time.Duration
	LoadingMessage         string
	SearchingMessage       string
	NoSearchResultsMessage string
	MaxItems               int
	MaxItemsMessage        string
	OptionsLimit           int
	Position               string
	SearchableOptionFields []string

	HostID        string
	StatePath     string
	OnStateChange func(domain.Selection)

	Bus    eventbus.EventBus
	Styles *Styles
	KeyMap *KeyMap
}

// Validate reports configuration mistakes up front
func (p Params) Validate() error {
	if p.HasDynamicOptions && !provider.Supports(p.Provider, provider.CapOptions) {
		return fmt.Errorf("dynamic options need a provider that can fetch options: %w", ErrInvalidParams)
	}
	if p.HasDynamicSearchResults {
		if !provider.Supports(p.Provider, provider.CapSearch) {
			return fmt.Errorf("dynamic search needs a provider that can search: %w", ErrInvalidParams)
		}
		if !p.IsSearchable {
			return fmt.Errorf("dynamic search requires a searchable combobox: %w", ErrInvalidParams)
		}
	}
	if p.MaxItems < 0 {
		return fmt.Errorf("max items must not be negative, got %d: %w", p.MaxItems, ErrInvalidParams)
	}
	if p.MaxItems > 0 && !p.IsMultiple {
		return fmt.Errorf("max items only applies to multi-select: %w", ErrInvalidParams)
	}
	if p.OptionsLimit < 0 {
		return fmt.Errorf("options limit must not be negative, got %d: %w", p.OptionsLimit, ErrInvalidParams)
	}
	if p.SearchDebounce < 0 {
		return fmt.Errorf("search debounce must not be negative: %w", ErrInvalidParams)
	}
	if !position.ValidPreference(p.Position) {
		return fmt.Errorf("unknown position %q: %w", p.Position, ErrInvalidParams)
	}
	for _, f := range p.SearchableOptionFields {
		if !domain.ValidSearchField(f) {
			return fmt.Errorf("unknown searchable option field %q: %w", f, ErrInvalidParams)
		}
	}
	if !p.IsMultiple && len(p.Values) > 0 {
		return fmt.Errorf("values given to a single-select combobox: %w", ErrInvalidParams)
	}
	if p.IsMultiple && p.Value != "" {
		return fmt.Errorf("scalar value given to a multi-select combobox: %w", ErrInvalidParams)
	}
	if dup, ok := duplicateValue(p.Options); ok {
		return fmt.Errorf("duplicate option value %q: %w", dup, ErrInvalidParams)
	}
	return nil
}

func (p Params) withDefaults() Params {
	if p.Placeholder == "" {
		p.Placeholder = DefaultPlaceholder
	}
	if p.LoadingMessage == "" {
		p.LoadingMessage = DefaultLoadingMessage
	}
	if p.SearchingMessage == "" {
		p.SearchingMessage = DefaultSearchingMessage
	}
	if p.NoSearchResultsMessage == "" {
		p.NoSearchResultsMessage = DefaultNoResultsMessage
	}
	if p.MaxItemsMessage == "" {
		p.MaxItemsMessage = DefaultMaxItemsMessage
	}
	if p.SearchDebounce == 0 {
		p.SearchDebounce = DefaultSearchDebounce
	}
	if len(p.SearchableOptionFields) == 0 {
		p.SearchableOptionFields = []string{domain.FieldLabel}
	}
	if p.Width <= 0 {
		p.Width = 40
	}
	return p
}

func (p Params) settings() Settings {
	return Settings{
		Multiple:             p.IsMultiple,
		Searchable:           p.IsSearchable,
		CanSelectPlaceholder: p.CanSelectPlaceholder,
		DynamicOptions:       p.HasDynamicOptions,
		DynamicSearch:        p.HasDynamicSearchResults,
		SearchDebounce:       p.SearchDebounce,
		SearchableFields:     p.SearchableOptionFields,
		MaxItems:             p.MaxItems,
		MaxItemsMessage:      p.MaxItemsMessage,
		OptionsLimit:         p.OptionsLimit,
		SearchPrompt:         p.SearchPrompt,
		NoSearchResults:      p.NoSearchResultsMessage,
		CanFetchLabel:        provider.Supports(p.Provider, provider.CapLabel),
		CanFetchLabels:       provider.Supports(p.Provider, provider.CapLabels),
	}
}

func (p Params) initialSelection() domain.Selection {
	if p.IsMultiple {
		return domain.Selection{Multiple: true, Values: p.InitialValues}
	}
	return domain.Selection{Value: p.InitialValue}
}

func duplicateValue(list domain.OptionList) (string, bool) {
	seen := make(map[string]bool)
	for _, o := range list.Flatten() {
		if seen[o.Value] {
			return o.Value, true
		}
		seen[o.Value] = true
	}
	return "", false
}
