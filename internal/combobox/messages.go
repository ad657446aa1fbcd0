package combobox

import (
	"comboselect/internal/domain"
)

// StateChangedMsg is returned to the host after the bound value changed
type StateChangedMsg struct {
	WidgetID  string
	StatePath string
	Selection domain.Selection
}

// MaxItemsReachedMsg is returned when a selection was rejected by MaxItems
type MaxItemsReachedMsg struct {
	WidgetID string
	Message  string
}

// ScrollMsg tells the widget its anchor node moved or resized in place,
// for example when the host scrolls or re-lays out its content. Hosts send
// it after changing the anchor's rectangle; an open panel is placed again.
type ScrollMsg struct{}

// debounceMsg fires when a debounce window elapsed
type debounceMsg struct {
	widget string
	tag    int
}

// searchResultMsg carries a provider search response
type searchResultMsg struct {
	widget  string
	seq     int
	query   string
	options domain.OptionList
	err     error
}

// optionsFetchedMsg carries the initial dynamic options
type optionsFetchedMsg struct {
	widget  string
	options domain.OptionList
	err     error
}

// labelsResolvedMsg carries labels fetched from the provider
type labelsResolvedMsg struct {
	widget  string
	values  []string
	found   map[string]string
	refresh bool
}

// broadcastMsg delivers a refresh-label broadcast from the bus
type broadcastMsg struct {
	widget string
	event  domain.LabelRefreshRequestedEvent
}
