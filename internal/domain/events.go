package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventStateChanged          EventType = "StateChanged"
	EventLabelRefreshRequested EventType = "LabelRefreshRequested"
	EventOptionsLoaded         EventType = "OptionsLoaded"
	EventSearchCompleted       EventType = "SearchCompleted"
	EventProviderFailed        EventType = "ProviderFailed"
	EventMaxItemsReached       EventType = "MaxItemsReached"
	EventWidgetDestroyed       EventType = "WidgetDestroyed"
	EventOptionLabelChanged    EventType = "OptionLabelChanged"
	EventConfigLoaded          EventType = "ConfigLoaded"
	EventConfigSaved           EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// StateChangedEvent is emitted whenever a widget's bound value changes
type StateChangedEvent struct {
	WidgetID  string
	StatePath string
	Selection Selection
}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// LabelRefreshRequestedEvent asks the widget bound to HostID/StatePath to
// re-resolve the label of its current selection
type LabelRefreshRequestedEvent struct {
	HostID    string
	StatePath string
}

func (e LabelRefreshRequestedEvent) Type() EventType { return EventLabelRefreshRequested }

// OptionsLoadedEvent is emitted after a dynamic option fetch succeeds
type OptionsLoadedEvent struct {
	WidgetID string
	Count    int
}

func (e OptionsLoadedEvent) Type() EventType { return EventOptionsLoaded }

// SearchCompletedEvent is emitted when a search result is applied
type SearchCompletedEvent struct {
	WidgetID string
	Query    string
	Count    int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// ProviderFailedEvent is emitted when an option provider call fails
type ProviderFailedEvent struct {
	WidgetID  string
	Operation string
	Err       error
}

func (e ProviderFailedEvent) Type() EventType { return EventProviderFailed }

// MaxItemsReachedEvent is emitted when a selection is rejected by the item cap
type MaxItemsReachedEvent struct {
	WidgetID string
	MaxItems int
}

func (e MaxItemsReachedEvent) Type() EventType { return EventMaxItemsReached }

// WidgetDestroyedEvent is emitted once a widget released its listeners
type WidgetDestroyedEvent struct {
	WidgetID string
}

func (e WidgetDestroyedEvent) Type() EventType { return EventWidgetDestroyed }

// OptionLabelChangedEvent is pushed by an option server when a record's label changes
type OptionLabelChangedEvent struct {
	Source string
	Value  string
	Label  string
}

func (e OptionLabelChangedEvent) Type() EventType { return EventOptionLabelChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	Fields int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
