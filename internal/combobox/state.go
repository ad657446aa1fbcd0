package combobox

import (
	"time"

	"comboselect/internal/domain"
)

// Focus is where keyboard focus rests inside the widget
type Focus int

const (
	FocusTrigger Focus = iota
	FocusSearch
	FocusOption
)

func (f Focus) String() string {
	switch f {
	case FocusSearch:
		return "search"
	case FocusOption:
		return "option"
	}
	return "trigger"
}

// State is the complete widget state. The machine is the only writer.
type State struct {
	Multiple bool
	Value    string   // single-select; "" shows the placeholder
	Values   []string // multi-select; insertion order

	IsOpen        bool
	SearchQuery   string
	SelectedIndex int // index into Visible().Options; -1 when none
	IsSearching   bool
	IsLoading     bool
	Focus         Focus
	Disabled      bool

	Options         domain.OptionList
	OriginalOptions domain.OptionList
	OptionsLoaded   bool

	DebounceTag int
	SearchSeq   int

	Alert string
}

// Selection returns the bound value
func (s State) Selection() domain.Selection {
	if s.Multiple {
		return domain.Selection{Multiple: true, Values: append([]string(nil), s.Values...)}
	}
	return domain.Selection{Value: s.Value}
}

// Settings is the static behaviour of a machine, derived from Params
type Settings struct {
	Multiple             bool
	Searchable           bool
	CanSelectPlaceholder bool
	DynamicOptions       bool
	DynamicSearch        bool
	SearchDebounce       time.Duration
	SearchableFields     []string
	MaxItems             int
	MaxItemsMessage      string
	OptionsLimit         int
	SearchPrompt         string
	NoSearchResults      string

	// provider capabilities for label lookups
	CanFetchLabel  bool
	CanFetchLabels bool
}
