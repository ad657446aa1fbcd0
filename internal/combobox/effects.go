package combobox

import (
	"time"

	"comboselect/internal/domain"
)

// Effect is a side effect requested by a machine transition
type Effect interface {
	effect()
}

// FetchOptions asks for the initial dynamic option list
type FetchOptions struct{}

// ScheduleSearch starts the debounce timer for query
type ScheduleSearch struct {
	Tag   int
	Query string
	Delay time.Duration
}

// RunSearch issues a provider search; the result must carry Seq back
type RunSearch struct {
	Seq   int
	Query string
}

// ResolveLabels fetches labels for values. Batch selects one LabelsFor call.
// Refresh results also patch the loaded option lists.
type ResolveLabels struct {
	Values  []string
	Batch   bool
	Refresh bool
}

// Notify tells the host the bound value changed
type Notify struct {
	Selection domain.Selection
}

// Reposition asks for the floating panel to be placed again
type Reposition struct{}

// MaxItemsReached reports a rejected selection
type MaxItemsReached struct {
	MaxItems int
	Message  string
}

func (FetchOptions) effect()    {}
func (ScheduleSearch) effect()  {}
func (RunSearch) effect()       {}
func (ResolveLabels) effect()   {}
func (Notify) effect()          {}
func (Reposition) effect()      {}
func (MaxItemsReached) effect() {}
