package combobox

import (
	"context"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"comboselect/internal/domain"
	"comboselect/internal/labels"
	"comboselect/internal/provider"
)

// tickFunc matches tea.Tick; tests swap it for an immediate timer
type tickFunc func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

func fetchOptionsCmd(ctx context.Context, p provider.Provider, id string) tea.Cmd {
	return func() tea.Msg {
		list, err := p.FetchInitial(ctx)
		return optionsFetchedMsg{widget: id, options: list, err: err}
	}
}

func searchCmd(ctx context.Context, p provider.Provider, id string, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		list, err := p.Search(ctx, query)
		return searchResultMsg{widget: id, seq: seq, query: query, options: list, err: err}
	}
}

func resolveLabelsCmd(ctx context.Context, p provider.Provider, repo *labels.Repository, id string, e ResolveLabels) tea.Cmd {
	return func() tea.Msg {
		found := labels.Fetch(ctx, p, repo, e.Values, e.Batch)
		return labelsResolvedMsg{widget: id, values: e.Values, found: found, refresh: e.Refresh}
	}
}

func debounceCmd(tick tickFunc, id string, tag int, delay time.Duration) tea.Cmd {
	return tick(delay, func(time.Time) tea.Msg {
		return debounceMsg{widget: id, tag: tag}
	})
}

// broadcastPump hands bus events to the Bubble Tea loop. The bus calls push
// from its own goroutines; waitForBroadcast drains it.
type broadcastPump struct {
	mu     sync.Mutex
	ch     chan domain.LabelRefreshRequestedEvent
	closed bool
}

func newBroadcastPump() *broadcastPump {
	return &broadcastPump{ch: make(chan domain.LabelRefreshRequestedEvent, 8)}
}

func (p *broadcastPump) push(e domain.LabelRefreshRequestedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.ch <- e:
	default:
		log.Printf("combobox: broadcast queue full, dropping refresh for %s", e.StatePath)
	}
}

func (p *broadcastPump) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
}

// waitForBroadcast blocks until the next broadcast; it returns nil once the
// pump is closed, which ends the chain
func waitForBroadcast(p *broadcastPump, id string) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-p.ch
		if !ok {
			return nil
		}
		return broadcastMsg{widget: id, event: e}
	}
}
