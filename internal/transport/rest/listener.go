package rest

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"comboselect/internal/domain"
	"comboselect/internal/eventbus"
	"comboselect/internal/labels"
)

// Target is one widget field that shows labels from a source
type Target struct {
	HostID    string
	StatePath string
	Labels    *labels.Repository // forgotten values are re-fetched; may be nil
}

// Listener subscribes to a source's event stream and turns label pushes
// into refresh broadcasts for the fields bound to that source
type Listener struct {
	BaseURL string
	Source  string
	Bus     eventbus.EventBus
	Targets []Target

	// Backoff is the delay between reconnect attempts; 0 means 2s
	Backoff time.Duration
	// OnConnect, when set, is called after each successful dial
	OnConnect func()
}

// Run listens until ctx is cancelled, reconnecting after failures
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.Backoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("listener %s: %v; reconnecting in %s", l.Source, err, backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
	}
}

func (l *Listener) url() string {
	return strings.TrimRight(l.BaseURL, "/") + "/sources/" + url.PathEscape(l.Source) + "/events"
}

func (l *Listener) listen(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.Dial(dialCtx, l.url(), nil)
	cancel()
	if err != nil {
		return err
	}
	defer conn.CloseNow()
	log.Printf("listener %s: connected to %s", l.Source, l.BaseURL)
	if l.OnConnect != nil {
		l.OnConnect()
	}

	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return errors.New("server went away")
			}
			return err
		}
		if msg.Type != MessageLabelChanged || msg.Source != l.Source {
			continue
		}
		l.dispatch(msg)
	}
}

// dispatch drops the stale label from every target's cache and asks the
// widgets to re-resolve their selected labels
func (l *Listener) dispatch(msg Message) {
	l.Bus.Publish(domain.OptionLabelChangedEvent{Source: msg.Source, Value: msg.Value, Label: msg.Label})
	for _, t := range l.Targets {
		if t.Labels != nil {
			t.Labels.Forget(msg.Value)
		}
		l.Bus.Publish(domain.LabelRefreshRequestedEvent{HostID: t.HostID, StatePath: t.StatePath})
	}
}
