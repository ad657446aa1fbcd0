package rest

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

// MessageLabelChanged is pushed when an option's label changes
const MessageLabelChanged = "label_changed"

// Message is one push on a source's event stream
type Message struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Value  string `json:"value,omitempty"`
	Label  string `json:"label,omitempty"`
}

type subscriber struct {
	id     string
	source string
	send   chan Message
}

// Hub fans label pushes out to the websocket subscribers of each source
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[string]*subscriber
	closed bool
	done   chan struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[string]*subscriber),
		done: make(chan struct{}),
	}
}

// Count returns the number of subscribers of source
func (h *Hub) Count(source string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[source])
}

// Broadcast queues msg for every subscriber of msg.Source. Slow
// subscribers miss messages rather than block the caller.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs[msg.Source] {
		select {
		case s.send <- msg:
		default:
			log.Printf("hub: subscriber %s is slow, dropping %s", s.id, msg.Type)
		}
	}
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
}

func (h *Hub) add(source string) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	s := &subscriber{id: uuid.NewString(), source: source, send: make(chan Message, 16)}
	if h.subs[source] == nil {
		h.subs[source] = make(map[string]*subscriber)
	}
	h.subs[source][s.id] = s
	return s, true
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[s.source], s.id)
	if len(h.subs[s.source]) == 0 {
		delete(h.subs, s.source)
	}
}

// Serve upgrades the request and streams source's messages until the
// client goes away or the hub closes
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, source string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("hub: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	sub, ok := h.add(source)
	if !ok {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.remove(sub)
	log.Printf("hub: subscriber %s joined %s", sub.id, source)

	// the client never writes; CloseRead handles control frames and
	// cancels ctx when the peer disconnects
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case msg := <-sub.send:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, msg)
			cancel()
			if err != nil {
				log.Printf("hub: write to %s: %v", sub.id, err)
				return
			}
		}
	}
}
