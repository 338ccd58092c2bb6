// Package hub pushes controller views and the summary signal to connected
// renderers over WebSocket.
package hub

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/food-swipe/internal/logging"
	"github.com/actuallystonmai/food-swipe/internal/metrics"
	"github.com/actuallystonmai/food-swipe/internal/swipe"
)

const (
	MessageTypeView     = "view"
	MessageTypeNavigate = "navigate"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
)

// SummaryRoute is where renderers go once the session is closed.
const SummaryRoute = "/summary"

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type NavigateData struct {
	Route string `json:"route"`
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        zerolog.Logger

	mu   sync.RWMutex
	last *Message
	nav  *Message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logging.WithComponent("hub"),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		// Lifecycle events go before broadcasts so a fresh client never
		// misses a view queued right behind its registration.
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

// Forward relays views from a controller subscription until the channel
// closes or ctx is cancelled.
func (h *Hub) Forward(ctx context.Context, views <-chan swipe.View) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-views:
			if !ok {
				return
			}
			h.Broadcast(Message{Type: MessageTypeView, Data: v})
		}
	}
}

// NavigateToSummary tells every renderer to leave the swipe screen.
func (h *Hub) NavigateToSummary() {
	h.Broadcast(Message{Type: MessageTypeNavigate, Data: NavigateData{Route: SummaryRoute}})
}

// Broadcast queues msg for every client. Views replace the replay state for
// late joiners; a view of a live session also clears a pending navigate.
// Navigate is one-shot, so it waits for room instead of being dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	switch msg.Type {
	case MessageTypeView:
		h.last = &msg
		if v, ok := msg.Data.(swipe.View); ok && v.Phase != swipe.PhaseEnded {
			h.nav = nil
		}
	case MessageTypeNavigate:
		h.nav = &msg
	}
	h.mu.Unlock()

	if msg.Type == MessageTypeNavigate {
		select {
		case h.broadcast <- msg:
		case <-h.done:
		}
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.log.Warn().Str("message_type", msg.Type).Msg("[hub] broadcast channel full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	last, nav := h.last, h.nav
	n := len(h.clients)
	h.mu.Unlock()

	// Latest view first, so a client that connects mid-session can draw
	// immediately, then any navigate it missed.
	for _, m := range []*Message{last, nav} {
		if m == nil {
			continue
		}
		select {
		case c.send <- *m:
		default:
		}
	}
	metrics.WebSocketClients.Set(float64(n))
	h.log.Info().Uint64("client_id", c.id).Int("total_clients", n).Msg("[hub] client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	h.log.Info().Uint64("client_id", c.id).Int("total_clients", n).Msg("[hub] client disconnected")
}

func (h *Hub) send(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sorted()
	var slow []*Client
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.log.Warn().Uint64("client_id", c.id).Msg("[hub] dropping slow client")
		close(c.send)
		delete(h.clients, c)
	}
	if len(slow) > 0 {
		metrics.WebSocketClients.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.clients)
	for _, c := range h.sorted() {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.WebSocketClients.Set(0)
	h.log.Info().Int("clients_closed", n).Msg("[hub] stopped")
}

// sorted returns clients in connection order. Callers hold mu.
func (h *Hub) sorted() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}
