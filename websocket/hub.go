// Package websocket pushes domain events to connected browsers. Each
// connection joins the room of the email its token verified to.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"assetverse/events"
	"assetverse/metrics"
)

type BroadcastMessage struct {
	Email   string
	Message []byte
}

type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan BroadcastMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.Mutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan BroadcastMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Named("ws_hub"),
	}
}

// Run owns room membership until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			if _, ok := h.clients[client.email]; !ok {
				h.clients[client.email] = make(map[*Client]bool)
			}
			h.clients[client.email][client] = true
			h.mutex.Unlock()
			metrics.WebsocketClients.Inc()

		case client := <-h.unregister:
			h.remove(client)

		case bm := <-h.broadcast:
			h.mutex.Lock()
			if clients, ok := h.clients[bm.Email]; ok {
				for client := range clients {
					select {
					case client.send <- bm.Message:
					default:
						h.dropLocked(client)
					}
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish delivers e to every connection in the audience's rooms.
func (h *Hub) Publish(_ context.Context, e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("failed to marshal event for ws", zap.Error(err))
		return
	}
	for _, email := range e.Audience {
		select {
		case h.broadcast <- BroadcastMessage{Email: email, Message: data}:
		default:
			metrics.EventsDropped.Inc()
			h.logger.Warn("ws broadcast queue full, dropping event",
				zap.String("event_type", string(e.Type)),
				zap.String("email", email),
			)
		}
	}
}

// Connected reports how many connections are in email's room.
func (h *Hub) Connected(email string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[email])
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.email]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.email)
	}
	metrics.WebsocketClients.Dec()
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.dropLocked(client)
		}
	}
}
