// Package ws is the websocket transport: a hub fanning simulation events
// out to connected dashboards and a router translating inbound events
// into dispatcher commands.
package ws

import (
	"context"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
)

// Hub tracks the connected clients and fans broadcast frames out to all
// of them. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     common.Logger
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(logger common.Logger) *Hub {
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run owns the client set until the context ends
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Log("info", "websocket client connected", map[string]interface{}{
				"client_id": client.id,
				"clients":   len(h.clients),
			})
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.logger.Log("info", "websocket client disconnected", map[string]interface{}{
					"client_id": client.id,
					"clients":   len(h.clients),
				})
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.trySend(message) {
					// Client cannot keep up; drop it rather than stall the fleet
					delete(h.clients, client)
					client.closeSend()
				}
			}
		}
	}
}

// Broadcast fans one event out to every connected client. Never blocks:
// once Run has stopped draining the queue, frames are shed instead of
// stalling the tick that produced them.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		h.logger.Log("error", "broadcast marshal failed", map[string]interface{}{
			"event": event,
			"error": err.Error(),
		})
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Log("warn", "broadcast queue full, dropping frame", map[string]interface{}{
			"event": event,
		})
	}
}
