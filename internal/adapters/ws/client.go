package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/pkg/utils"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
	// Outbound frames buffered per client before the hub drops it.
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards connect from any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection. The read pump feeds inbound
// events to the router; the write pump drains the send channel.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	router *Router
	logger common.Logger

	// send has two writers, the hub's fan-out and this client's own
	// replies from the read goroutine, so closing it must be fenced.
	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, router *Router, logger common.Logger) *Client {
	return &Client{
		id:     utils.GenerateClientID(),
		hub:    hub,
		conn:   conn,
		router: router,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
	}
}

// trySend queues a frame without blocking. Reports false when the
// client is gone or its buffer is full.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend releases the write pump. Safe to call more than once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// emit queues an event for this client only
func (c *Client) emit(event string, data interface{}) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		c.logger.Log("error", "emit marshal failed", map[string]interface{}{
			"client_id": c.id,
			"event":     event,
			"error":     err.Error(),
		})
		return
	}
	if !c.trySend(payload) {
		c.logger.Log("warn", "dropping frame for slow client", map[string]interface{}{
			"client_id": c.id,
			"event":     event,
		})
	}
}

// emitError sends an error event to this client
func (c *Client) emitError(message string) {
	c.emit(EventError, ErrorDTO{Message: message})
}

// readPump routes inbound events until the connection drops. Commands
// from one client run in order; the dispatcher serializes across
// clients.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Log("warn", "websocket read failed", map[string]interface{}{
					"client_id": c.id,
					"error":     err.Error(),
				})
			}
			return
		}
		c.router.Route(ctx, c, message)
	}
}

// writePump drains the send channel onto the wire, one frame per
// message, and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
