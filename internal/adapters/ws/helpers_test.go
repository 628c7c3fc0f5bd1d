package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
)

// fakeDispatcher answers Send from a configurable function and records
// every request it sees, so tests can assert both the decoded command
// and the follow-on queries the router fires.
type fakeDispatcher struct {
	mu       sync.Mutex
	requests []mediator.Request
	handle   func(request mediator.Request) (mediator.Response, error)
}

func (d *fakeDispatcher) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	d.mu.Lock()
	d.requests = append(d.requests, request)
	d.mu.Unlock()
	return d.handle(request)
}

func (d *fakeDispatcher) seen() []mediator.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]mediator.Request(nil), d.requests...)
}

// newTestClient builds a client detached from any connection. Frames
// queue on send, where tests read them back.
func newTestClient(id string) *Client {
	return &Client{
		id:     id,
		send:   make(chan []byte, 16),
		logger: common.LoggerFromContext(context.Background()),
	}
}

func decodeFrame(t *testing.T, payload []byte) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	return env
}

// clientFrames drains every frame queued for the client so far
func clientFrames(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var frames []Envelope
	for {
		select {
		case payload := <-c.send:
			frames = append(frames, decodeFrame(t, payload))
		default:
			return frames
		}
	}
}

// hubFrames drains every frame queued for broadcast so far. Broadcast
// pushes synchronously, so after Route returns the queue is complete
// without the Run loop.
func hubFrames(t *testing.T, h *Hub) []Envelope {
	t.Helper()
	var frames []Envelope
	for {
		select {
		case payload := <-h.broadcast:
			frames = append(frames, decodeFrame(t, payload))
		default:
			return frames
		}
	}
}

// recv waits for the next frame queued for the client
func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		require.True(t, ok, "send channel closed before a frame arrived")
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return nil
	}
}
