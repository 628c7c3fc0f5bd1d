package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed(c *Client) func() bool {
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.closed
	}
}

func TestHub_FansOneFrameOutToEveryClient(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	first := newTestClient("c1")
	second := newTestClient("c2")
	h.register <- first
	h.register <- second

	h.Broadcast(EventRobotsUpdate, map[string]bool{"all_reached_goal": true})

	for _, c := range []*Client{first, second} {
		env := decodeFrame(t, recv(t, c))
		assert.Equal(t, EventRobotsUpdate, env.Event)
	}
}

func TestHub_DropsAClientThatCannotKeepUp(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	stalled := newTestClient("stalled")
	stalled.send = make(chan []byte) // nobody draining
	healthy := newTestClient("healthy")
	h.register <- stalled
	h.register <- healthy

	h.Broadcast(EventPackagesUpdate, struct{}{})

	// The stalled client is evicted and released; the healthy one still
	// receives the frame
	require.Eventually(t, closed(stalled), 2*time.Second, 5*time.Millisecond)
	env := decodeFrame(t, recv(t, healthy))
	assert.Equal(t, EventPackagesUpdate, env.Event)
}

func TestHub_UnregisterReleasesTheClient(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient("c1")
	h.register <- c
	h.unregister <- c

	require.Eventually(t, closed(c), 2*time.Second, 5*time.Millisecond)
}

func TestHub_ReleasesAllClientsWhenTheContextEnds(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	first := newTestClient("c1")
	second := newTestClient("c2")
	h.register <- first
	h.register <- second

	cancel()

	require.Eventually(t, closed(first), 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, closed(second), 2*time.Second, 5*time.Millisecond)
}
