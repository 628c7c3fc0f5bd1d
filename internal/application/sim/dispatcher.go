package sim

import (
	"context"
	"reflect"
	"sync"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
)

// Dispatcher is the single front door to the simulation. It wraps a
// mediator with a mutex so that websocket commands, the auto-run loop
// and CLI calls all reach the model one at a time. The model itself is
// strictly single-threaded.
type Dispatcher struct {
	mu    sync.Mutex
	inner mediator.Mediator
}

// NewDispatcher wraps a mediator in the simulation lock
func NewDispatcher(inner mediator.Mediator) *Dispatcher {
	return &Dispatcher{inner: inner}
}

// Send dispatches a request while holding the simulation lock
func (d *Dispatcher) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inner.Send(ctx, request)
}

// Register forwards handler registration to the wrapped mediator
func (d *Dispatcher) Register(requestType reflect.Type, handler mediator.RequestHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inner.Register(requestType, handler)
}

var _ mediator.Mediator = (*Dispatcher)(nil)
