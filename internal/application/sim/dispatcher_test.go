package sim_test

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
)

type bumpRequest struct{}

func TestDispatcher_SerializesConcurrentSends(t *testing.T) {
	// The handler mutates plain shared state. Under the dispatcher lock
	// that is safe; without it the race detector and the final count
	// would both catch it.
	counter := 0
	inner := mediator.NewMediator()
	require.NoError(t, inner.Register(reflect.TypeOf(&bumpRequest{}),
		mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			counter++
			return counter, nil
		})))
	d := sim.NewDispatcher(inner)

	const goroutines = 8
	const sendsEach = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < sendsEach; i++ {
				_, err := d.Send(context.Background(), &bumpRequest{})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*sendsEach, counter)
}

func TestDispatcher_ForwardsRegistration(t *testing.T) {
	d := sim.NewDispatcher(mediator.NewMediator())

	err := d.Register(reflect.TypeOf(&bumpRequest{}),
		mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return "ok", nil
		}))
	require.NoError(t, err)

	resp, err := d.Send(context.Background(), &bumpRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	err = d.Register(reflect.TypeOf(&bumpRequest{}),
		mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return nil, nil
		}))
	assert.Error(t, err, "duplicate registrations surface from the wrapped mediator")
}
