package sim

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultTicksPerSecond matches the original 200ms auto-step cadence
const DefaultTicksPerSecond = 5.0

// ErrSimulationComplete is returned by a tick when every robot stands on
// its goal. The loop treats it as a normal stop.
var ErrSimulationComplete = errors.New("simulation complete")

// TickFunc advances the simulation once. The runner does not know about
// commands or broadcasting; the wiring composes a dispatcher send and a
// hub broadcast into one of these.
type TickFunc func(ctx context.Context) error

// Runner drives the auto-run loop: a daemon goroutine stepping the
// simulation at a fixed rate until stopped. Start and Stop are safe to
// call from any goroutine, including from handlers running under the
// dispatcher lock, which is why Stop cancels without waiting for the
// in-flight tick.
type Runner struct {
	mu     sync.Mutex
	base   context.Context
	tick   TickFunc
	limit  rate.Limit
	cancel context.CancelFunc
	gen    uint64
}

// NewRunner creates a stopped runner. The base context bounds the loop's
// lifetime: when it ends the loop ends with it. A non-positive rate
// falls back to the default cadence.
func NewRunner(base context.Context, ticksPerSecond float64, tick TickFunc) *Runner {
	if base == nil {
		base = context.Background()
	}
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}
	return &Runner{
		base:  base,
		tick:  tick,
		limit: rate.Limit(ticksPerSecond),
	}
}

// Bind installs the tick function. The runner is built before the
// transport that composes the tick, so wiring binds it late, before the
// first Start.
func (r *Runner) Bind(tick TickFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tick = tick
}

// SetRate changes the tick cadence. Takes effect on the next Start.
func (r *Runner) SetRate(ticksPerSecond float64) {
	if ticksPerSecond <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = rate.Limit(ticksPerSecond)
}

// Running reports whether the loop is live
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Start launches the loop. Returns false when it is already running or
// no tick has been bound yet.
func (r *Runner) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || r.tick == nil {
		return false
	}
	ctx, cancel := context.WithCancel(r.base)
	r.cancel = cancel
	r.gen++
	gen := r.gen
	limit := r.limit
	tick := r.tick
	go func() {
		r.loop(ctx, limit, tick)
		cancel()
		// The loop can end on its own when a tick reports completion.
		// Clear the running state unless a newer Start has taken over.
		r.mu.Lock()
		if r.gen == gen {
			r.cancel = nil
		}
		r.mu.Unlock()
	}()
	return true
}

// Stop halts the loop. Returns false when it was not running. A tick
// already past its rate gate may still complete after Stop returns.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	r.cancel = nil
	return true
}

func (r *Runner) loop(ctx context.Context, limit rate.Limit, tick TickFunc) {
	limiter := rate.NewLimiter(limit, 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := tick(ctx); err != nil {
			return
		}
	}
}
