package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Handler runs one decoded command to completion.
type Handler func(cmd Command) error

type envelope struct {
	id      uuid.UUID
	channel string
	payload []any
	// fn, when set, runs in place of decoding a payload.
	fn func()
}

// ErrStopped is returned by Do once the dispatcher no longer runs work.
var ErrStopped = errors.New("bridge: dispatcher stopped")

// Dispatcher serialises every outbound message onto one goroutine. Event
// callbacks only enqueue; handlers never run concurrently, and messages are
// handled in the order they were submitted.
type Dispatcher struct {
	handle Handler
	log    logger.Logger

	mu      sync.Mutex
	closed  bool
	queue   chan envelope
	stopped chan struct{}
}

// NewDispatcher creates a Dispatcher with room for size queued messages.
func NewDispatcher(handle Handler, log logger.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	return &Dispatcher{
		handle:  handle,
		log:     log,
		queue:   make(chan envelope, size),
		stopped: make(chan struct{}),
	}
}

// Submit enqueues a raw message. It blocks while the queue is full and
// returns false once the dispatcher is closed or stopped.
func (d *Dispatcher) Submit(channel string, payload ...any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	return d.enqueue(envelope{id: uuid.New(), channel: channel, payload: payload})
}

// Do runs fn on the dispatcher goroutine after every message submitted
// before it, and waits for it to finish.
func (d *Dispatcher) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	env := envelope{id: uuid.New(), channel: "do", fn: func() {
		defer close(done)
		fn()
	}}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrStopped
	}
	ok := d.enqueue(env)
	d.mu.Unlock()
	if !ok {
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-d.stopped:
		// Run may have drained fn on its way out.
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue must be called with mu held.
func (d *Dispatcher) enqueue(env envelope) bool {
	select {
	case <-d.stopped:
		return false
	default:
	}
	select {
	case d.queue <- env:
		return true
	case <-d.stopped:
		return false
	}
}

// Run handles messages until ctx is cancelled or Close is called, draining
// whatever was queued before Close. It must be called once.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-d.queue:
			if !ok {
				return
			}
			d.dispatch(env)
		}
	}
}

// Close stops accepting messages. Run returns after draining the queue.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
}

// Done is closed when Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.stopped
}

func (d *Dispatcher) dispatch(env envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error(fmt.Sprintf("[bridge] %s %s: handler panic: %v", env.channel, env.id, r))
		}
	}()

	if env.fn != nil {
		env.fn()
		return
	}

	cmd := DecodeCommand(env.channel, env.payload)
	d.log.Trace(fmt.Sprintf("[bridge] %s %s: %T", env.channel, env.id, cmd))
	if err := d.handle(cmd); err != nil {
		d.log.Error(fmt.Sprintf("[bridge] %s %s: %v", env.channel, env.id, err))
	}
}
