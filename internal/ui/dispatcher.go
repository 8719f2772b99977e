package ui

import (
	"sync"

	"github.com/ytget/likedl/internal/model"
)

// Dispatcher carries batch events from the worker goroutine to the
// foreground. Lifecycle events block until queued; intermediate progress is
// dropped when the queue is full. Events keep their emission order.
type Dispatcher struct {
	events  chan model.ProgressEvent
	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewDispatcher creates a dispatcher queueing up to size events
func NewDispatcher(size int) *Dispatcher {
	if size < 1 {
		size = 1
	}
	return &Dispatcher{events: make(chan model.ProgressEvent, size)}
}

// Post queues event. It is safe to pass as a download.ProgressFunc.
func (d *Dispatcher) Post(event model.ProgressEvent) {
	if event.IsLifecycle() {
		d.send(event)
		return
	}
	d.TryPost(event)
}

// TryPost queues event if there is room and reports whether it did
func (d *Dispatcher) TryPost(event model.ProgressEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	select {
	case d.events <- event:
		return true
	default:
		d.dropped++
		return false
	}
}

// send blocks until the event is queued. The lock is not held while waiting
// so TryPost callers never deadlock behind it; a single producer keeps order.
func (d *Dispatcher) send(event model.ProgressEvent) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}
	d.events <- event
}

// Events returns the receive side
func (d *Dispatcher) Events() <-chan model.ProgressEvent {
	return d.events
}

// Close ends the stream; call it from the producer after the last event
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.events)
}

// Dropped returns how many intermediate events were discarded
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}
