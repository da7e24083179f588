// Package bar runs the render loop: it dispatches window events, state
// deliveries and timer wake-ups and draws a frame after each of them.
package bar

import (
	"sync"

	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// Event is one input to the render loop. It is one of WindowEvent, Wake,
// StateDelivered or Invoke.
type Event interface {
	isEvent()
}

// WindowEvent is reported by the windowing system
type WindowEvent ui.WindowEvent

// Wake is the scheduled repaint time elapsing
type Wake struct{}

// StateDelivered carries a snapshot from the state bridge
type StateDelivered struct {
	State wm.DesktopState
}

// Invoke runs Fn on the render loop. It lets other goroutines touch the
// toolkit and the status modules without locks.
type Invoke struct {
	Fn func()
}

func (WindowEvent) isEvent()    {}
func (Wake) isEvent()           {}
func (StateDelivered) isEvent() {}
func (Invoke) isEvent()         {}

// Queue is an unbounded event queue. Push never blocks, so it is safe to
// call from window system callbacks.
type Queue struct {
	mu     sync.Mutex
	events []Event
	ready  chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends ev and wakes the render loop
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// PushWindow is a shortcut for window system callbacks
func (q *Queue) PushWindow(ev ui.WindowEvent) {
	q.Push(WindowEvent(ev))
}

// Ready is signalled after a Push
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain removes and returns all queued events in push order
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	events := q.events
	q.events = nil
	return events
}
