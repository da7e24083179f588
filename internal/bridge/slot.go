package bridge

import (
	"errors"
	"sync"
)

// ErrSlotClosed is returned by Send once the receiver has gone away
var ErrSlotClosed = errors.New("slot closed")

// Slot holds at most one pending value. A Send overwrites a value the
// receiver has not taken yet, so the receiver only ever sees the newest one.
type Slot[T any] struct {
	mu     sync.Mutex
	value  T
	full   bool
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

// NewSlot creates an empty, open slot
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send stores v, replacing any value that was not taken
func (s *Slot[T]) Send(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSlotClosed
	}
	s.value = v
	s.full = true

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return nil
}

// Ready is signalled after a Send. A signal may be stale; Take reports
// whether a value was actually there.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.ready
}

// Take removes and returns the pending value
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if !s.full {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.full = false
	return v, true
}

// Close drops any pending value and makes every later Send fail. It is safe
// to call more than once.
func (s *Slot[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	var zero T
	s.value = zero
	s.full = false
	close(s.done)
}

// Done is closed when the slot is closed
func (s *Slot[T]) Done() <-chan struct{} {
	return s.done
}
