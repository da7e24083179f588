// Package bridge polls the window manager on its own goroutine and hands the
// newest desktop state to the render loop.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chess10kp/mbar/internal/logging"
	"github.com/chess10kp/mbar/internal/wm"
)

// DefaultInterval is the pause between two polls
const DefaultInterval = 50 * time.Millisecond

// ErrQuery marks a failed window manager query. The bridge does not retry.
var ErrQuery = errors.New("window manager query failed")

// Bridge delivers wm.DesktopState snapshots into a Slot
type Bridge struct {
	client   wm.Client
	slot     *Slot[wm.DesktopState]
	interval time.Duration
	logger   *slog.Logger

	// sleep waits for the poll interval; replaced in tests
	sleep func(d time.Duration, done <-chan struct{}) bool
}

// Option configures a Bridge
type Option func(*Bridge)

// WithInterval sets the pause between polls
func WithInterval(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithLogger sets the logger used for delivery tracing
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a bridge from client to slot
func New(client wm.Client, slot *Slot[wm.DesktopState], opts ...Option) *Bridge {
	b := &Bridge{
		client:   client,
		slot:     slot,
		interval: DefaultInterval,
		logger:   slog.Default(),
		sleep:    sleepOrDone,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run polls until the slot is closed, which is a clean stop and returns nil,
// or until a query fails, which returns an error wrapping ErrQuery.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		state, err := wm.Snapshot(ctx, b.client)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrQuery, err)
		}

		if err := b.slot.Send(state); err != nil {
			if errors.Is(err, ErrSlotClosed) {
				b.logger.Debug("Receiver gone, stopping bridge")
				return nil
			}
			return err
		}
		logging.Trace(ctx, b.logger, "Delivered desktop state",
			"desktops", state.DesktopNames, "current", state.CurrentDesktop)

		if !b.sleep(b.interval, b.slot.Done()) {
			b.logger.Debug("Receiver gone, stopping bridge")
			return nil
		}
	}
}

func sleepOrDone(d time.Duration, done <-chan struct{}) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-done:
		return false
	}
}
