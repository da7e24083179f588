package bar

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/chess10kp/mbar/internal/bridge"
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// StateSource produces desktop state until its slot is closed
type StateSource interface {
	Run(ctx context.Context) error
}

// Controller owns the bar from the first frame to shutdown
type Controller struct {
	scheduler *Scheduler
	toolkit   Toolkit
	surface   Surface
	queue     *Queue
	slot      *bridge.Slot[wm.DesktopState]
	source    StateSource
	logger    *slog.Logger
}

// ControllerConfig wires a Controller
type ControllerConfig struct {
	Scheduler *Scheduler
	Toolkit   Toolkit
	Surface   Surface
	// Queue receives window events and Invoke requests from other goroutines
	Queue *Queue
	// Slot receives state from Source
	Slot   *bridge.Slot[wm.DesktopState]
	Source StateSource
	Logger *slog.Logger
}

// NewController creates a controller. Source may be nil.
func NewController(cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	queue := cfg.Queue
	if queue == nil {
		queue = NewQueue()
	}
	slot := cfg.Slot
	if slot == nil {
		slot = bridge.NewSlot[wm.DesktopState]()
	}
	return &Controller{
		scheduler: cfg.Scheduler,
		toolkit:   cfg.Toolkit,
		surface:   cfg.Surface,
		queue:     queue,
		slot:      slot,
		source:    cfg.Source,
		logger:    logger,
	}
}

// Queue returns the controller's event queue
func (c *Controller) Queue() *Queue {
	return c.queue
}

// Run shows the surface, starts the state source and dispatches events
// until the window is closed. It returns the exit code carried by the close
// event, or 0 when ctx is cancelled.
func (c *Controller) Run(ctx context.Context) int {
	c.surface.Show()
	c.toolkit.OnEvent(ui.WindowEvent{Kind: ui.Resized, Size: c.surface.CurrentSize()})

	var wg conc.WaitGroup
	if c.source != nil {
		wg.Go(func() {
			err := c.source.Run(ctx)
			select {
			case <-c.slot.Done():
				c.logger.Debug("State bridge finished", "error", err)
			default:
				if err != nil {
					// Rendering continues with the last delivered state.
					c.logger.Error("State bridge stopped", "error", err)
				}
			}
		})
	}
	defer func() {
		c.slot.Close()
		wg.Wait()
	}()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		delay := c.scheduler.Render()

		if delay == 0 {
			select {
			case <-ctx.Done():
				return c.shutdown(0)
			default:
			}
			if code, done := c.poll(); done {
				return code
			}
			continue
		}

		timer.Reset(delay)
		select {
		case <-ctx.Done():
			c.logger.Debug("Context cancelled, shutting down")
			return c.shutdown(0)
		case <-c.queue.Ready():
			if code, done := c.drainQueue(); done {
				return code
			}
		case <-c.slot.Ready():
			c.takeState()
		case <-timer.C:
			c.dispatch(Wake{})
		}
	}
}

// poll handles whatever is pending without waiting
func (c *Controller) poll() (int, bool) {
	select {
	case <-c.queue.Ready():
		return c.drainQueue()
	case <-c.slot.Ready():
		c.takeState()
	default:
	}
	return 0, false
}

func (c *Controller) drainQueue() (int, bool) {
	for _, ev := range c.queue.Drain() {
		if code, done := c.dispatch(ev); done {
			return code, true
		}
	}
	return 0, false
}

func (c *Controller) takeState() {
	if state, ok := c.slot.Take(); ok {
		c.dispatch(StateDelivered{State: state})
	}
}

// dispatch handles one event. It reports the exit code and true once the
// bar is shutting down.
func (c *Controller) dispatch(ev Event) (int, bool) {
	switch ev := ev.(type) {
	case WindowEvent:
		c.logger.Debug("Window event", "event", ui.WindowEvent(ev))
		switch ev.Kind {
		case ui.CloseRequested, ui.Destroyed:
			return c.shutdown(ev.Code), true
		default:
			// OS driven sizes are accepted as they are; the size policy is
			// only applied to the next measurement.
			c.toolkit.OnEvent(ui.WindowEvent(ev))
		}
	case StateDelivered:
		c.scheduler.SetState(ev.State)
	case Invoke:
		if ev.Fn != nil {
			ev.Fn()
		}
	case Wake:
	}
	return 0, false
}

func (c *Controller) shutdown(code int) int {
	c.scheduler.Shutdown()
	c.surface.Close()
	c.logger.Info("Bar closed", "code", code)
	return code
}
