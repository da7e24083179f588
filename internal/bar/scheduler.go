package bar

import (
	"context"
	"log/slog"
	"time"

	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/logging"
	"github.com/chess10kp/mbar/internal/sizing"
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// DefaultMaxWait caps every wait between frames so the clock keeps ticking
// even if nothing else wakes the loop
const DefaultMaxWait = 50 * time.Millisecond

// Toolkit lays out and paints the bar content
type Toolkit interface {
	Run(size geometry.Size, content func(*ui.UI)) ui.Frame
	Paint(c ui.Canvas)
	OnEvent(ev ui.WindowEvent)
	Destroy()
}

// Surface is the window the bar is drawn into
type Surface interface {
	ui.Canvas
	Show()
	// Clear starts a new frame
	Clear()
	// Present shows the frame drawn since Clear
	Present() error
	Resize(size geometry.Size)
	Close()
}

// SurfaceOptions describes the surface to create for the bar
type SurfaceOptions struct {
	Title    string
	Monitor  geometry.Monitor
	Geometry geometry.SurfaceGeometry
	// Events receives the surface's window events
	Events *Queue
}

// Content draws the bar for the given desktop state
type Content func(u *ui.UI, state wm.DesktopState)

// State is the scheduler's lifecycle state
type State int

const (
	Idle State = iota
	Rendering
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case ShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// Scheduler renders one frame at a time and computes when the next one is due
type Scheduler struct {
	toolkit Toolkit
	surface Surface
	engine  *sizing.Engine
	content Content
	maxWait time.Duration
	logger  *slog.Logger

	state  State
	latest wm.DesktopState
	frames uint64
}

// NewScheduler creates a scheduler. maxWait <= 0 selects DefaultMaxWait.
func NewScheduler(toolkit Toolkit, surface Surface, engine *sizing.Engine, content Content, maxWait time.Duration, logger *slog.Logger) *Scheduler {
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		toolkit: toolkit,
		surface: surface,
		engine:  engine,
		content: content,
		maxWait: maxWait,
		logger:  logger,
	}
}

// State returns the current lifecycle state
func (s *Scheduler) State() State {
	return s.state
}

// SetState replaces the desktop state the next frame is drawn with. It
// reports whether the state differs from the one drawn so far.
func (s *Scheduler) SetState(state wm.DesktopState) bool {
	changed := !state.Equal(s.latest)
	if !changed {
		logging.Trace(context.Background(), s.logger, "Desktop state unchanged")
	}
	s.latest = state
	return changed
}

// SetMaxWait changes the cap on the wait between frames
func (s *Scheduler) SetMaxWait(d time.Duration) {
	if d > 0 {
		s.maxWait = d
	}
}

// Frames returns the number of frames rendered so far
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Render draws one frame and returns the delay until the next one. Zero
// means the next frame is due immediately. After Shutdown it does nothing.
func (s *Scheduler) Render() time.Duration {
	if s.state == ShuttingDown {
		return s.maxWait
	}
	s.state = Rendering
	defer func() {
		if s.state == Rendering {
			s.state = Idle
		}
	}()

	state := s.latest
	frame := s.toolkit.Run(s.surface.CurrentSize(), func(u *ui.UI) {
		s.content(u, state)
	})
	s.frames++

	if size, ok := s.engine.Apply(frame.Content, s.surface); ok {
		s.logger.Debug("Resizing to fit content", "size", size, "content", frame.Content)
	}

	s.surface.Clear()
	s.toolkit.Paint(s.surface)
	if err := s.surface.Present(); err != nil {
		s.logger.Warn("Failed to present frame, skipping", "error", err)
	}

	delay := s.nextDelay(frame.Delay)
	logging.Trace(context.Background(), s.logger, "Frame rendered", "frame", s.frames, "next", delay)
	return delay
}

func (s *Scheduler) nextDelay(requested time.Duration) time.Duration {
	if requested <= 0 {
		return 0
	}
	return min(requested, s.maxWait)
}

// Shutdown tears down the toolkit and stops rendering for good
func (s *Scheduler) Shutdown() {
	if s.state == ShuttingDown {
		return
	}
	s.state = ShuttingDown
	s.toolkit.Destroy()
}
