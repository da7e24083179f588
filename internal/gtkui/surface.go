package gtkui

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/gotk3/gotk3/pango"

	"github.com/chess10kp/mbar/internal/bar"
	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/layer"
	"github.com/chess10kp/mbar/internal/ui"
)

const layerNamespace = "mbar"

// drawOp is one recorded drawing call. Text is empty for rectangles.
type drawOp struct {
	x, y, w, h float64
	font, text string
	color      ui.Color
}

// Surface is a borderless GTK window painted from a display list. Drawing
// calls record into the pending list; Present hands it to the draw handler.
type Surface struct {
	win    *gtk.Window
	area   *gtk.DrawingArea
	fonts  *fontCache
	events *bar.Queue
	logger *slog.Logger

	mu        sync.Mutex
	size      geometry.Size
	realized  bool
	pending   []drawOp
	committed []drawOp

	closing   atomic.Bool
	destroyed atomic.Bool
}

func newSurface(opts bar.SurfaceOptions, monitor *gdk.Monitor, fonts *fontCache, logger *slog.Logger) (*Surface, error) {
	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, err
	}
	area, err := gtk.DrawingAreaNew()
	if err != nil {
		win.Destroy()
		return nil, err
	}

	initial := opts.Geometry.InitialSize(opts.Monitor)
	s := &Surface{
		win:    win,
		area:   area,
		fonts:  fonts,
		events: opts.Events,
		logger: logger,
		size:   initial,
	}

	win.SetTitle(opts.Title)
	win.SetDecorated(false)
	win.SetResizable(true)
	win.SetDefaultSize(int(initial.Width), int(initial.Height))
	area.SetSizeRequest(int(initial.Width), int(initial.Height))
	win.Add(area)

	span := opts.Geometry.Width.Fixed && opts.Geometry.Width.Value == opts.Monitor.Width
	if layer.IsSupported() {
		s.placeLayer(monitor, span)
	} else {
		s.placeDock(opts.Monitor)
	}

	s.connectSignals()
	logger.Debug("Surface created", "size", initial, "layer_shell", layer.IsSupported())
	return s, nil
}

// placeLayer anchors the window to the top of the monitor on Wayland
func (s *Surface) placeLayer(monitor *gdk.Monitor, span bool) {
	windowPtr := unsafe.Pointer(s.win.Native())
	layer.InitForWindow(windowPtr)
	layer.SetNamespace(windowPtr, layerNamespace)
	layer.SetLayer(windowPtr, layer.LayerTop)
	layer.SetKeyboardMode(windowPtr, layer.KeyboardModeNone)
	for edge, anchored := range layer.Anchors(span) {
		layer.SetAnchor(windowPtr, edge, anchored)
	}
	layer.AutoExclusiveZoneEnable(windowPtr)
	if monitor != nil {
		layer.SetMonitor(windowPtr, unsafe.Pointer(monitor.Native()))
	}
}

// placeDock makes the window an always-on-top dock on X11
func (s *Surface) placeDock(m geometry.Monitor) {
	s.win.SetTypeHint(gdk.WINDOW_TYPE_HINT_DOCK)
	s.win.SetKeepAbove(true)
	s.win.SetSkipTaskbarHint(true)
	s.win.SetSkipPagerHint(true)
	s.win.Stick()
	s.win.Move(m.X, m.Y)
}

func (s *Surface) connectSignals() {
	s.win.Connect("realize", func() {
		s.mu.Lock()
		s.realized = true
		s.mu.Unlock()
	})
	s.win.Connect("unrealize", func() {
		s.mu.Lock()
		s.realized = false
		s.mu.Unlock()
	})

	s.win.Connect("delete-event", func() bool {
		s.push(ui.WindowEvent{Kind: ui.CloseRequested})
		return true
	})
	s.win.Connect("destroy", func() {
		s.destroyed.Store(true)
		s.push(ui.WindowEvent{Kind: ui.Destroyed})
	})
	s.win.Connect("configure-event", func(w *gtk.Window, _ *gdk.Event) bool {
		width, height := w.GetSize()
		size := geometry.Size{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))}
		s.mu.Lock()
		changed := size != s.size
		s.size = size
		s.mu.Unlock()
		if changed {
			s.push(ui.WindowEvent{Kind: ui.Resized, Size: size})
		}
		return false
	})
	s.win.Connect("notify::scale-factor", func() {
		s.push(ui.WindowEvent{Kind: ui.ScaleFactorChanged, Scale: float64(s.win.GetScaleFactor())})
	})
	s.win.Connect("focus-in-event", func() bool {
		s.push(ui.WindowEvent{Kind: ui.Focused, Focus: true})
		return false
	})
	s.win.Connect("focus-out-event", func() bool {
		s.push(ui.WindowEvent{Kind: ui.Focused, Focus: false})
		return false
	})
	s.win.Connect("map-event", func() bool {
		s.push(ui.WindowEvent{Kind: ui.Exposed})
		return false
	})

	s.area.Connect("draw", func(_ *gtk.DrawingArea, cr *cairo.Context) bool {
		s.paint(cr)
		return true
	})
}

// push forwards ev unless the surface is being closed by the render loop
func (s *Surface) push(ev ui.WindowEvent) {
	if s.closing.Load() || s.events == nil {
		return
	}
	s.events.PushWindow(ev)
}

func (s *Surface) paint(cr *cairo.Context) {
	s.mu.Lock()
	ops := s.committed
	s.mu.Unlock()

	for _, op := range ops {
		cr.SetSourceRGBA(op.color.R, op.color.G, op.color.B, op.color.A)
		if op.text == "" {
			cr.Rectangle(op.x, op.y, op.w, op.h)
			cr.Fill()
			continue
		}
		l := s.fonts.layout(cr, op.font, op.text)
		cr.MoveTo(op.x, op.y)
		pango.CairoShowLayout(cr, l)
	}
}

// CurrentSize returns the last size reported by the window system
func (s *Surface) CurrentSize() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *Surface) FillRect(x, y, w, h float64, c ui.Color) {
	s.mu.Lock()
	s.pending = append(s.pending, drawOp{x: x, y: y, w: w, h: h, color: c})
	s.mu.Unlock()
}

func (s *Surface) DrawText(x, y float64, font, text string, c ui.Color) {
	if text == "" {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, drawOp{x: x, y: y, font: font, text: text, color: c})
	s.mu.Unlock()
}

// Clear starts a new display list
func (s *Surface) Clear() {
	s.mu.Lock()
	s.pending = make([]drawOp, 0, len(s.committed))
	s.mu.Unlock()
}

// Present commits the display list and schedules a redraw
func (s *Surface) Present() error {
	s.mu.Lock()
	if !s.realized {
		s.mu.Unlock()
		return ErrNotRealized
	}
	s.committed = s.pending
	s.pending = nil
	s.mu.Unlock()

	glib.IdleAdd(func() {
		s.area.QueueDraw()
	})
	return nil
}

// Show maps the window
func (s *Surface) Show() {
	invoke(func() {
		s.win.ShowAll()
	})
}

// Resize requests a new size. The window system reports the result
// asynchronously through a Resized event.
func (s *Surface) Resize(size geometry.Size) {
	s.logger.Debug("Resizing surface", "size", size)
	invoke(func() {
		s.area.SetSizeRequest(int(size.Width), int(size.Height))
		s.win.Resize(int(size.Width), int(size.Height))
	})
}

// Close destroys the window
func (s *Surface) Close() {
	if s.closing.Swap(true) {
		return
	}
	invoke(func() {
		if !s.destroyed.Load() {
			s.win.Destroy()
		}
	})
}
