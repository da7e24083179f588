// Package gtkui implements the bar's surface, monitor list and text
// measurement on GTK 3.
//
// GTK objects are owned by the GTK main thread. Every exported method is
// meant to be called from the render loop goroutine and marshals its work
// onto the main thread; signal handlers only push into the event queue.
package gtkui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/chess10kp/mbar/internal/bar"
	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/logging"
	"github.com/chess10kp/mbar/internal/ui"
)

// ErrNotRealized is returned when presenting to a window that has no
// backing GDK window yet
var ErrNotRealized = errors.New("window not realized")

// Platform is the GTK backend. Run must be called on the main OS thread.
type Platform struct {
	logger   *slog.Logger
	fonts    *fontCache
	measurer *Measurer

	// monitors holds the GDK monitors from the last Monitors call,
	// indexed like the returned geometry.Monitor values
	monitors []*gdk.Monitor
}

// NewPlatform creates the backend. No GTK call is made until Run.
func NewPlatform(logger *slog.Logger) *Platform {
	if logger == nil {
		logger = slog.Default()
	}
	fonts := newFontCache()
	return &Platform{
		logger:   logging.Component(logger, "gtk"),
		fonts:    fonts,
		measurer: &Measurer{fonts: fonts},
	}
}

// Run initializes GTK, runs fn on a new goroutine and spins the GTK main
// loop until fn returns. It returns fn's result.
func (p *Platform) Run(fn func() int) int {
	gtk.Init(nil)

	result := make(chan int, 1)
	go func() {
		code := fn()
		result <- code
		glib.IdleAdd(func() {
			gtk.MainQuit()
		})
	}()

	gtk.Main()
	return <-result
}

// Measurer returns the pango text measurer
func (p *Platform) Measurer() ui.Measurer {
	return p.measurer
}

// Monitors lists the connected monitors in logical pixels
func (p *Platform) Monitors() ([]geometry.Monitor, error) {
	var (
		monitors []geometry.Monitor
		err      error
	)
	invoke(func() {
		monitors, p.monitors, err = listMonitors()
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Monitors listed", "count", len(monitors))
	return monitors, nil
}

func listMonitors() ([]geometry.Monitor, []*gdk.Monitor, error) {
	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get default display: %w", err)
	}

	n := display.GetNMonitors()
	monitors := make([]geometry.Monitor, 0, n)
	handles := make([]*gdk.Monitor, 0, n)
	for i := 0; i < n; i++ {
		monitor, err := display.GetMonitor(i)
		if err != nil || monitor == nil {
			continue
		}
		geo := monitor.GetGeometry()
		model := monitor.GetModel()
		monitors = append(monitors, geometry.Monitor{
			Index:   len(handles),
			Name:    model,
			Model:   joinNonEmpty(monitor.GetManufacturer(), model),
			X:       geo.GetX(),
			Y:       geo.GetY(),
			Width:   uint32(geo.GetWidth()),
			Height:  uint32(geo.GetHeight()),
			Primary: monitor.IsPrimary(),
		})
		handles = append(handles, monitor)
	}
	return monitors, handles, nil
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

// NewSurface creates the bar window on the monitor chosen in opts
func (p *Platform) NewSurface(opts bar.SurfaceOptions) (bar.Surface, error) {
	var monitor *gdk.Monitor
	if i := opts.Monitor.Index; i >= 0 && i < len(p.monitors) {
		monitor = p.monitors[i]
	}

	var (
		s   *Surface
		err error
	)
	invoke(func() {
		s, err = newSurface(opts, monitor, p.fonts, p.logger)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// invoke runs fn on the GTK main thread and waits for it. It must not be
// called from the main thread itself.
func invoke(fn func()) {
	done := make(chan struct{})
	glib.IdleAdd(func() {
		defer close(done)
		fn()
	})
	<-done
}
