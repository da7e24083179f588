// Package sizing decides when the bar window has to follow its content.
package sizing

import (
	"fmt"
	"math"

	"github.com/chess10kp/mbar/internal/geometry"
)

// MeasuredSize is the minimal bounding box of the content drawn in one frame
type MeasuredSize struct {
	Width  float64
	Height float64
}

func (m MeasuredSize) String() string {
	return fmt.Sprintf("%.1fx%.1f", m.Width, m.Height)
}

// CorrectForChrome removes the hosting panel's own minimum size from the
// used size and adds back the inner content's minimum size. Without it the
// panel padding is counted twice and the window jitters by a frame.
func CorrectForChrome(used, panel, content MeasuredSize) MeasuredSize {
	return MeasuredSize{
		Width:  used.Width - panel.Width + content.Width,
		Height: used.Height - panel.Height + content.Height,
	}
}

// Resizer is the part of the surface the engine needs
type Resizer interface {
	CurrentSize() geometry.Size
	Resize(size geometry.Size)
}

// Engine applies the size policy to each fresh measurement
type Engine struct {
	geometry geometry.SurfaceGeometry
	// pending is the last size requested that the surface has not reported
	// yet, and requestedFrom the live size when it was requested
	pending       geometry.Size
	requestedFrom geometry.Size
	hasPending    bool
}

// NewEngine creates an engine for the resolved geometry
func NewEngine(g geometry.SurfaceGeometry) *Engine {
	return &Engine{geometry: g}
}

// Target computes the size the surface should have given the measurement
// and its live size. Fixed axes always keep the live size.
func (e *Engine) Target(m MeasuredSize, current geometry.Size) geometry.Size {
	target := current
	if !e.geometry.Width.Fixed {
		target.Width = toPixels(m.Width)
	}
	if !e.geometry.Height.Fixed {
		target.Height = toPixels(m.Height)
	}
	return target
}

// Apply issues at most one resize request per change in the target or live
// size. A request stays outstanding until the surface reports a size other
// than the one it was made from; whatever it reports then is a new live size
// to compare against. It returns the requested size and true when a request
// was made.
func (e *Engine) Apply(m MeasuredSize, surface Resizer) (geometry.Size, bool) {
	if e.geometry.Width.Fixed && e.geometry.Height.Fixed {
		return geometry.Size{}, false
	}

	current := surface.CurrentSize()
	target := e.Target(m, current)

	if target == current {
		e.hasPending = false
		return geometry.Size{}, false
	}
	if e.hasPending && target == e.pending && current == e.requestedFrom {
		return geometry.Size{}, false
	}

	surface.Resize(target)
	// Surfaces that resize synchronously have nothing left pending.
	e.pending = target
	e.requestedFrom = current
	e.hasPending = surface.CurrentSize() != target
	return target, true
}

func toPixels(v float64) uint32 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(v))
}
