// Package geometry turns size policies and monitor bounds into the initial
// bar window dimensions.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrDisplayNotFound is returned when the requested monitor does not exist
var ErrDisplayNotFound = errors.New("display not found")

// DisplayNotFoundError describes a failed monitor lookup
type DisplayNotFoundError struct {
	Target Target
	Count  int
}

func (e *DisplayNotFoundError) Error() string {
	switch {
	case e.Target.Name != "":
		return fmt.Sprintf("no screen matches %q (there are %d screens)", e.Target.Name, e.Count)
	case e.Target.IsSet():
		return fmt.Sprintf("invalid screen index, got %d, but there are only %d screens", e.Target.Index, e.Count)
	default:
		return "failed to determine primary monitor"
	}
}

func (e *DisplayNotFoundError) Unwrap() error {
	return ErrDisplayNotFound
}

// Size is a window size in pixels
type Size struct {
	Width  uint32
	Height uint32
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Monitor is a display as reported by the platform. Index is the platform's
// position for the monitor; X and Y locate it in the global layout.
type Monitor struct {
	Index   int
	Name    string
	Model   string
	X, Y    int
	Width   uint32
	Height  uint32
	Primary bool
}

// Target identifies the monitor requested on the command line. The zero
// value means "use the primary monitor".
type Target struct {
	Index int
	Name  string
	set   bool
}

// IndexTarget selects a monitor by position
func IndexTarget(i int) Target {
	return Target{Index: i, set: true}
}

// NameTarget selects a monitor by connector or model name
func NameTarget(name string) Target {
	return Target{Name: name, set: true}
}

// ParseTarget reads a screen index or, failing that, a monitor name
func ParseTarget(s string) Target {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return IndexTarget(i)
	}
	return NameTarget(s)
}

// IsSet reports whether an explicit monitor was requested
func (t Target) IsSet() bool {
	return t.set
}

func (t Target) String() string {
	switch {
	case !t.set:
		return "primary"
	case t.Name != "":
		return t.Name
	default:
		return strconv.Itoa(t.Index)
	}
}

// SelectMonitor picks the monitor named by target. An explicit index that is
// out of range is an error; it never falls back to another monitor.
func SelectMonitor(monitors []Monitor, target Target) (Monitor, error) {
	notFound := &DisplayNotFoundError{Target: target, Count: len(monitors)}

	if !target.IsSet() {
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		if len(monitors) == 0 {
			return Monitor{}, notFound
		}
		return monitors[0], nil
	}

	if target.Name == "" {
		if target.Index < 0 || target.Index >= len(monitors) {
			return Monitor{}, notFound
		}
		return monitors[target.Index], nil
	}

	for _, m := range monitors {
		if strings.EqualFold(m.Name, target.Name) || strings.EqualFold(m.Model, target.Name) {
			return m, nil
		}
	}

	names := make([]string, len(monitors))
	for i, m := range monitors {
		names[i] = strings.TrimSpace(m.Name + " " + m.Model)
	}
	matches := fuzzy.Find(target.Name, names)
	if len(matches) == 0 {
		return Monitor{}, notFound
	}
	// Ambiguous matches are rejected rather than guessed at.
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		return Monitor{}, notFound
	}
	return monitors[matches[0].Index], nil
}

// Dimension is one resolved axis. Fixed is false when the axis is governed
// by the measured content.
type Dimension struct {
	Value uint32
	Fixed bool
}

// SurfaceGeometry is the resolved size of the bar per axis
type SurfaceGeometry struct {
	Width  Dimension
	Height Dimension
}

func (g SurfaceGeometry) String() string {
	return fmt.Sprintf("%sx%s", g.Width, g.Height)
}

func (d Dimension) String() string {
	if !d.Fixed {
		return "fit"
	}
	return strconv.FormatUint(uint64(d.Value), 10)
}

// Resolve applies the width and height policies to the monitor bounds
func Resolve(m Monitor, width, height SizePolicy) SurfaceGeometry {
	return SurfaceGeometry{
		Width:  resolveAxis(width, m.Width),
		Height: resolveAxis(height, m.Height),
	}
}

func resolveAxis(p SizePolicy, screen uint32) Dimension {
	switch p.Kind {
	case FillScreen:
		return Dimension{Value: screen, Fixed: true}
	case Fixed:
		return Dimension{Value: p.Pixels, Fixed: true}
	default:
		return Dimension{}
	}
}

// InitialSize is the size the window is created with. Content-governed axes
// start at the monitor size and shrink after the first measured frame.
func (g SurfaceGeometry) InitialSize(m Monitor) Size {
	size := Size{Width: m.Width, Height: m.Height}
	if g.Width.Fixed {
		size.Width = g.Width.Value
	}
	if g.Height.Fixed {
		size.Height = g.Height.Value
	}
	return size
}
