package ui

import (
	"fmt"

	"github.com/chess10kp/mbar/internal/geometry"
)

// EventKind identifies a window event
type EventKind int

const (
	CloseRequested EventKind = iota
	Destroyed
	Resized
	ScaleFactorChanged
	Focused
	Exposed
)

func (k EventKind) String() string {
	switch k {
	case CloseRequested:
		return "close-requested"
	case Destroyed:
		return "destroyed"
	case Resized:
		return "resized"
	case ScaleFactorChanged:
		return "scale-factor-changed"
	case Focused:
		return "focused"
	case Exposed:
		return "exposed"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// WindowEvent is an event reported by the windowing system for the bar
type WindowEvent struct {
	Kind EventKind
	// Size is the new logical size for Resized
	Size geometry.Size
	// Scale is the new factor for ScaleFactorChanged
	Scale float64
	// Focus is the new state for Focused
	Focus bool
	// Code is the exit code for CloseRequested and Destroyed
	Code int
}

func (e WindowEvent) String() string {
	switch e.Kind {
	case Resized:
		return fmt.Sprintf("%s %s", e.Kind, e.Size)
	case ScaleFactorChanged:
		return fmt.Sprintf("%s %.2f", e.Kind, e.Scale)
	default:
		return e.Kind.String()
	}
}
