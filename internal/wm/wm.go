// Package wm defines the window-manager facts shown on the bar and the
// client interface the backends implement.
package wm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
)

// ErrUnsupportedBackend is returned for an unknown or undetectable backend
var ErrUnsupportedBackend = errors.New("unsupported window manager backend")

// Window is the focused window. ID is backend specific and opaque.
type Window struct {
	ID    uint64
	Title string
}

// DesktopState is one snapshot of the window manager
type DesktopState struct {
	DesktopNames   []string
	DesktopLayout  string
	CurrentDesktop int
	ActiveWindow   Window
}

// Equal reports whether two snapshots describe the same state
func (s DesktopState) Equal(o DesktopState) bool {
	return s.DesktopLayout == o.DesktopLayout &&
		s.CurrentDesktop == o.CurrentDesktop &&
		s.ActiveWindow == o.ActiveWindow &&
		slices.Equal(s.DesktopNames, o.DesktopNames)
}

// Client queries the window manager. Every call is a synchronous
// request/reply and may fail with a connectivity or protocol error.
type Client interface {
	DesktopNames(ctx context.Context) ([]string, error)
	CurrentDesktop(ctx context.Context) (int, error)
	ActiveWindow(ctx context.Context) (Window, error)
	Close() error
}

// LayoutReporter is implemented by clients that can describe the desktop layout
type LayoutReporter interface {
	DesktopLayout(ctx context.Context) (string, error)
}

// Snapshotter is implemented by clients that can read every fact in fewer
// round trips than the individual queries take
type Snapshotter interface {
	Snapshot(ctx context.Context) (DesktopState, error)
}

// Snapshot queries every fact the bar displays. The first failing query
// aborts the snapshot.
func Snapshot(ctx context.Context, c Client) (DesktopState, error) {
	if s, ok := c.(Snapshotter); ok {
		return s.Snapshot(ctx)
	}

	names, err := c.DesktopNames(ctx)
	if err != nil {
		return DesktopState{}, fmt.Errorf("failed to get desktop names: %w", err)
	}

	current, err := c.CurrentDesktop(ctx)
	if err != nil {
		return DesktopState{}, fmt.Errorf("failed to get current desktop: %w", err)
	}

	active, err := c.ActiveWindow(ctx)
	if err != nil {
		return DesktopState{}, fmt.Errorf("failed to get active window: %w", err)
	}

	state := DesktopState{
		DesktopNames:   names,
		CurrentDesktop: current,
		ActiveWindow:   active,
	}

	if lr, ok := c.(LayoutReporter); ok {
		layout, err := lr.DesktopLayout(ctx)
		if err != nil {
			return DesktopState{}, fmt.Errorf("failed to get desktop layout: %w", err)
		}
		state.DesktopLayout = layout
	}

	return state, nil
}

// Backend names accepted on the command line and in the config file
const (
	BackendAuto = "auto"
	BackendSway = "sway"
	BackendX11  = "x11"
)

// DetectBackend resolves "auto" from the session environment
func DetectBackend(name string) (string, error) {
	switch name {
	case BackendSway, BackendX11:
		return name, nil
	case "", BackendAuto:
		if os.Getenv("SWAYSOCK") != "" {
			return BackendSway, nil
		}
		if os.Getenv("DISPLAY") != "" {
			return BackendX11, nil
		}
		return "", fmt.Errorf("%w: neither SWAYSOCK nor DISPLAY is set", ErrUnsupportedBackend)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}
