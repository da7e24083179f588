package core

import (
	"context"
	"log/slog"

	"github.com/chess10kp/mbar/internal/wm"
	"github.com/chess10kp/mbar/internal/wm/ewmh"
	"github.com/chess10kp/mbar/internal/wm/sway"
)

// ConnectFunc opens a window manager client for the named backend
type ConnectFunc func(ctx context.Context, backend string) (wm.Client, error)

// ConnectWM resolves "auto" from the environment and connects to sway or
// to the X server
func ConnectWM(ctx context.Context, backend string) (wm.Client, error) {
	name, err := wm.DetectBackend(backend)
	if err != nil {
		return nil, err
	}

	slog.Debug("Connecting to window manager", "backend", name)
	if name == wm.BackendSway {
		client, err := sway.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	client, err := ewmh.Connect()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// backendName is the logging component for a backend setting
func backendName(backend string) string {
	name, err := wm.DetectBackend(backend)
	if err != nil {
		return backend
	}
	return name
}
