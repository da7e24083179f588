// Package ewmh reads desktop state from an EWMH compliant X11 window manager.
package ewmh

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/chess10kp/mbar/internal/wm"
)

// Client implements wm.Client over an X11 connection
type Client struct {
	xu *xgbutil.XUtil
}

// Connect opens the X11 display named by $DISPLAY
func Connect() (*Client, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11 server: %w", err)
	}
	return &Client{xu: xu}, nil
}

// DesktopNames reads _NET_DESKTOP_NAMES
func (c *Client) DesktopNames(_ context.Context) ([]string, error) {
	return ewmh.DesktopNamesGet(c.xu)
}

// CurrentDesktop reads _NET_CURRENT_DESKTOP
func (c *Client) CurrentDesktop(_ context.Context) (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.xu)
	if err != nil {
		return 0, err
	}
	return int(desktop), nil
}

// ActiveWindow reads _NET_ACTIVE_WINDOW and the window's title. A window
// without any title is reported with an empty one.
func (c *Client) ActiveWindow(_ context.Context) (wm.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.xu)
	if err != nil {
		return wm.Window{}, err
	}
	if win == 0 {
		return wm.Window{}, nil
	}

	return wm.Window{ID: uint64(win), Title: c.title(win)}, nil
}

// title prefers the UTF-8 _NET_WM_NAME over the legacy WM_NAME
func (c *Client) title(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.xu, win); err == nil && title != "" {
		return title
	}
	title, _ := icccm.WmNameGet(c.xu, win)
	return title
}

// DesktopLayout formats _NET_DESKTOP_LAYOUT, e.g. "3x2 horizontal". Window
// managers that don't publish the property report an empty layout.
func (c *Client) DesktopLayout(_ context.Context) (string, error) {
	layout, err := ewmh.DesktopLayoutGet(c.xu)
	if err != nil {
		return "", nil
	}
	return FormatLayout(layout), nil
}

// Close closes the X11 connection
func (c *Client) Close() error {
	c.xu.Conn().Close()
	return nil
}

// FormatLayout renders a desktop layout as columns x rows and orientation
func FormatLayout(l *ewmh.DesktopLayout) string {
	if l == nil {
		return ""
	}
	orientation := "horizontal"
	if l.Orientation == ewmh.OrientVert {
		orientation = "vertical"
	}
	return fmt.Sprintf("%dx%d %s", l.Columns, l.Rows, orientation)
}
