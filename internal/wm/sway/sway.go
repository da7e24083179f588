// Package sway reads workspace and focus state over the sway IPC socket.
package sway

import (
	"context"
	"fmt"

	"github.com/joshuarubin/go-sway"

	"github.com/chess10kp/mbar/internal/wm"
)

// Client implements wm.Client on top of go-sway
type Client struct {
	ipc sway.Client
}

// Connect opens the sway IPC socket named by $SWAYSOCK
func Connect(ctx context.Context) (*Client, error) {
	ipc, err := sway.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sway: %w", err)
	}
	return &Client{ipc: ipc}, nil
}

// DesktopNames returns the workspace names in sway's order
func (c *Client) DesktopNames(ctx context.Context) ([]string, error) {
	workspaces, err := c.ipc.GetWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	return desktopNames(workspaces), nil
}

// CurrentDesktop returns the index of the focused workspace, or -1
func (c *Client) CurrentDesktop(ctx context.Context) (int, error) {
	workspaces, err := c.ipc.GetWorkspaces(ctx)
	if err != nil {
		return 0, err
	}
	return currentDesktop(workspaces), nil
}

// ActiveWindow returns the focused container. An empty workspace has no
// focused window and yields the zero Window.
func (c *Client) ActiveWindow(ctx context.Context) (wm.Window, error) {
	tree, err := c.ipc.GetTree(ctx)
	if err != nil {
		return wm.Window{}, err
	}
	return activeWindow(tree), nil
}

// DesktopLayout returns the layout of the focused workspace (splith, tabbed, ...)
func (c *Client) DesktopLayout(ctx context.Context) (string, error) {
	tree, err := c.ipc.GetTree(ctx)
	if err != nil {
		return "", err
	}
	return desktopLayout(tree), nil
}

// Snapshot reads the workspace list and the tree once each and derives
// every fact from them
func (c *Client) Snapshot(ctx context.Context) (wm.DesktopState, error) {
	workspaces, err := c.ipc.GetWorkspaces(ctx)
	if err != nil {
		return wm.DesktopState{}, fmt.Errorf("failed to get workspaces: %w", err)
	}
	tree, err := c.ipc.GetTree(ctx)
	if err != nil {
		return wm.DesktopState{}, fmt.Errorf("failed to get tree: %w", err)
	}
	return stateFrom(workspaces, tree), nil
}

func stateFrom(workspaces []sway.Workspace, tree *sway.Node) wm.DesktopState {
	return wm.DesktopState{
		DesktopNames:   desktopNames(workspaces),
		DesktopLayout:  desktopLayout(tree),
		CurrentDesktop: currentDesktop(workspaces),
		ActiveWindow:   activeWindow(tree),
	}
}

func desktopNames(workspaces []sway.Workspace) []string {
	names := make([]string, len(workspaces))
	for i, ws := range workspaces {
		names[i] = ws.Name
	}
	return names
}

func currentDesktop(workspaces []sway.Workspace) int {
	for i, ws := range workspaces {
		if ws.Focused {
			return i
		}
	}
	return -1
}

func activeWindow(tree *sway.Node) wm.Window {
	node := findFocused(tree)
	if node == nil || string(node.Type) == "workspace" {
		return wm.Window{}
	}
	return wm.Window{ID: uint64(node.ID), Title: node.Name}
}

func desktopLayout(tree *sway.Node) string {
	ws := findFocusedWorkspace(tree, nil)
	if ws == nil {
		return ""
	}
	return string(ws.Layout)
}

// Close is a no-op; go-sway dials the socket per request.
func (c *Client) Close() error {
	return nil
}

func findFocused(n *sway.Node) *sway.Node {
	if n == nil {
		return nil
	}
	if n.Focused {
		return n
	}
	for _, child := range n.Nodes {
		if f := findFocused(child); f != nil {
			return f
		}
	}
	for _, child := range n.FloatingNodes {
		if f := findFocused(child); f != nil {
			return f
		}
	}
	return nil
}

// findFocusedWorkspace returns the workspace containing the focused node
func findFocusedWorkspace(n, workspace *sway.Node) *sway.Node {
	if n == nil {
		return nil
	}
	if string(n.Type) == "workspace" {
		workspace = n
	}
	if n.Focused {
		return workspace
	}
	for _, child := range n.Nodes {
		if ws := findFocusedWorkspace(child, workspace); ws != nil {
			return ws
		}
	}
	for _, child := range n.FloatingNodes {
		if ws := findFocusedWorkspace(child, workspace); ws != nil {
			return ws
		}
	}
	return nil
}
