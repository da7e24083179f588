package statusbar

import (
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// Module is the interface that all status bar modules must implement
type Module interface {
	// Identification
	Name() string

	// Draw adds the module's items to its section for one frame
	Draw(u *ui.UI, r *ui.Row, state wm.DesktopState)

	// Lifecycle
	Initialize(config map[string]interface{}) error
	Cleanup() error

	// IPC
	HandlesIPC() bool
	HandleIPC(message string) bool
}

// BaseModule provides a common base implementation for modules
type BaseModule struct {
	name       string
	ipcHandler func(message string) bool
}

// NewBaseModule creates a new base module with defaults
func NewBaseModule(name string) *BaseModule {
	return &BaseModule{name: name}
}

// Name returns the module name
func (m *BaseModule) Name() string {
	return m.name
}

// Initialize accepts any configuration; modules with settings override it
func (m *BaseModule) Initialize(config map[string]interface{}) error {
	return nil
}

// HandlesIPC reports whether an IPC handler is set
func (m *BaseModule) HandlesIPC() bool {
	return m.ipcHandler != nil
}

// SetIPCHandler sets the IPC handler
func (m *BaseModule) SetIPCHandler(handler func(message string) bool) {
	m.ipcHandler = handler
}

// HandleIPC passes message to the IPC handler
func (m *BaseModule) HandleIPC(message string) bool {
	if m.ipcHandler == nil {
		return false
	}
	return m.ipcHandler(message)
}

// Cleanup releases module resources
func (m *BaseModule) Cleanup() error {
	return nil
}

// intValue reads an integer that may have been decoded from TOML as int64
func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
