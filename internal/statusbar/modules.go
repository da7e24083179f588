package statusbar

import (
	"strings"
	"sync"
	"time"

	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// WorkspacesModule lists the desktops and highlights the current one
type WorkspacesModule struct {
	*BaseModule
}

// NewWorkspacesModule creates a new workspaces module
func NewWorkspacesModule() *WorkspacesModule {
	return &WorkspacesModule{
		BaseModule: NewBaseModule("workspaces"),
	}
}

func (m *WorkspacesModule) Draw(_ *ui.UI, r *ui.Row, state wm.DesktopState) {
	for i, name := range state.DesktopNames {
		if i == state.CurrentDesktop {
			r.Highlight(name)
		} else {
			r.Label(name)
		}
	}
}

// LayoutModule shows the desktop layout reported by the window manager
type LayoutModule struct {
	*BaseModule
}

// NewLayoutModule creates a new layout module
func NewLayoutModule() *LayoutModule {
	return &LayoutModule{
		BaseModule: NewBaseModule("layout"),
	}
}

func (m *LayoutModule) Draw(_ *ui.UI, r *ui.Row, state wm.DesktopState) {
	r.Label(state.DesktopLayout)
}

const defaultTitleLength = 80

// TitleModule shows the focused window's title
type TitleModule struct {
	*BaseModule
	maxLength int
}

// NewTitleModule creates a new title module
func NewTitleModule() *TitleModule {
	return &TitleModule{
		BaseModule: NewBaseModule("title"),
		maxLength:  defaultTitleLength,
	}
}

// Initialize initializes the module with configuration
func (m *TitleModule) Initialize(config map[string]interface{}) error {
	if err := m.BaseModule.Initialize(config); err != nil {
		return err
	}

	m.maxLength = defaultTitleLength
	if n, ok := intValue(config["max_length"]); ok && n > 0 {
		m.maxLength = n
	}
	return nil
}

func (m *TitleModule) Draw(_ *ui.UI, r *ui.Row, state wm.DesktopState) {
	r.Label(truncate(state.ActiveWindow.Title, m.maxLength))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

const defaultTimeFormat = "Mon Jan 02 2006 15:04:05"

// TimeModule displays the current time
type TimeModule struct {
	*BaseModule
	format string
}

// NewTimeModule creates a new time module
func NewTimeModule() *TimeModule {
	return &TimeModule{
		BaseModule: NewBaseModule("time"),
		format:     defaultTimeFormat,
	}
}

// Initialize initializes the module with configuration
func (m *TimeModule) Initialize(config map[string]interface{}) error {
	if err := m.BaseModule.Initialize(config); err != nil {
		return err
	}

	m.format = defaultTimeFormat
	if format, ok := config["format"].(string); ok && format != "" {
		m.format = format
	}
	return nil
}

// Draw shows the time and asks for a repaint on the next full second
func (m *TimeModule) Draw(u *ui.UI, r *ui.Row, _ wm.DesktopState) {
	now := u.Now()
	r.Label(now.Format(m.format))
	u.RequestRepaintAfter(untilNextSecond(now))
}

func untilNextSecond(now time.Time) time.Duration {
	return now.Truncate(time.Second).Add(time.Second).Sub(now)
}

// MessagePrefix marks IPC messages meant for the custom message module
const MessagePrefix = "message:"

// CustomMessageModule displays custom messages via IPC
type CustomMessageModule struct {
	*BaseModule
	mu      sync.Mutex
	message string
}

// NewCustomMessageModule creates a new custom message module
func NewCustomMessageModule() *CustomMessageModule {
	m := &CustomMessageModule{
		BaseModule: NewBaseModule("custom_message"),
	}
	m.SetIPCHandler(func(message string) bool {
		text, ok := strings.CutPrefix(message, MessagePrefix)
		if !ok {
			return false
		}
		m.SetMessage(text)
		return true
	})
	return m
}

// Initialize initializes the module with configuration
func (m *CustomMessageModule) Initialize(config map[string]interface{}) error {
	if err := m.BaseModule.Initialize(config); err != nil {
		return err
	}

	if message, ok := config["message"].(string); ok {
		m.SetMessage(message)
	}
	return nil
}

// SetMessage sets the custom message
func (m *CustomMessageModule) SetMessage(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.message = strings.TrimSpace(message)
}

// GetMessage returns the current message
func (m *CustomMessageModule) GetMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}

func (m *CustomMessageModule) Draw(_ *ui.UI, r *ui.Row, _ wm.DesktopState) {
	r.Label(m.GetMessage())
}
