// Package statusbar draws the configured modules into the bar's three
// sections.
package statusbar

import (
	"log/slog"

	"github.com/chess10kp/mbar/internal/config"
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// StatusBar is the bar content. All methods must be called from the render
// loop.
type StatusBar struct {
	manager *ModuleManager
	layout  config.StatusBarLayout
	logger  *slog.Logger
}

// New loads the modules named in cfg's layout
func New(cfg *config.Config, logger *slog.Logger) (*StatusBar, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sb := &StatusBar{
		manager: NewModuleManager(logger),
		logger:  logger,
	}
	if err := sb.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return sb, nil
}

// Reconfigure applies a new layout and module settings
func (sb *StatusBar) Reconfigure(cfg *config.Config) error {
	if err := sb.manager.LoadModules(cfg); err != nil {
		return err
	}
	sb.layout = cfg.Layout
	return nil
}

// Draw lays out every section for one frame
func (sb *StatusBar) Draw(u *ui.UI, state wm.DesktopState) {
	u.Left(func(r *ui.Row) { sb.drawSection(u, r, sb.layout.Left, state) })
	u.Center(func(r *ui.Row) { sb.drawSection(u, r, sb.layout.Middle, state) })
	u.Right(func(r *ui.Row) { sb.drawSection(u, r, sb.layout.Right, state) })
}

func (sb *StatusBar) drawSection(u *ui.UI, r *ui.Row, names []string, state wm.DesktopState) {
	for _, name := range names {
		module, ok := sb.manager.GetModule(name)
		if !ok {
			continue
		}
		module.Draw(u, r, state)
	}
}

// HandleIPCMessage passes an IPC message to the modules
func (sb *StatusBar) HandleIPCMessage(message string) bool {
	return sb.manager.HandleIPCMessage(message)
}

// Close cleans up all modules
func (sb *StatusBar) Close() {
	sb.manager.Cleanup()
}
