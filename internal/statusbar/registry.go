package statusbar

import (
	"fmt"
	"log/slog"

	"github.com/chess10kp/mbar/internal/config"
)

// ModuleManager manages all status bar modules
type ModuleManager struct {
	modules map[string]Module
	logger  *slog.Logger
}

// NewModuleManager creates a new module manager
func NewModuleManager(logger *slog.Logger) *ModuleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModuleManager{
		modules: make(map[string]Module),
		logger:  logger,
	}
}

// RegisterModule registers a module
func (m *ModuleManager) RegisterModule(module Module) error {
	name := module.Name()

	if _, exists := m.modules[name]; exists {
		return fmt.Errorf("module '%s' already registered", name)
	}

	m.modules[name] = module
	m.logger.Debug("Registered module", "module", name)

	return nil
}

// UnregisterModule unregisters a module
func (m *ModuleManager) UnregisterModule(name string) {
	if module, exists := m.modules[name]; exists {
		if err := module.Cleanup(); err != nil {
			m.logger.Warn("Module cleanup failed", "module", name, "error", err)
		}
		delete(m.modules, name)
		m.logger.Debug("Unregistered module", "module", name)
	}
}

// GetModule returns a module by name
func (m *ModuleManager) GetModule(name string) (Module, bool) {
	module, exists := m.modules[name]
	return module, exists
}

// CreateModule creates a module instance by name
func CreateModule(name string) (Module, error) {
	switch name {
	case "workspaces":
		return NewWorkspacesModule(), nil
	case "layout":
		return NewLayoutModule(), nil
	case "title":
		return NewTitleModule(), nil
	case "time":
		return NewTimeModule(), nil
	case "custom_message":
		return NewCustomMessageModule(), nil
	default:
		return nil, fmt.Errorf("unknown module: %s", name)
	}
}

// LoadModules creates and initializes every module named in the layout.
// Modules that are already loaded are re-initialized in place so their
// runtime state (such as a custom message) survives a config reload.
// Loaded modules no longer in the layout are unregistered. Every module is
// created before any is initialized, so an unknown name leaves the loaded
// modules untouched.
func (m *ModuleManager) LoadModules(cfg *config.Config) error {
	names := cfg.Layout.Modules()
	created := make(map[string]Module)
	for _, name := range names {
		if _, exists := m.modules[name]; exists {
			continue
		}
		module, err := CreateModule(name)
		if err != nil {
			return err
		}
		created[name] = module
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true

		var moduleCfg map[string]interface{}
		if mc, ok := cfg.ModuleConfigs[name]; ok {
			moduleCfg = mc.ToMap()
		}

		module, exists := m.modules[name]
		if !exists {
			module = created[name]
		}
		if err := module.Initialize(moduleCfg); err != nil {
			return fmt.Errorf("failed to initialize module '%s': %w", name, err)
		}
		if !exists {
			if err := m.RegisterModule(module); err != nil {
				return err
			}
		}
	}

	for name := range m.modules {
		if !wanted[name] {
			m.UnregisterModule(name)
		}
	}
	return nil
}

// Cleanup cleans up all modules
func (m *ModuleManager) Cleanup() {
	for name, module := range m.modules {
		if err := module.Cleanup(); err != nil {
			m.logger.Warn("Module cleanup failed", "module", name, "error", err)
		}
	}

	m.modules = make(map[string]Module)
}

// HandleIPCMessage routes IPC messages to appropriate modules
func (m *ModuleManager) HandleIPCMessage(message string) bool {
	for _, module := range m.modules {
		if module.HandlesIPC() && module.HandleIPC(message) {
			m.logger.Debug("Module handled IPC", "module", module.Name(), "message", message)
			return true
		}
	}

	return false
}

// GetModules returns all registered modules
func (m *ModuleManager) GetModules() map[string]Module {
	return m.modules
}
