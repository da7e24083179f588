package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// DefaultPath is where the config is read from unless -c is given
const DefaultPath = "~/.config/mbar/config.toml"

type Config struct {
	AppName    string `toml:"app_name"`
	SocketPath string `toml:"socket_path"`
	PidFile    string `toml:"pid_file"`

	Bar           BarConfig               `toml:"bar"`
	Style         StyleConfig             `toml:"style"`
	Layout        StatusBarLayout         `toml:"layout"`
	ModuleConfigs map[string]ModuleConfig `toml:"module_configs"`
}

// BarConfig holds the settings fixed for the lifetime of the process
type BarConfig struct {
	Width   geometry.SizePolicy `toml:"width"`
	Height  geometry.SizePolicy `toml:"height"`
	Screen  string              `toml:"screen"`
	Backend string              `toml:"backend"`
	// PollInterval is the pause between window manager polls in ms
	PollInterval int `toml:"poll_interval"`
	// MaxWait caps the wait between two frames in ms
	MaxWait int `toml:"max_wait"`
}

type StyleConfig struct {
	Font    string       `toml:"font"`
	Margin  int          `toml:"margin"`
	Spacing int          `toml:"spacing"`
	Padding int          `toml:"padding"`
	Colors  ColorsConfig `toml:"colors"`
}

type ColorsConfig struct {
	Background          string `toml:"background"`
	Foreground          string `toml:"foreground"`
	HighlightBackground string `toml:"highlight_background"`
	HighlightForeground string `toml:"highlight_foreground"`
}

type StatusBarLayout struct {
	Left   []string `toml:"left"`
	Middle []string `toml:"middle"`
	Right  []string `toml:"right"`
}

// Modules returns every module named in the layout, in drawing order
func (l StatusBarLayout) Modules() []string {
	return append(append(append([]string(nil), l.Left...), l.Middle...), l.Right...)
}

type ModuleConfig struct {
	Format     string                 `toml:"format"`
	MaxLength  int                    `toml:"max_length"`
	Properties map[string]interface{} `toml:"properties"`
}

// ToMap converts ModuleConfig to map[string]interface{} for use with modules
func (c *ModuleConfig) ToMap() map[string]interface{} {
	result := make(map[string]interface{})

	if c.Format != "" {
		result["format"] = c.Format
	}
	if c.MaxLength > 0 {
		result["max_length"] = c.MaxLength
	}
	for k, v := range c.Properties {
		result[k] = v
	}

	return result
}

// ModuleNames lists the modules the bar knows how to draw
var ModuleNames = []string{"workspaces", "layout", "title", "time", "custom_message"}

// DefaultConfig returns a fresh copy of the built-in configuration
func DefaultConfig() Config {
	return Config{
		AppName:    "mbar",
		SocketPath: "/tmp/mbar_socket",
		PidFile:    "/tmp/mbar.pid",
		Bar: BarConfig{
			Width:        geometry.Screen(),
			Height:       geometry.Fit(),
			Backend:      wm.BackendAuto,
			PollInterval: 50,
			MaxWait:      50,
		},
		Style: StyleConfig{
			Font:    "monospace 10",
			Margin:  2,
			Spacing: 8,
			Padding: 4,
			Colors: ColorsConfig{
				Background:          "#0e1419",
				Foreground:          "#ebdbb2",
				HighlightBackground: "#ebdbb2",
				HighlightForeground: "#0e1419",
			},
		},
		Layout: StatusBarLayout{
			Left:   []string{"workspaces", "layout"},
			Middle: []string{"title"},
			Right:  []string{"custom_message", "time"},
		},
		ModuleConfigs: map[string]ModuleConfig{
			"time": {
				Format: "Mon Jan 02 2006 15:04:05",
			},
			"title": {
				MaxLength: 80,
			},
		},
	}
}

// PollInterval returns the bridge poll interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Bar.PollInterval) * time.Millisecond
}

// MaxWait returns the cap on the wait between frames
func (c *Config) MaxWait() time.Duration {
	return time.Duration(c.Bar.MaxWait) * time.Millisecond
}

// UIStyle converts the style section for the toolkit
func (c *Config) UIStyle() (ui.Style, error) {
	s := c.Style
	style := ui.Style{
		Font:    s.Font,
		Margin:  float64(s.Margin),
		Spacing: float64(s.Spacing),
		Padding: float64(s.Padding),
	}

	for _, col := range []struct {
		name  string
		value string
		dst   *ui.Color
	}{
		{"background", s.Colors.Background, &style.Background},
		{"foreground", s.Colors.Foreground, &style.Foreground},
		{"highlight_background", s.Colors.HighlightBackground, &style.HighlightBg},
		{"highlight_foreground", s.Colors.HighlightForeground, &style.HighlightFg},
	} {
		parsed, err := ui.ParseColor(col.value)
		if err != nil {
			return ui.Style{}, fmt.Errorf("style.colors.%s: %w", col.name, err)
		}
		*col.dst = parsed
	}
	return style, nil
}

// LoadConfig reads path over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	expandedPath := ExpandPath(path)

	cfg := DefaultConfig()
	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		return &cfg, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", expandedPath, err)
	}

	cfg.SocketPath = ExpandPath(cfg.SocketPath)
	cfg.PidFile = ExpandPath(cfg.PidFile)

	return &cfg, nil
}

func LoadAndValidateConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}

func SaveConfig(cfg *Config, path string) error {
	expandedPath := ExpandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(expandedPath, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.validateBar(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	if err := c.validateLayout(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBar() error {
	b := c.Bar
	if b.PollInterval < 1 || b.PollInterval > 1000 {
		return fmt.Errorf("invalid poll_interval: %d (must be 1-1000ms)", b.PollInterval)
	}
	if b.MaxWait < 1 || b.MaxWait > 1000 {
		return fmt.Errorf("invalid max_wait: %d (must be 1-1000ms)", b.MaxWait)
	}
	for _, p := range []struct {
		name   string
		policy geometry.SizePolicy
	}{{"width", b.Width}, {"height", b.Height}} {
		if p.policy.Kind == geometry.Fixed && p.policy.Pixels == 0 {
			return fmt.Errorf("invalid %s: 0 (must be screen, fit or a positive number of pixels)", p.name)
		}
	}
	switch b.Backend {
	case "", wm.BackendAuto, wm.BackendSway, wm.BackendX11:
	default:
		return fmt.Errorf("invalid backend: %s (must be one of: auto, sway, x11)", b.Backend)
	}
	return nil
}

func (c *Config) validateStyle() error {
	s := c.Style
	if strings.TrimSpace(s.Font) == "" {
		return fmt.Errorf("style.font must not be empty")
	}
	for _, v := range []struct {
		name  string
		value int
	}{{"margin", s.Margin}, {"spacing", s.Spacing}, {"padding", s.Padding}} {
		if v.value < 0 || v.value > 100 {
			return fmt.Errorf("invalid %s: %d (must be 0-100px)", v.name, v.value)
		}
	}
	if _, err := c.UIStyle(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLayout() error {
	seen := make(map[string]bool)
	for _, name := range c.Layout.Modules() {
		if !slices.Contains(ModuleNames, name) {
			return fmt.Errorf("unknown module in layout: %s (must be one of: %s)", name, strings.Join(ModuleNames, ", "))
		}
		if seen[name] {
			return fmt.Errorf("module %s appears more than once in layout", name)
		}
		seen[name] = true
	}
	for name, mc := range c.ModuleConfigs {
		if !slices.Contains(ModuleNames, name) {
			return fmt.Errorf("module_configs for unknown module: %s", name)
		}
		if mc.MaxLength < 0 {
			return fmt.Errorf("invalid max_length for %s: %d (must be >= 0)", name, mc.MaxLength)
		}
	}
	return nil
}

func ValidateConfig(path string) error {
	_, err := LoadAndValidateConfig(path)
	return err
}
