package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chess10kp/mbar/internal/geometry"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, geometry.Screen(), cfg.Bar.Width)
	assert.Equal(t, geometry.Fit(), cfg.Bar.Height)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 50*time.Millisecond, cfg.MaxWait())
}

func TestDefaultConfigIsACopy(t *testing.T) {
	a := DefaultConfig()
	a.ModuleConfigs["time"] = ModuleConfig{Format: "15:04"}
	a.Layout.Left[0] = "time"

	b := DefaultConfig()
	assert.Equal(t, "Mon Jan 02 2006 15:04:05", b.ModuleConfigs["time"].Format)
	assert.Equal(t, "workspaces", b.Layout.Left[0])
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "mbar", cfg.AppName)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[bar]
width = "fit"
height = "24"
screen = "HDMI-A-1"
backend = "x11"

[style]
font = "Iosevka 12"

[layout]
left = ["workspaces"]
middle = []
right = ["time"]

[module_configs.time]
format = "15:04"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadAndValidateConfig(path)
	require.NoError(t, err)
	assert.Equal(t, geometry.Fit(), cfg.Bar.Width)
	assert.Equal(t, geometry.FixedSize(24), cfg.Bar.Height)
	assert.Equal(t, "HDMI-A-1", cfg.Bar.Screen)
	assert.Equal(t, "x11", cfg.Bar.Backend)
	assert.Equal(t, "Iosevka 12", cfg.Style.Font)
	assert.Equal(t, []string{"workspaces", "time"}, cfg.Layout.Modules())
	assert.Equal(t, "15:04", cfg.ModuleConfigs["time"].Format)

	// untouched keys keep their defaults
	assert.Equal(t, 50, cfg.Bar.PollInterval)
	assert.Equal(t, "#0e1419", cfg.Style.Colors.Background)
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bar]\nwidth = \"wide\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"poll interval", func(c *Config) { c.Bar.PollInterval = 0 }},
		{"max wait", func(c *Config) { c.Bar.MaxWait = 5000 }},
		{"zero width", func(c *Config) { c.Bar.Width = geometry.FixedSize(0) }},
		{"backend", func(c *Config) { c.Bar.Backend = "wayfire" }},
		{"font", func(c *Config) { c.Style.Font = " " }},
		{"margin", func(c *Config) { c.Style.Margin = -1 }},
		{"color", func(c *Config) { c.Style.Colors.Foreground = "red" }},
		{"unknown module", func(c *Config) { c.Layout.Right = append(c.Layout.Right, "battery") }},
		{"duplicate module", func(c *Config) { c.Layout.Middle = []string{"time"} }},
		{"unknown module config", func(c *Config) { c.ModuleConfigs["battery"] = ModuleConfig{} }},
		{"max length", func(c *Config) { c.ModuleConfigs["title"] = ModuleConfig{MaxLength: -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestUIStyle(t *testing.T) {
	cfg := DefaultConfig()
	style, err := cfg.UIStyle()
	require.NoError(t, err)
	assert.Equal(t, "monospace 10", style.Font)
	assert.Equal(t, 2.0, style.Margin)
	assert.Equal(t, "#0e1419ff", style.Background.String())
	assert.Equal(t, "#ebdbb2ff", style.HighlightBg.String())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Bar.Height = geometry.FixedSize(30)
	cfg.Bar.Screen = "1"

	require.NoError(t, SaveConfig(&cfg, path))

	loaded, err := LoadAndValidateConfig(path)
	require.NoError(t, err)
	assert.Equal(t, geometry.FixedSize(30), loaded.Bar.Height)
	assert.Equal(t, "1", loaded.Bar.Screen)
	assert.Equal(t, cfg.Layout, loaded.Layout)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/etc/mbar.toml", ExpandPath("/etc/mbar.toml"))
	assert.NotContains(t, ExpandPath("~/x.toml"), "~")
}

func TestModuleConfigToMap(t *testing.T) {
	mc := ModuleConfig{Format: "15:04", Properties: map[string]interface{}{"label": "clock"}}
	m := mc.ToMap()
	assert.Equal(t, "15:04", m["format"])
	assert.Equal(t, "clock", m["label"])
	_, ok := m["max_length"]
	assert.False(t, ok)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[style]\nfont = \"a 10\"\n"), 0644))

	changes := make(chan *Config, 4)
	w := NewWatcher(path, func(c *Config) { changes <- c }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("[style]\nfont = \"invalid\"\nmargin = 500\n"), 0644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[style]\nfont = \"b 12\"\n"), 0644))

	timeout := time.After(2 * time.Second)
	for font := ""; font != "b 12"; {
		select {
		case c := <-changes:
			assert.NotEqual(t, "invalid", c.Style.Font, "invalid configs are not applied")
			font = c.Style.Font
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
