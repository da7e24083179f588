package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chess10kp/mbar/internal/config"
	"github.com/chess10kp/mbar/internal/geometry"
)

func parse(t *testing.T, args ...string) (*options, *config.Config) {
	t.Helper()
	code := 0
	cmd, opts := newRootCmd(&code)
	require.NoError(t, cmd.ParseFlags(args))

	cfg := config.DefaultConfig()
	cfg.Bar.Width = geometry.FixedSize(500)
	cfg.Bar.Screen = "1"
	applyFlags(cmd, opts, &cfg)
	return opts, &cfg
}

func TestFlagsOverrideConfig(t *testing.T) {
	opts, cfg := parse(t, "-w", "fit", "-h", "24", "-s", "DP-2", "--backend", "sway", "-vv", "-q")

	assert.Equal(t, geometry.Fit(), cfg.Bar.Width)
	assert.Equal(t, geometry.FixedSize(24), cfg.Bar.Height)
	assert.Equal(t, "sway", cfg.Bar.Backend)
	assert.Equal(t, "DP-2", opts.screen)
	assert.Equal(t, 1, opts.verbose-opts.quiet)
}

func TestConfigUsedWithoutFlags(t *testing.T) {
	opts, cfg := parse(t)

	assert.Equal(t, geometry.FixedSize(500), cfg.Bar.Width)
	assert.Equal(t, geometry.Fit(), cfg.Bar.Height)
	assert.Equal(t, "1", opts.screen, "screen falls back to the config")
}

func TestInvalidSizeFlag(t *testing.T) {
	code := 0
	cmd, _ := newRootCmd(&code)
	assert.Error(t, cmd.ParseFlags([]string{"--height", "tall"}))
}

func TestHelpHasNoShorthand(t *testing.T) {
	code := 0
	cmd, _ := newRootCmd(&code)
	require.NoError(t, cmd.ParseFlags([]string{"-h", "fit"}))
	assert.Equal(t, "fit", cmd.Flags().Lookup("height").Value.String())
	assert.Empty(t, cmd.Flags().Lookup("help").Shorthand)
}
