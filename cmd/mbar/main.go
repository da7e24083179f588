package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/chess10kp/mbar/internal/config"
	"github.com/chess10kp/mbar/internal/core"
	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/gtkui"
	"github.com/chess10kp/mbar/internal/logging"
)

func init() {
	// GTK must only be touched from the thread that initialized it
	runtime.LockOSThread()
}

type options struct {
	verbose    int
	quiet      int
	screen     string
	width      geometry.SizePolicy
	height     geometry.SizePolicy
	configPath string
	backend    string
}

func newRootCmd(exitCode *int) (*cobra.Command, *options) {
	opts := &options{
		width:  geometry.Screen(),
		height: geometry.Fit(),
	}

	cmd := &cobra.Command{
		Use:   "mbar",
		Short: "A status bar that sizes itself to its content",
		Long: `mbar shows workspaces, the focused window and a clock in a borderless
bar at the top of a monitor. It polls sway or any EWMH compliant X11
window manager and resizes itself to fit what it draws.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			*exitCode = run(cmd, opts)
			return nil
		},
	}

	flags := cmd.Flags()
	// -h is the height, so help only gets the long form
	flags.Bool("help", false, "help for mbar")
	flags.CountVarP(&opts.verbose, "verbose", "v", "log more (repeatable)")
	flags.CountVarP(&opts.quiet, "quiet", "q", "log less (repeatable)")
	flags.StringVarP(&opts.screen, "screen", "s", "", "monitor index or name (default: primary monitor)")
	flags.VarP(&opts.width, "width", "w", "bar width: screen, fit or pixels")
	flags.VarP(&opts.height, "height", "h", "bar height: screen, fit or pixels")
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file")
	flags.StringVar(&opts.backend, "backend", "", "window manager backend: auto, sway or x11")

	return cmd, opts
}

func run(cmd *cobra.Command, opts *options) int {
	logger := logging.Setup(opts.verbose - opts.quiet)

	cfg, err := config.LoadAndValidateConfig(opts.configPath)
	if err != nil {
		logger.Error("Failed to load config", "path", opts.configPath, "error", err)
		return 1
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid options", "error", err)
		return 1
	}

	if cfg.PidFile != "" {
		inst, err := core.AcquireInstance(cfg.PidFile, logger)
		if err != nil {
			logger.Warn("Running without a pid file", "error", err)
		} else {
			defer inst.Release()
		}
	}

	app, err := core.NewApp(core.Options{
		Config:        cfg,
		ConfigPath:    opts.configPath,
		Screen:        geometry.ParseTarget(opts.screen),
		Platform:      gtkui.NewPlatform(logger),
		Logger:        logger,
		HandleSignals: true,
	})
	if err != nil {
		logger.Error("Failed to create application", "error", err)
		return 1
	}

	logger.Info("mbar starting", "width", cfg.Bar.Width, "height", cfg.Bar.Height, "backend", cfg.Bar.Backend)
	code := app.Run()
	slog.Debug("mbar exiting", "code", code)
	return code
}

// applyFlags lets explicitly given flags override the config file
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Bar.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Bar.Height = opts.height
	}
	if flags.Changed("backend") {
		cfg.Bar.Backend = opts.backend
	}
	if opts.screen == "" {
		opts.screen = cfg.Bar.Screen
	}
}

func main() {
	exitCode := 0
	cmd, _ := newRootCmd(&exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
