// Package core assembles the bar: it picks the monitor, connects to the
// window manager, creates the surface and runs the render loop alongside
// the control socket and the config watcher.
package core

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sourcegraph/conc"

	"github.com/chess10kp/mbar/internal/bar"
	"github.com/chess10kp/mbar/internal/bridge"
	"github.com/chess10kp/mbar/internal/config"
	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/logging"
	"github.com/chess10kp/mbar/internal/sizing"
	"github.com/chess10kp/mbar/internal/statusbar"
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

// Platform is the windowing backend
type Platform interface {
	Monitors() ([]geometry.Monitor, error)
	NewSurface(opts bar.SurfaceOptions) (bar.Surface, error)
	Measurer() ui.Measurer
	// Run calls fn with the backend's event loop running and returns its
	// result
	Run(fn func() int) int
}

// Options configures an App
type Options struct {
	Config *config.Config
	// ConfigPath is watched for changes and re-read on "reload". Empty
	// disables both.
	ConfigPath string
	Screen     geometry.Target
	Platform   Platform
	// Connect defaults to ConnectWM
	Connect ConnectFunc
	Logger  *slog.Logger
	// HandleSignals turns SIGINT and SIGTERM into a close request
	HandleSignals bool
}

// App is the main application
type App struct {
	config     *config.Config
	configPath string
	screen     geometry.Target
	platform   Platform
	connect    ConnectFunc
	logger     *slog.Logger
	signals    bool

	// set up by run and only touched on the render loop afterwards
	queue     *bar.Queue
	statusBar *statusbar.StatusBar
	toolkit   *ui.Toolkit
	scheduler *bar.Scheduler
}

// NewApp creates a new application
func NewApp(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("no config given")
	}
	if opts.Platform == nil {
		return nil, errors.New("no platform given")
	}
	connect := opts.Connect
	if connect == nil {
		connect = ConnectWM
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		screen:     opts.Screen,
		platform:   opts.Platform,
		connect:    connect,
		logger:     logger,
		signals:    opts.HandleSignals,
		queue:      bar.NewQueue(),
	}, nil
}

// Run starts the application and returns the process exit code
func (a *App) Run() int {
	return a.platform.Run(a.run)
}

func (a *App) run() int {
	cfg := a.config

	monitors, err := a.platform.Monitors()
	if err != nil {
		a.logger.Error("Failed to list monitors", "error", err)
		return 1
	}
	monitor, err := geometry.SelectMonitor(monitors, a.screen)
	if err != nil {
		a.logger.Error("Cannot place the bar", "error", err)
		return 1
	}
	geo := geometry.Resolve(monitor, cfg.Bar.Width, cfg.Bar.Height)
	a.logger.Info("Monitor selected", "monitor", monitor.Name, "index", monitor.Index,
		"screen", geometry.Size{Width: monitor.Width, Height: monitor.Height}, "geometry", geo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := a.connect(ctx, cfg.Bar.Backend)
	if err != nil {
		a.logger.Error("Failed to connect to the window manager", "backend", cfg.Bar.Backend, "error", err)
		return 1
	}
	defer client.Close()

	sb, err := statusbar.New(cfg, a.logger)
	if err != nil {
		a.logger.Error("Failed to load modules", "error", err)
		return 1
	}
	defer sb.Close()
	a.statusBar = sb

	style, err := cfg.UIStyle()
	if err != nil {
		a.logger.Error("Invalid style", "error", err)
		return 1
	}
	a.toolkit = ui.NewToolkit(ui.NewCachedMeasurer(a.platform.Measurer(), 0), style)

	surface, err := a.platform.NewSurface(bar.SurfaceOptions{
		Title:    cfg.AppName,
		Monitor:  monitor,
		Geometry: geo,
		Events:   a.queue,
	})
	if err != nil {
		a.logger.Error("Failed to create surface", "error", err)
		return 1
	}

	slot := bridge.NewSlot[wm.DesktopState]()
	source := bridge.New(client, slot,
		bridge.WithInterval(cfg.PollInterval()),
		bridge.WithLogger(logging.Component(a.logger, backendName(cfg.Bar.Backend))),
	)
	a.scheduler = bar.NewScheduler(a.toolkit, surface, sizing.NewEngine(geo), sb.Draw, cfg.MaxWait(), a.logger)
	controller := bar.NewController(bar.ControllerConfig{
		Scheduler: a.scheduler,
		Toolkit:   a.toolkit,
		Surface:   surface,
		Queue:     a.queue,
		Slot:      slot,
		Source:    source,
		Logger:    a.logger,
	})

	var services conc.WaitGroup
	defer services.Wait()
	defer cancel()
	a.startServices(ctx, &services)

	return controller.Run(ctx)
}

// startServices launches the helpers that feed the render loop through its
// queue. They stop when ctx is cancelled.
func (a *App) startServices(ctx context.Context, wg *conc.WaitGroup) {
	if a.signals {
		wg.Go(func() { a.watchSignals(ctx) })
	}

	if a.config.SocketPath != "" {
		ipc := NewIPCServer(a.config.SocketPath, a.HandleCommand, a.logger)
		if err := ipc.Start(ctx); err != nil {
			a.logger.Warn("Failed to start IPC server", "error", err)
		} else {
			wg.Go(func() {
				<-ctx.Done()
				ipc.Stop()
			})
		}
	}

	if a.configPath != "" {
		watcher := config.NewWatcher(a.configPath, a.requestApply, a.logger)
		wg.Go(func() {
			if err := watcher.Run(ctx); err != nil {
				a.logger.Warn("Config watcher stopped", "error", err)
			}
		})
	}
}

func (a *App) watchSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.logger.Info("Received signal", "signal", sig)
		a.queue.PushWindow(ui.WindowEvent{Kind: ui.CloseRequested})
	case <-ctx.Done():
	}
}

// HandleCommand runs an IPC command. It may be called from any goroutine.
func (a *App) HandleCommand(message string) {
	switch message {
	case CommandRedraw:
		a.queue.Push(bar.Wake{})
	case CommandQuit:
		a.queue.PushWindow(ui.WindowEvent{Kind: ui.CloseRequested})
	case CommandReload:
		if a.configPath == "" {
			a.logger.Warn("No config file to reload")
			return
		}
		cfg, err := config.LoadAndValidateConfig(a.configPath)
		if err != nil {
			a.logger.Error("Reload failed", "error", err)
			return
		}
		a.requestApply(cfg)
	default:
		a.queue.Push(bar.Invoke{Fn: func() {
			if !a.statusBar.HandleIPCMessage(message) {
				a.logger.Warn("Unknown IPC command", "message", strings.TrimSpace(message))
			}
		}})
	}
}

func (a *App) requestApply(cfg *config.Config) {
	a.queue.Push(bar.Invoke{Fn: func() { a.applyConfig(cfg) }})
}

// applyConfig swaps in a reloaded config's style, layout and module
// settings. The size policy, screen and backend keep their startup values.
func (a *App) applyConfig(cfg *config.Config) {
	style, err := cfg.UIStyle()
	if err != nil {
		a.logger.Error("Ignoring reloaded config", "error", err)
		return
	}
	if err := a.statusBar.Reconfigure(cfg); err != nil {
		a.logger.Error("Ignoring reloaded modules", "error", err)
		return
	}
	a.toolkit.SetStyle(style)
	a.scheduler.SetMaxWait(cfg.MaxWait())

	if cfg.Bar.Width != a.config.Bar.Width || cfg.Bar.Height != a.config.Bar.Height {
		a.logger.Info("Size policy changes take effect after a restart")
	}
	a.logger.Info("Config applied")
}
