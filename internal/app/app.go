package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/five82/xivoverlay/internal/config"
	"github.com/five82/xivoverlay/internal/dispatch"
	"github.com/five82/xivoverlay/internal/display"
	"github.com/five82/xivoverlay/internal/layout"
	"github.com/five82/xivoverlay/internal/logging"
	"github.com/five82/xivoverlay/internal/overlay"
	"github.com/five82/xivoverlay/internal/prefs"
	"github.com/five82/xivoverlay/internal/state"
	"github.com/five82/xivoverlay/internal/ui"
)

// Options configure the overlay manager.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/xiv-overlay/prefs.toml
	Headless   bool   // keep windows in memory instead of spawning renderers
}

// Runtime is a started manager: the dispatcher is consuming actions, active
// overlays have been queued for resume and the layouts directory is watched.
type Runtime struct {
	Config     config.Config
	Prefs      prefs.Prefs
	Logger     *slog.Logger
	Layouts    *layout.Store
	State      *state.Store
	Dispatcher *dispatch.Dispatcher

	thread    *display.Thread
	logFile   io.Closer
	cancel    context.CancelFunc
	watchDone chan struct{}
	closeOnce sync.Once
}

// Start loads configuration, opens the log and the layouts directory and
// starts the dispatcher. Any error here is fatal.
func Start(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	layouts, err := layout.NewStore(cfg.LayoutsDir, logger)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	thread := display.NewThread()
	var screen display.Display
	if opts.Headless {
		screen = display.NewHeadless(logger)
	} else {
		screen = &display.Process{
			Command: cfg.Renderer.Command,
			Args:    cfg.Renderer.Args,
			Logger:  logger,
		}
	}

	clock := clockwork.NewRealClock()
	windows := overlay.NewController(screen, thread, logger)
	view := state.NewStore(clock)
	dispatcher := dispatch.New(layouts, windows, view, logger)
	windows.SetOnClosed(func(name, windowID string) {
		dispatcher.Submit(dispatch.WindowClosed{Name: name, WindowID: windowID})
	})

	runCtx, cancel := context.WithCancel(ctx)
	go dispatcher.Run(runCtx)

	rt := &Runtime{
		Config:     cfg,
		Prefs:      prefs.Load(opts.PrefsPath),
		Logger:     logger,
		Layouts:    layouts,
		State:      view,
		Dispatcher: dispatcher,
		thread:     thread,
		logFile:    logFile,
		cancel:     cancel,
		watchDone:  make(chan struct{}),
	}

	watcher, err := NewWatcher(layouts.Dir(), clock, logger)
	if err != nil {
		logger.Warn("layouts directory not watched", "dir", layouts.Dir(), "error", err)
		close(rt.watchDone)
	} else {
		go func() {
			defer close(rt.watchDone)
			watcher.Run(runCtx, func() {
				dispatcher.Submit(dispatch.LoadOverlaysList{})
			})
		}()
	}

	logger.Info("xivoverlay started", "layouts_dir", layouts.Dir(), "headless", opts.Headless,
		"renderer", cfg.Renderer.Command)
	dispatcher.Submit(dispatch.ResumeActive{})
	return rt, nil
}

// Close stops the dispatcher, which closes every window, then releases the
// display thread and the log file. Persisted state is left as is so active
// overlays come back on the next start.
func (rt *Runtime) Close() {
	rt.closeOnce.Do(func() {
		rt.cancel()
		<-rt.Dispatcher.Done()
		<-rt.watchDone
		rt.thread.Stop()
		rt.Logger.Info("xivoverlay stopped")
		_ = rt.logFile.Close()
	})
}

// Run boots the manager and its TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Start(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	return ui.Run(ui.Options{
		Context:      ctx,
		State:        rt.State,
		Actions:      rt.Dispatcher,
		ThemeName:    rt.Prefs.Theme,
		ShowInactive: rt.Prefs.ShowInactive,
		PrefsPath:    prefsPath,
		LogPath:      rt.Config.LogFile,
		LayoutsDir:   rt.Layouts.Dir(),
		Logger:       rt.Logger,
	})
}
