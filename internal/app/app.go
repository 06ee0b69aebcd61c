// Package app wires the mouse pipeline, the terminal and widget scripts
// into the easymouse demo application.
package app

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/easymouse/internal/backend"
	"github.com/dshills/easymouse/internal/config"
	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/logging"
	"github.com/dshills/easymouse/internal/plugin/lua"
	"github.com/dshills/easymouse/internal/widget"
)

// Application owns one event loop: the widget layout, the mouse pipeline
// and the terminal it reads from.
type Application struct {
	mu sync.Mutex

	opts Options
	cfg  *config.Config

	logger  *slog.Logger
	level   *slog.LevelVar
	logFile *os.File

	// Widgets
	layout  *widget.Layout
	widgets []*Widget
	byName  map[string]*Widget
	byID    map[widget.ID]*Widget

	// Mouse pipeline
	registry   *mouse.Registry
	machine    *mouse.Machine
	dispatcher *mouse.Dispatcher
	router     *mouse.Router
	translator *backend.Translator
	scripts    *lua.Host

	term     *backend.Terminal
	reloader *config.Reloader

	// tickInterval is read by the tick goroutine.
	tickInterval atomic.Int64

	// State
	running      atomic.Bool
	stopped      bool // guarded by mu
	ready        chan struct{}
	done         chan struct{} // guarded by mu
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. An empty path
	// uses the built-in defaults.
	ConfigPath string

	// Config is used instead of loading ConfigPath when set. Hot reload
	// is disabled in that case.
	Config *config.Config

	// LogLevel overrides logging.level when not empty.
	LogLevel string

	// LogOutput overrides logging.file. Without either, logs are
	// discarded because the terminal belongs to the UI.
	LogOutput io.Writer
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		byName: make(map[string]*Widget),
		byID:   make(map[widget.ID]*Widget),
		ready:  make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg := app.opts.Config
	if cfg == nil {
		loaded, err := config.Load(app.opts.ConfigPath)
		if err != nil {
			return &ComponentError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	app.cfg = cfg

	// 2. Logging
	if err := app.setupLogging(); err != nil {
		return &ComponentError{Component: "logging", Err: err}
	}
	for _, name := range config.UnknownEnv() {
		app.logger.Warn("unknown environment variable", "name", name)
	}

	// 3. Widgets
	specs := cfg.Widgets
	if len(specs) == 0 {
		specs = defaultWidgets()
	}
	app.layout = widget.NewLayout()
	for _, spec := range specs {
		w := &Widget{
			ID:      widget.NewID(),
			Name:    spec.Name,
			Label:   spec.Label,
			Region:  spec.Rect(),
			Z:       spec.Z,
			handler: spec.Handler,
		}
		if w.Label == "" {
			w.Label = w.Name
		}
		app.layout.Add(w.ID, w.Region, w.Z)
		app.widgets = append(app.widgets, w)
		app.byName[w.Name] = w
		app.byID[w.ID] = w
	}

	// 4. Mouse pipeline
	app.registry = mouse.NewRegistry()
	app.machine = mouse.NewMachine(app.layout, cfg.MouseSettings())
	app.dispatcher = mouse.NewDispatcher(app.registry,
		mouse.WithDispatchLogger(app.logger))
	app.router = mouse.NewRouter(app.machine, app.dispatcher,
		mouse.WithFallback(app.fallback),
		mouse.WithObserver(app.observe),
		mouse.WithRouterLogger(app.logger))
	app.translator = backend.NewTranslator()
	app.tickInterval.Store(int64(cfg.MouseSettings().RepeatInterval))

	// 5. Callbacks: built-ins first, scripts replace them
	for _, w := range app.widgets {
		app.registry.Install(w.ID, builtinCallback(w.handler))
	}
	app.scripts = lua.NewHost(app.registry, app.resolve,
		lua.WithHostLogger(app.logger.With("component", "lua")))
	for _, spec := range specs {
		if spec.Script == "" {
			continue
		}
		if err := app.scripts.LoadFile(spec.Script); err != nil {
			// Non-fatal: the widget keeps its built-in callback
			app.logger.Warn("widget script failed", "widget", spec.Name, "error", err)
			continue
		}
		app.byName[spec.Name].scripted = true
	}

	// 6. Config reload
	if app.opts.Config == nil && app.opts.ConfigPath != "" {
		r, err := config.NewReloader(app.opts.ConfigPath, app.logger)
		if err != nil {
			app.logger.Warn("config watcher unavailable", "error", err)
		} else {
			app.reloader = r
		}
	}

	app.logger.Info("application initialized",
		"widgets", len(app.widgets),
		"scripts", len(app.scripts.Installed()))

	return nil
}

func (app *Application) setupLogging() error {
	lc := app.cfg.Logging
	if app.opts.LogLevel != "" {
		lc.Level = app.opts.LogLevel
	}

	out := app.opts.LogOutput
	if out == nil && lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	}
	if out == nil {
		out = io.Discard
	}

	logger, level, err := logging.New(logging.Options{
		Level:  lc.Level,
		Format: lc.Format,
		Output: out,
	})
	if err != nil {
		return err
	}
	app.logger = logger
	app.level = level
	return nil
}

// resolve maps a script's widget name to its ID.
func (app *Application) resolve(name string) (widget.ID, bool) {
	w, ok := app.byName[name]
	if !ok {
		return widget.Nil, false
	}
	return w.ID, true
}

// observe records every delivered message on its widget.
func (app *Application) observe(id widget.ID, ev mouse.Event) {
	w, ok := app.byID[id]
	if !ok {
		return
	}
	w.Received++
	w.Last = ev.String()
	if ev.Result.Abort {
		w.Last += " [abort]"
	}
	if ev.Result.Repeat {
		w.Last += " [repeat]"
	}
}

// fallback is the default handling for messages a callback did not abort.
func (app *Application) fallback(id widget.ID, ev mouse.Event) {
	if w, ok := app.byID[id]; ok {
		w.Unhandled++
	}
}

// Widget returns the widget with the given name.
func (app *Application) Widget(name string) (*Widget, bool) {
	w, ok := app.byName[name]
	return w, ok
}

// Widgets returns all widgets in declaration order.
func (app *Application) Widgets() []*Widget {
	return app.widgets
}

// Router returns the mouse router.
func (app *Application) Router() *mouse.Router {
	return app.router
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// SetTerminal sets the terminal the event loop reads from.
func (app *Application) SetTerminal(t *backend.Terminal) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.term = t
	return nil
}

// IsRunning returns true while Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Ready is closed once Run has initialized the terminal and drawn the
// first frame.
func (app *Application) Ready() <-chan struct{} {
	return app.ready
}

// Shutdown stops the event loop and releases all resources. It is safe
// to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.mu.Lock()
		app.stopped = true
		done := app.done
		app.mu.Unlock()

		if app.term != nil {
			app.term.Shutdown()
		}
		if done != nil {
			<-done
		}

		if app.reloader != nil {
			_ = app.reloader.Close()
		}
		if app.scripts != nil {
			_ = app.scripts.Close()
		}
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}
