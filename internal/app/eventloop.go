package app

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/easymouse/internal/config"
	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/logging"
)

// Interrupt payloads posted to the event loop by background goroutines.
type (
	tickEvent   struct{}
	reloadEvent struct {
		cfg *config.Config
		err error
	}
)

// Run initializes the terminal and processes events until the user quits
// or Shutdown is called. Every mouse callback runs on this goroutine.
func (app *Application) Run() error {
	if app.term == nil {
		return ErrNoTerminal
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	defer app.running.Store(false)

	// Shutdown and terminal start-up are serialized: either Shutdown ran
	// first and Run stops here, or the terminal is live when Shutdown
	// finalizes it, which unblocks PollEvent.
	app.mu.Lock()
	if app.stopped {
		app.mu.Unlock()
		return ErrQuit
	}
	done := make(chan struct{})
	app.done = done
	defer close(done)
	err := app.term.Init()
	app.mu.Unlock()
	if err != nil {
		return &ComponentError{Component: "terminal", Err: err}
	}
	defer app.term.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		app.wg.Wait()
	}()
	app.startBackground(ctx)

	app.draw()
	close(app.ready)

	for {
		ev := app.term.PollEvent()
		if ev == nil {
			// Screen finalized by Shutdown
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// startBackground launches the repeat ticker and the config watcher.
func (app *Application) startBackground(ctx context.Context) {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.tickLoop(ctx)
	}()

	if app.reloader == nil {
		return
	}
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		err := app.reloader.Run(ctx, func(cfg *config.Config, err error) {
			app.post(reloadEvent{cfg: cfg, err: err})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Warn("config watcher stopped", "error", err)
		}
	}()
}

// tickLoop posts a tick at the repeat interval. The interval is re-read
// after every tick so reloads take effect.
func (app *Application) tickLoop(ctx context.Context) {
	interval := app.repeatInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.post(tickEvent{})
			if next := app.repeatInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

func (app *Application) repeatInterval() time.Duration {
	d := time.Duration(app.tickInterval.Load())
	if d <= 0 {
		return mouse.DefaultConfig().RepeatInterval
	}
	return d
}

// post hands data to the event loop.
func (app *Application) post(data any) {
	if err := app.term.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		// best-effort; ticks are periodic and reloads recur on the next save
		app.logger.Debug("event queue full", "error", err)
	}
}

// handleEvent processes one terminal event and redraws.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(e)
	case *tcell.EventMouse:
		app.handleMouse(e)
	case *tcell.EventFocus:
		app.handleFocus(e)
	case *tcell.EventResize:
		app.term.Sync()
	case *tcell.EventInterrupt:
		if !app.handleInterrupt(e.Data()) {
			return nil
		}
	default:
		return nil
	}

	app.draw()
	return nil
}

func (app *Application) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return ErrQuit
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return ErrQuit
		}
	}
	return nil
}

func (app *Application) handleMouse(ev *tcell.EventMouse) {
	for _, raw := range app.translator.Translate(ev) {
		app.router.Handle(raw)
	}
}

// handleFocus abandons every press when the terminal loses focus; the
// matching releases will never arrive.
func (app *Application) handleFocus(ev *tcell.EventFocus) {
	if ev.Focused {
		return
	}
	app.router.Cancel()
	app.translator.Reset()
	app.logger.Debug("focus lost, mouse state cancelled")
}

// handleInterrupt applies a background event. It reports whether the
// screen needs a redraw.
func (app *Application) handleInterrupt(data any) bool {
	switch d := data.(type) {
	case tickEvent:
		if app.router.Pending() == 0 {
			return false
		}
		app.router.Tick()
		return true
	case reloadEvent:
		app.applyReload(d.cfg, d.err)
		return true
	default:
		return false
	}
}

// applyReload switches to new thresholds and log level. Widgets and
// scripts are only read at startup.
func (app *Application) applyReload(cfg *config.Config, err error) {
	if err != nil {
		app.logger.Warn("config reload failed, keeping previous settings", "error", err)
		return
	}

	app.machine.SetConfig(cfg.MouseSettings())
	app.tickInterval.Store(int64(cfg.MouseSettings().RepeatInterval))

	if app.opts.LogLevel == "" {
		if lvl, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
			app.level.Set(lvl)
		}
	}

	app.cfg.Mouse = cfg.Mouse
	app.cfg.Logging.Level = cfg.Logging.Level

	app.logger.Info("config reloaded",
		"double_click_interval", cfg.Mouse.DoubleClickInterval.Std(),
		"drag_threshold", cfg.Mouse.DragThreshold,
		"position_tolerance", cfg.Mouse.PositionTolerance)
}
