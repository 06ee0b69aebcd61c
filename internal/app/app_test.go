package app

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/easymouse/internal/backend"
	"github.com/dshills/easymouse/internal/config"
	"github.com/dshills/easymouse/internal/plugin/lua"
)

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()

	app, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	sim := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(60, 20)
	if err := app.SetTerminal(term); err != nil {
		t.Fatalf("SetTerminal() failed: %v", err)
	}

	t.Cleanup(app.Shutdown)
	return app
}

func mouseAt(t *testing.T, app *Application, x, y int, mask tcell.ButtonMask) {
	t.Helper()
	if err := app.handleEvent(tcell.NewEventMouse(x, y, mask, tcell.ModNone)); err != nil {
		t.Fatalf("handleEvent() = %v", err)
	}
}

func mustWidget(t *testing.T, app *Application, name string) *Widget {
	t.Helper()
	w, ok := app.Widget(name)
	if !ok {
		t.Fatalf("widget %q not found", name)
	}
	return w
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.lua")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewUsesDefaultWidgets(t *testing.T) {
	app := newTestApp(t, config.Default())

	if got := len(app.Widgets()); got != 4 {
		t.Errorf("expected 4 default widgets, got %d", got)
	}
	if app.registry.Len() != 4 {
		t.Errorf("expected 4 registered callbacks, got %d", app.registry.Len())
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false before Run()")
	}
}

func TestNewRejectsInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easymouse.toml")
	if err := os.WriteFile(path, []byte("[mouse]\ndrag_threshold = -4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{ConfigPath: path})
	if err == nil {
		t.Fatal("expected error")
	}
	var cerr *ComponentError
	if !errors.As(err, &cerr) || cerr.Component != "config" {
		t.Errorf("error = %v, want config ComponentError", err)
	}
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("error = %v, want ErrValidationFailed", err)
	}
}

func TestNewWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easymouse.yaml")
	src := `
mouse:
  drag_threshold: 5
widgets:
  - name: only
    left: 0
    top: 0
    right: 10
    bottom: 5
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := New(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Shutdown()

	if len(app.Widgets()) != 1 {
		t.Errorf("expected 1 widget, got %d", len(app.Widgets()))
	}
	if app.machine.Config().DragThreshold != 5 {
		t.Errorf("DragThreshold = %d, want 5", app.machine.Config().DragThreshold)
	}
	if app.reloader == nil {
		t.Error("expected a config reloader for a file-backed config")
	}
}

func TestClickIsConsumed(t *testing.T) {
	app := newTestApp(t, config.Default())
	ok := mustWidget(t, app, "ok")

	mouseAt(t, app, 5, 4, tcell.ButtonPrimary)
	mouseAt(t, app, 5, 4, tcell.ButtonNone)

	if ok.Received != 3 {
		t.Errorf("Received = %d, want 3 (down, up, click)", ok.Received)
	}
	if ok.Unhandled != 2 {
		t.Errorf("Unhandled = %d, want 2", ok.Unhandled)
	}
	if want := "click left x1 at (3,2) [abort]"; ok.Last != want {
		t.Errorf("Last = %q, want %q", ok.Last, want)
	}
}

func TestTopmostWidgetWins(t *testing.T) {
	app := newTestApp(t, config.Default())

	mouseAt(t, app, 32, 13, tcell.ButtonPrimary)

	if got := mustWidget(t, app, "popup").Received; got != 1 {
		t.Errorf("popup Received = %d, want 1", got)
	}
	if got := mustWidget(t, app, "canvas").Received; got != 0 {
		t.Errorf("canvas Received = %d, want 0", got)
	}
}

func TestLegacyDragRepeats(t *testing.T) {
	app := newTestApp(t, config.Default())
	cancel := mustWidget(t, app, "cancel")

	mouseAt(t, app, 30, 4, tcell.ButtonPrimary)
	mouseAt(t, app, 40, 4, tcell.ButtonPrimary)

	if app.Router().Pending() != 1 {
		t.Fatalf("Pending = %d, want 1 after drag", app.Router().Pending())
	}

	if err := app.handleEvent(tcell.NewEventInterrupt(tickEvent{})); err != nil {
		t.Fatalf("handleEvent() = %v", err)
	}
	if cancel.Received != 3 {
		t.Errorf("Received = %d, want 3 after tick", cancel.Received)
	}

	mouseAt(t, app, 40, 4, tcell.ButtonNone)
	if app.Router().Pending() != 0 {
		t.Errorf("Pending = %d, want 0 after release", app.Router().Pending())
	}
	if cancel.Received != 5 {
		t.Errorf("Received = %d, want 5", cancel.Received)
	}
	if !strings.HasPrefix(cancel.Last, "click") {
		t.Errorf("Last = %q, want a click", cancel.Last)
	}
}

func TestFocusLossCancelsPress(t *testing.T) {
	app := newTestApp(t, config.Default())
	ok := mustWidget(t, app, "ok")

	mouseAt(t, app, 5, 4, tcell.ButtonPrimary)
	if err := app.handleEvent(tcell.NewEventFocus(false)); err != nil {
		t.Fatalf("handleEvent() = %v", err)
	}
	if n := len(app.machine.Active()); n != 0 {
		t.Errorf("Active = %d presses after focus loss, want 0", n)
	}

	mouseAt(t, app, 5, 4, tcell.ButtonNone)
	if ok.Received != 1 {
		t.Errorf("Received = %d, want only the down", ok.Received)
	}
}

func TestQuitKeys(t *testing.T) {
	app := newTestApp(t, config.Default())

	tests := []struct {
		name string
		ev   *tcell.EventKey
		quit bool
	}{
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"x", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
	}
	for _, tt := range tests {
		err := app.handleEvent(tt.ev)
		if got := errors.Is(err, ErrQuit); got != tt.quit {
			t.Errorf("%s: quit = %v, want %v", tt.name, got, tt.quit)
		}
	}
}

func TestApplyReload(t *testing.T) {
	app := newTestApp(t, config.Default())

	next := config.Default()
	next.Mouse.DragThreshold = 9
	next.Mouse.RepeatInterval = config.Duration(250 * time.Millisecond)
	next.Logging.Level = "debug"
	app.applyReload(next, nil)

	if got := app.machine.Config().DragThreshold; got != 9 {
		t.Errorf("DragThreshold = %d, want 9", got)
	}
	if got := app.repeatInterval(); got != 250*time.Millisecond {
		t.Errorf("repeatInterval = %v, want 250ms", got)
	}
	if got := app.level.Level(); got != slog.LevelDebug {
		t.Errorf("level = %v, want debug", got)
	}

	app.applyReload(nil, errors.New("broken file"))
	if got := app.machine.Config().DragThreshold; got != 9 {
		t.Errorf("failed reload changed DragThreshold to %d", got)
	}
}

func TestScriptedWidget(t *testing.T) {
	script := writeScript(t, `
mouse.set_callback("ok", function(name, msg, ev)
	if msg == mouse.DOWN then
		return true
	end
end)`)

	cfg := config.Default()
	cfg.Widgets = []config.WidgetConfig{
		{Name: "ok", Left: 2, Top: 2, Right: 22, Bottom: 7, Script: script},
	}
	app := newTestApp(t, cfg)
	ok := mustWidget(t, app, "ok")

	cb, found := app.registry.Lookup(ok.ID)
	if !found {
		t.Fatal("no callback installed")
	}
	if _, isLua := cb.(*lua.Callback); !isLua {
		t.Errorf("callback is %T, want *lua.Callback", cb)
	}

	mouseAt(t, app, 5, 4, tcell.ButtonPrimary)
	mouseAt(t, app, 5, 4, tcell.ButtonNone)

	if ok.Received != 3 || ok.Unhandled != 2 {
		t.Errorf("Received/Unhandled = %d/%d, want 3/2", ok.Received, ok.Unhandled)
	}
	if ok.kind() != " (lua)" {
		t.Errorf("kind = %q, want lua", ok.kind())
	}
}

func TestBrokenScriptKeepsBuiltin(t *testing.T) {
	cfg := config.Default()
	cfg.Widgets = []config.WidgetConfig{
		{Name: "ok", Left: 2, Top: 2, Right: 22, Bottom: 7, Script: filepath.Join(t.TempDir(), "missing.lua")},
	}
	app := newTestApp(t, cfg)
	ok := mustWidget(t, app, "ok")

	if ok.scripted {
		t.Error("widget marked scripted after a failed load")
	}
	if _, found := app.registry.Lookup(ok.ID); !found {
		t.Error("built-in callback missing")
	}
}

func TestDrawShowsWidgets(t *testing.T) {
	app := newTestApp(t, config.Default())

	app.draw()

	if got := app.term.CellAt(0, 0); got != 'e' {
		t.Errorf("title cell = %q, want 'e'", got)
	}
	if got := app.term.CellAt(2, 2); got != tcell.RuneULCorner {
		t.Errorf("ok corner = %q, want %q", got, tcell.RuneULCorner)
	}
	if got := app.term.CellAt(3, 3); got != 'O' {
		t.Errorf("ok label = %q, want 'O'", got)
	}
}

func TestRun(t *testing.T) {
	app, err := New(Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Shutdown()

	if err := app.Run(); !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("Run() without terminal = %v, want ErrNoTerminal", err)
	}

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := app.SetTerminal(backend.NewTerminalWithScreen(sim)); err != nil {
		t.Fatalf("SetTerminal() failed: %v", err)
	}

	result := make(chan error, 1)
	go func() { result <- app.Run() }()

	select {
	case <-app.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("application never became ready")
	}

	sim.InjectMouse(5, 4, tcell.ButtonPrimary, tcell.ModNone)
	sim.InjectMouse(5, 4, tcell.ButtonNone, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after q")
	}

	if got := mustWidget(t, app, "ok").Received; got != 3 {
		t.Errorf("Received = %d, want 3", got)
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false after Run()")
	}
}

func TestShutdownIdempotent(t *testing.T) {
	app, err := New(Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// Should be safe to call multiple times
	app.Shutdown()
	app.Shutdown()
}

func TestRunAfterShutdown(t *testing.T) {
	app, err := New(Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := app.SetTerminal(backend.NewTerminalWithScreen(tcell.NewSimulationScreen("UTF-8"))); err != nil {
		t.Fatalf("SetTerminal() failed: %v", err)
	}

	// A signal arriving before Run must still stop the application.
	app.Shutdown()

	result := make(chan error, 1)
	go func() { result <- app.Run() }()

	select {
	case err := <-result:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("Run() after Shutdown = %v, want ErrQuit", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() started after Shutdown")
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false")
	}
}
