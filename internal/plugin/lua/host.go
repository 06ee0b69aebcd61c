package lua

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/logging"
	"github.com/dshills/easymouse/internal/widget"
	lua "github.com/yuin/gopher-lua"
)

// Resolver maps a widget name used in scripts to its ID.
type Resolver func(name string) (widget.ID, bool)

// Host runs widget scripts and installs the callbacks they define.
type Host struct {
	state    *State
	registry *mouse.Registry
	resolve  Resolver
	logger   *slog.Logger

	installed map[widget.ID]string
	stateOpts []StateOption
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostLogger sets the logger for script output and callback errors.
func WithHostLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithStateOptions passes options to the underlying State.
func WithStateOptions(opts ...StateOption) HostOption {
	return func(h *Host) {
		h.stateOpts = append(h.stateOpts, opts...)
	}
}

// NewHost creates a host that installs callbacks into registry.
func NewHost(registry *mouse.Registry, resolve Resolver, opts ...HostOption) *Host {
	h := &Host{
		registry:  registry,
		resolve:   resolve,
		logger:    logging.Discard(),
		installed: make(map[widget.ID]string),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.state = NewState(h.stateOpts...)
	h.state.RegisterFunc("print", h.print)
	h.state.RegisterModule("mouse", map[string]lua.LGFunction{
		"set_callback":   h.setCallback,
		"clear_callback": h.clearCallback,
		"has":            has,
	}, moduleConstants())

	return h
}

func moduleConstants() map[string]lua.LValue {
	return map[string]lua.LValue{
		"DOWN":        lua.LNumber(mouse.MsgDown),
		"UP":          lua.LNumber(mouse.MsgUp),
		"CLICK":       lua.LNumber(mouse.MsgClick),
		"DRAG":        lua.LNumber(mouse.MsgDrag),
		"MOVE":        lua.LNumber(mouse.MsgMove),
		"SCROLL_UP":   lua.LNumber(mouse.MsgScrollUp),
		"SCROLL_DOWN": lua.LNumber(mouse.MsgScrollDown),
		"LEFT":        lua.LNumber(mouse.ButtonLeft),
		"MIDDLE":      lua.LNumber(mouse.ButtonMiddle),
		"RIGHT":       lua.LNumber(mouse.ButtonRight),
	}
}

// LoadFile runs a script file.
func (h *Host) LoadFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	return nil
}

// LoadString runs script source.
func (h *Host) LoadString(code string) error {
	if err := h.state.DoString(code); err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return nil
}

// Installed returns the names of widgets that have a script callback,
// sorted.
func (h *Host) Installed() []string {
	names := make([]string, 0, len(h.installed))
	for _, name := range h.installed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close removes every callback the host installed and closes the Lua
// state.
func (h *Host) Close() error {
	for id := range h.installed {
		if cb, ok := h.registry.Lookup(id); ok {
			if _, mine := cb.(*Callback); mine {
				h.registry.Remove(id)
			}
		}
	}
	clear(h.installed)
	return h.state.Close()
}

// mouse.set_callback(name, fn)
func (h *Host) setCallback(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	id, ok := h.resolve(name)
	if !ok {
		L.RaiseError("%v: %s", ErrUnknownWidget, name)
		return 0
	}

	h.registry.Install(id, NewCallback(h.state, fn, name, h.logger))
	h.installed[id] = name
	h.logger.Debug("lua callback installed", "widget", name, "id", id.Short())
	return 0
}

// mouse.clear_callback(name)
func (h *Host) clearCallback(L *lua.LState) int {
	name := L.CheckString(1)

	id, ok := h.resolve(name)
	if !ok {
		L.RaiseError("%v: %s", ErrUnknownWidget, name)
		return 0
	}

	if _, mine := h.installed[id]; mine {
		h.registry.Remove(id)
		delete(h.installed, id)
	}
	return 0
}

// mouse.has(buttons, button)
func has(L *lua.LState) int {
	buttons := mouse.Buttons(L.CheckInt(1))
	button := mouse.Buttons(L.CheckInt(2))
	L.Push(lua.LBool(buttons.Has(button)))
	return 1
}

func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	h.logger.Info("lua", "msg", strings.Join(parts, "\t"))
	return 0
}
