package lua

import (
	"log/slog"

	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/widget"
	lua "github.com/yuin/gopher-lua"
)

// Callback is a mouse.Callback backed by a Lua function.
//
// The function is called as fn(name, msg, ev). It reports back either by
// returning (abort, repeat) or by setting ev.abort and ev["repeat"].
// A failing call is logged and leaves the Result empty.
type Callback struct {
	state  *State
	fn     *lua.LFunction
	name   string
	logger *slog.Logger
}

// NewCallback wraps fn as a callback for the named widget.
func NewCallback(state *State, fn *lua.LFunction, name string, logger *slog.Logger) *Callback {
	return &Callback{state: state, fn: fn, name: name, logger: logger}
}

// Name returns the widget name the callback was installed for.
func (c *Callback) Name() string {
	return c.name
}

// MouseEvent calls the Lua function.
func (c *Callback) MouseEvent(w widget.ID, msg mouse.Message, ev *mouse.Event) {
	tbl := c.state.L.NewTable()
	tbl.RawSetString("msg", lua.LNumber(msg))
	tbl.RawSetString("x", lua.LNumber(ev.X))
	tbl.RawSetString("y", lua.LNumber(ev.Y))
	tbl.RawSetString("buttons", lua.LNumber(ev.Buttons))
	tbl.RawSetString("count", lua.LNumber(ev.Count))

	rets, err := c.state.CallValue(c.fn, lua.LString(c.name), lua.LNumber(msg), tbl)
	if err != nil {
		c.logger.Warn("lua callback failed",
			"widget", c.name,
			"msg", msg.String(),
			"error", err)
		ev.Result = mouse.Result{}
		return
	}

	var res mouse.Result
	if len(rets) > 0 {
		res.Abort = lua.LVAsBool(rets[0])
	}
	if len(rets) > 1 {
		res.Repeat = lua.LVAsBool(rets[1])
	}
	if lua.LVAsBool(tbl.RawGetString("abort")) {
		res.Abort = true
	}
	if lua.LVAsBool(tbl.RawGetString("repeat")) {
		res.Repeat = true
	}
	ev.Result = res
}
