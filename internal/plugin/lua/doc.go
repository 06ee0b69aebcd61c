// Package lua lets Lua scripts act as widget mouse callbacks.
//
// This package wraps the gopher-lua library to provide a sandboxed Lua
// state and a "mouse" module through which scripts install callbacks:
//
//	mouse.set_callback("ok", function(name, msg, ev)
//	    if msg == mouse.CLICK and ev.count == 2 then
//	        return true          -- abort: consume the message
//	    end
//	    if msg == mouse.DRAG then
//	        return false, true   -- repeat the drag on the next tick
//	    end
//	end)
//
// The event table carries msg, x, y, buttons and count. Button bits are
// available as mouse.LEFT, mouse.MIDDLE and mouse.RIGHT, and
// mouse.has(ev.buttons, mouse.LEFT) tests them.
//
// # State
//
// The State type manages a Lua runtime with only the base, table, string
// and math libraries. Functions that load code from disk are removed.
// Every call runs under an execution timeout, so a runaway callback
// cannot stall the event loop.
package lua
