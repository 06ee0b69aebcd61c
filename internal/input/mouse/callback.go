package mouse

import "github.com/dshills/easymouse/internal/widget"

// Callback receives mouse messages for a widget.
//
// MouseEvent runs synchronously on the event loop. It may read every field
// of ev and sets ev.Result to influence what happens after it returns.
type Callback interface {
	MouseEvent(w widget.ID, msg Message, ev *Event)
}

// CallbackFunc adapts a plain function to Callback.
type CallbackFunc func(w widget.ID, msg Message, ev *Event)

// MouseEvent calls f(w, msg, ev).
func (f CallbackFunc) MouseEvent(w widget.ID, msg Message, ev *Event) {
	f(w, msg, ev)
}

// LegacyCode is the return value of a legacy mouse handler.
type LegacyCode int

const (
	// LegacyNormal means the handler consumed the message.
	LegacyNormal LegacyCode = iota
	// LegacyRepeat means the handler consumed the message and wants it
	// again on the next tick.
	LegacyRepeat
	// LegacyUnhandled means the handler ignored the message.
	LegacyUnhandled
)

// String returns a string representation of the code.
func (c LegacyCode) String() string {
	switch c {
	case LegacyNormal:
		return "normal"
	case LegacyRepeat:
		return "repeat"
	case LegacyUnhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// LegacyEvent is the argument of a legacy mouse handler. Legacy handlers
// get a copy of the message and report back through their return value.
type LegacyEvent struct {
	Msg      Message
	Position widget.Point
	Buttons  Buttons
	Count    int
}

// LegacyFunc is an old-style mouse handler. It is installed through the
// same Registry as any other Callback.
type LegacyFunc func(w widget.ID, ev LegacyEvent) LegacyCode

// MouseEvent translates the legacy return code into a Result.
func (f LegacyFunc) MouseEvent(w widget.ID, msg Message, ev *Event) {
	code := f(w, LegacyEvent{
		Msg:      msg,
		Position: ev.Position(),
		Buttons:  ev.Buttons,
		Count:    ev.Count,
	})

	switch code {
	case LegacyNormal:
		ev.Result = Result{Abort: true}
	case LegacyRepeat:
		ev.Result = Result{Abort: true, Repeat: true}
	default:
		ev.Result = Result{}
	}
}
