package mouse

import (
	"log/slog"
	"runtime/debug"

	"github.com/dshills/easymouse/internal/logging"
	"github.com/dshills/easymouse/internal/widget"
)

// Dispatcher delivers events to the callbacks in a Registry.
//
// A widget's callback is never entered again while an earlier call for
// the same widget is still running; such nested deliveries are refused.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	running  map[widget.ID]bool

	// Stats
	delivered uint64
	dropped   uint64
	refused   uint64
	panicked  uint64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger sets the logger for dispatch diagnostics.
func WithDispatchLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   logging.Discard(),
		running:  make(map[widget.ID]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch invokes the widget's callback with ev and returns the result
// the callback left in ev. The second return value is false when nothing
// was invoked: the widget has no callback, or its callback is already
// running. A panicking callback counts as invoked with an empty result.
func (d *Dispatcher) Dispatch(id widget.ID, ev *Event) (Result, bool) {
	cb, ok := d.registry.Lookup(id)
	if !ok {
		d.dropped++
		return Result{}, false
	}

	if d.running[id] {
		d.refused++
		d.logger.Debug("nested mouse dispatch refused",
			"widget", id.Short(), "msg", ev.Msg.String())
		return Result{}, false
	}

	d.running[id] = true
	defer delete(d.running, id)

	ev.Result = Result{}
	if !d.invoke(cb, id, ev) {
		ev.Result = Result{}
	}
	d.delivered++

	return ev.Result, true
}

// invoke calls the callback with panic recovery.
// It returns false if the callback panicked.
func (d *Dispatcher) invoke(cb Callback, id widget.ID, ev *Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.panicked++
			d.logger.Error("mouse callback panicked",
				"widget", id.Short(),
				"msg", ev.Msg.String(),
				"panic", r,
				"stack", string(debug.Stack()))
			ok = false
		}
	}()
	cb.MouseEvent(id, ev.Msg, ev)
	return true
}

// DispatcherStats contains dispatch counters.
type DispatcherStats struct {
	// Delivered is the number of callback invocations.
	Delivered uint64

	// Dropped is the number of events for widgets without a callback.
	Dropped uint64

	// Refused is the number of nested deliveries refused.
	Refused uint64

	// Panicked is the number of callbacks that panicked.
	Panicked uint64
}

// Stats returns dispatch counters.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Delivered: d.delivered,
		Dropped:   d.dropped,
		Refused:   d.refused,
		Panicked:  d.panicked,
	}
}
