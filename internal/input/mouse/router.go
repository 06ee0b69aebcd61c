package mouse

import (
	"log/slog"

	"github.com/dshills/easymouse/internal/logging"
	"github.com/dshills/easymouse/internal/widget"
)

// Fallback handles messages that a widget callback did not abort.
type Fallback func(w widget.ID, ev Event)

// Observer sees every delivered message after its callback returned,
// with the callback's Result filled in.
type Observer func(w widget.ID, ev Event)

// Router runs raw events through a Machine and delivers the resulting
// messages with a Dispatcher.
//
// Raw events submitted while the Router is busy, for example by a
// callback, are queued and processed once the current event is done, so
// messages always arrive in raw event order.
type Router struct {
	machine    *Machine
	dispatcher *Dispatcher
	fallback   Fallback
	observer   Observer
	logger     *slog.Logger

	queue   []RawEvent
	pending []Delivery
	busy    bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithFallback sets the handler for messages that were delivered and not
// aborted.
func WithFallback(fn Fallback) RouterOption {
	return func(r *Router) {
		r.fallback = fn
	}
}

// WithObserver sets a function that sees every delivered message.
func WithObserver(fn Observer) RouterOption {
	return func(r *Router) {
		r.observer = fn
	}
}

// WithRouterLogger sets the logger for routing diagnostics.
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates a router.
func NewRouter(machine *Machine, dispatcher *Dispatcher, opts ...RouterOption) *Router {
	r := &Router{
		machine:    machine,
		dispatcher: dispatcher,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Machine returns the router's state machine.
func (r *Router) Machine() *Machine {
	return r.machine
}

// Handle processes a raw event and delivers its messages.
func (r *Router) Handle(ev RawEvent) {
	r.queue = append(r.queue, ev)
	if r.busy {
		return
	}

	r.busy = true
	defer func() { r.busy = false }()

	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		for _, d := range r.machine.Process(next) {
			r.deliver(d)
		}
	}
}

// Tick redelivers every message whose callback asked for a repeat.
// Repeats requested during Tick wait for the next Tick.
func (r *Router) Tick() {
	if r.busy || len(r.pending) == 0 {
		return
	}

	r.busy = true
	defer func() { r.busy = false }()

	pending := r.pending
	r.pending = nil
	for _, d := range pending {
		r.deliver(d)
	}

	// Raw events queued by callbacks during the repeats.
	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		for _, d := range r.machine.Process(next) {
			r.deliver(d)
		}
	}
}

// Pending returns the number of queued repeats.
func (r *Router) Pending() int {
	return len(r.pending)
}

// Cancel abandons active presses, queued raw events and pending repeats.
func (r *Router) Cancel() {
	r.machine.Cancel()
	r.queue = nil
	r.pending = nil
}

// deliver dispatches one message and applies its result.
func (r *Router) deliver(d Delivery) {
	r.dropPending(d.Widget)

	ev := d.Event
	res, ok := r.dispatcher.Dispatch(d.Widget, &ev)
	if !ok {
		return
	}

	r.logger.Debug("mouse message delivered",
		"widget", d.Widget.Short(),
		"msg", ev.Msg.String(),
		"x", ev.X, "y", ev.Y,
		"buttons", ev.Buttons.String(),
		"count", ev.Count,
		"abort", res.Abort,
		"repeat", res.Repeat)

	if r.observer != nil {
		r.observer(d.Widget, ev)
	}

	if res.Repeat {
		again := d
		again.Event.Result = Result{}
		r.pending = append(r.pending, again)
	}
	if !res.Abort && r.fallback != nil {
		r.fallback(d.Widget, ev)
	}
}

// dropPending removes a widget's pending repeat; a newer message
// supersedes it.
func (r *Router) dropPending(id widget.ID) {
	kept := r.pending[:0]
	for _, p := range r.pending {
		if p.Widget != id {
			kept = append(kept, p)
		}
	}
	r.pending = kept
}
