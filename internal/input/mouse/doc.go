// Package mouse translates raw pointer events into per-widget mouse
// messages.
//
// The raw event source knows nothing about widgets: it reports an
// absolute cell position, a button bitmask and whether a button went
// down, came up, the pointer moved, or the wheel turned. This package
// resolves each raw event to the widget under the pointer, remembers which
// widget owns every active press, and delivers fully classified messages
// in widget-local coordinates:
//
//	MsgDown        button pressed inside the widget
//	MsgUp          button, pressed inside the widget, released anywhere
//	MsgClick       button, pressed inside the widget, released inside it
//	MsgDrag        pointer moved past the drag threshold while pressed
//	MsgMove        reserved; never emitted
//	MsgScrollUp    wheel rotated away from the user
//	MsgScrollDown  wheel rotated towards the user
//
// # Pipeline
//
// A Layout (package widget) answers hit tests, the Machine classifies raw
// events, the Dispatcher invokes the widget's Callback found in the
// Registry, and the Router ties them together:
//
//	layout := widget.NewLayout()
//	registry := mouse.NewRegistry()
//	router := mouse.NewRouter(
//	    mouse.NewMachine(layout, mouse.DefaultConfig()),
//	    mouse.NewDispatcher(registry),
//	)
//	registry.Install(id, mouse.CallbackFunc(func(w widget.ID, msg mouse.Message, ev *mouse.Event) {
//	    if msg == mouse.MsgClick && ev.Count == 2 {
//	        ev.Result.Abort = true
//	    }
//	}))
//	router.Handle(raw)
//
// # Click Detection
//
// A press continues a click sequence when it uses the same buttons on the
// same widget as the press immediately before it, within the double-click
// interval and the position tolerance. The count runs 1, 2, 3 and then
// starts over at 1.
//
// # Feedback
//
// A callback may set Result.Abort to keep the Router from passing the
// message to its fallback handler, and Result.Repeat to have the same
// message delivered again on the next Tick. Neither flag changes which
// messages the Machine produces.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. One raw event is
// processed completely before the next one is accepted, all on the event
// loop goroutine.
package mouse
