package app

import (
	"github.com/dshills/easymouse/internal/config"
	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/widget"
)

// Widget is one box on the demo screen.
type Widget struct {
	ID     widget.ID
	Name   string
	Label  string
	Region widget.Rect
	Z      int

	// Last describes the most recent message the widget received.
	Last string

	// Received counts delivered messages; Unhandled counts those the
	// callback did not abort.
	Received  int
	Unhandled int

	scripted bool
	handler  string
}

// defaultWidgets is the screen used when the configuration declares no
// widgets.
func defaultWidgets() []config.WidgetConfig {
	return []config.WidgetConfig{
		{Name: "ok", Label: "OK", Left: 2, Top: 2, Right: 22, Bottom: 7},
		{Name: "cancel", Label: "Cancel", Left: 26, Top: 2, Right: 46, Bottom: 7, Handler: config.HandlerLegacy},
		{Name: "canvas", Label: "Canvas", Left: 2, Top: 8, Right: 46, Bottom: 18},
		{Name: "popup", Label: "Popup", Left: 30, Top: 12, Right: 44, Bottom: 16, Z: 1},
	}
}

// easyCallback consumes clicks and lets everything else fall through.
func easyCallback(_ widget.ID, msg mouse.Message, ev *mouse.Event) {
	ev.Result.Abort = msg == mouse.MsgClick
}

// legacyCallback is the legacy-style equivalent of easyCallback. Drags
// ask for a repeat, so a held drag keeps arriving on every tick until the
// pointer moves again or the button is released.
func legacyCallback(_ widget.ID, ev mouse.LegacyEvent) mouse.LegacyCode {
	switch ev.Msg {
	case mouse.MsgClick:
		return mouse.LegacyNormal
	case mouse.MsgDrag:
		return mouse.LegacyRepeat
	default:
		return mouse.LegacyUnhandled
	}
}

func builtinCallback(handler string) mouse.Callback {
	if handler == config.HandlerLegacy {
		return mouse.LegacyFunc(legacyCallback)
	}
	return mouse.CallbackFunc(easyCallback)
}
