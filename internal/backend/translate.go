package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/widget"
)

// Translator turns tcell mouse events into raw press, release, move and
// wheel events.
//
// tcell reports which buttons are held at each event rather than what
// changed, so the translator remembers the previous mask and emits the
// difference: releases first, then presses, then wheel steps. A pointer
// move with no button change becomes a move event.
type Translator struct {
	held mouse.Buttons
	last widget.Point
	seen bool
}

// NewTranslator returns a translator with no buttons held.
func NewTranslator() *Translator {
	return &Translator{}
}

// Held returns the buttons the translator believes are down.
func (t *Translator) Held() mouse.Buttons {
	return t.held
}

// Reset forgets held buttons. Call it together with Machine.Cancel when
// the terminal loses focus.
func (t *Translator) Reset() {
	t.held = mouse.ButtonNone
	t.seen = false
}

// Translate converts one tcell mouse event.
func (t *Translator) Translate(ev *tcell.EventMouse) []mouse.RawEvent {
	x, y := ev.Position()
	pos := widget.Pt(x, y)
	when := ev.When()
	mask := ev.Buttons()
	buttons := convertButtons(mask)

	var out []mouse.RawEvent
	raw := func(action mouse.Action, b mouse.Buttons) {
		out = append(out, mouse.RawEvent{
			Action:   action,
			Position: pos,
			Buttons:  b,
			Time:     when,
		})
	}

	// Each released button is its own release so that separate presses
	// pair up individually.
	released := t.held &^ buttons
	for _, b := range []mouse.Buttons{mouse.ButtonLeft, mouse.ButtonMiddle, mouse.ButtonRight} {
		if released.Has(b) {
			raw(mouse.ActionUp, b)
		}
	}

	if pressed := buttons &^ t.held; pressed != mouse.ButtonNone {
		raw(mouse.ActionDown, pressed)
	}

	if mask&tcell.WheelUp != 0 {
		raw(mouse.ActionWheelUp, buttons)
	}
	if mask&tcell.WheelDown != 0 {
		raw(mouse.ActionWheelDown, buttons)
	}

	if len(out) == 0 && (!t.seen || !pos.Equal(t.last)) {
		raw(mouse.ActionMove, buttons)
	}

	t.held = buttons
	t.last = pos
	t.seen = true

	return out
}

// convertButtons maps tcell's button mask onto mouse buttons. Wheel and
// extra buttons are dropped.
func convertButtons(b tcell.ButtonMask) mouse.Buttons {
	var out mouse.Buttons
	if b&tcell.ButtonPrimary != 0 {
		out |= mouse.ButtonLeft
	}
	if b&tcell.ButtonMiddle != 0 {
		out |= mouse.ButtonMiddle
	}
	if b&tcell.ButtonSecondary != 0 {
		out |= mouse.ButtonRight
	}
	return out
}
