package mouse

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/easymouse/internal/widget"
)

// Buttons is a bitmask of mouse buttons.
// The wheel is not a button.
type Buttons uint8

const (
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft Buttons = 1 << iota
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight

	// ButtonNone indicates no button.
	ButtonNone Buttons = 0
)

// Has returns true if every button in other is set in b.
func (b Buttons) Has(other Buttons) bool {
	return b&other == other
}

// Overlaps returns true if b and other share at least one button.
func (b Buttons) Overlaps(other Buttons) bool {
	return b&other != 0
}

// String returns the set buttons joined by "|", e.g. "left|right".
// Bits outside the known buttons are shown in hex.
func (b Buttons) String() string {
	if b == ButtonNone {
		return "none"
	}
	var parts []string
	if b&ButtonLeft != 0 {
		parts = append(parts, "left")
	}
	if b&ButtonMiddle != 0 {
		parts = append(parts, "middle")
	}
	if b&ButtonRight != 0 {
		parts = append(parts, "right")
	}
	if rest := b &^ (ButtonLeft | ButtonMiddle | ButtonRight); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// Action represents the kind of raw pointer event.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionDown indicates a button press.
	ActionDown
	// ActionUp indicates a button release.
	ActionUp
	// ActionMove indicates pointer movement, with or without buttons held.
	ActionMove
	// ActionWheelUp indicates the wheel rotated away from the user.
	ActionWheelUp
	// ActionWheelDown indicates the wheel rotated towards the user.
	ActionWheelDown
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionUp:
		return "up"
	case ActionMove:
		return "move"
	case ActionWheelUp:
		return "wheel-up"
	case ActionWheelDown:
		return "wheel-down"
	default:
		return "none"
	}
}

// RawEvent is an unclassified pointer event from the terminal.
type RawEvent struct {
	// Action is the kind of event.
	Action Action

	// Position is the absolute cell position.
	Position widget.Point

	// Buttons are the buttons the event refers to. For ActionDown and
	// ActionUp these are the buttons that changed; for ActionMove the
	// buttons held.
	Buttons Buttons

	// Time is when the event occurred. A zero Time means "now".
	Time time.Time
}

// Message is a classified mouse message delivered to a widget.
type Message uint8

const (
	// MsgDown is sent when a button is pressed inside the widget.
	MsgDown Message = iota + 1
	// MsgUp is sent when a button pressed inside the widget is released
	// anywhere.
	MsgUp
	// MsgClick is sent when a button pressed inside the widget is released
	// inside the widget.
	MsgClick
	// MsgDrag is sent when the pointer moves past the drag threshold with a
	// button held that was pressed inside the widget. The pointer may be
	// anywhere.
	MsgDrag
	// MsgMove is reserved and never emitted.
	MsgMove
	// MsgScrollUp is sent when the wheel is rotated away from the user.
	MsgScrollUp
	// MsgScrollDown is sent when the wheel is rotated towards the user.
	MsgScrollDown
)

// String returns a string representation of the message.
func (m Message) String() string {
	switch m {
	case MsgDown:
		return "down"
	case MsgUp:
		return "up"
	case MsgClick:
		return "click"
	case MsgDrag:
		return "drag"
	case MsgMove:
		return "move"
	case MsgScrollUp:
		return "scroll-up"
	case MsgScrollDown:
		return "scroll-down"
	default:
		return "unknown"
	}
}

// Result is how a callback reports back to the dispatcher.
type Result struct {
	// Abort stops further default handling of this message.
	Abort bool
	// Repeat asks for the same message again on the next tick.
	Repeat bool
}

// Event is the message payload handed to a widget callback.
type Event struct {
	Msg Message

	// X and Y are local to the widget. They may fall outside the widget
	// for MsgUp and MsgDrag.
	X, Y int

	Buttons Buttons

	// Count is the click multiplicity: 1, 2 or 3.
	Count int

	// Result is written by the callback.
	Result Result
}

// Position returns the local position as a point.
func (e Event) Position() widget.Point {
	return widget.Point{X: e.X, Y: e.Y}
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s x%d at (%d,%d)", e.Msg, e.Buttons, e.Count, e.X, e.Y)
}

// Delivery is a message bound for one widget.
type Delivery struct {
	Widget widget.ID
	Event  Event
}

func newDelivery(id widget.ID, msg Message, local widget.Point, buttons Buttons, count int) Delivery {
	return Delivery{
		Widget: id,
		Event: Event{
			Msg:     msg,
			X:       local.X,
			Y:       local.Y,
			Buttons: buttons,
			Count:   count,
		},
	}
}
