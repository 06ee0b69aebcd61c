package mouse

// ScrollDirection represents the direction of a wheel event.
type ScrollDirection int8

const (
	// ScrollNone indicates no scroll.
	ScrollNone ScrollDirection = 0
	// ScrollUp indicates the wheel rotated away from the user.
	ScrollUp ScrollDirection = -1
	// ScrollDown indicates the wheel rotated towards the user.
	ScrollDown ScrollDirection = 1
)

// String returns a string representation of the scroll direction.
func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	default:
		return "none"
	}
}

// Direction returns the scroll direction of a message, or ScrollNone
// for messages that are not scroll messages. The value doubles as a
// line delta for scrolling widgets.
func (m Message) Direction() ScrollDirection {
	switch m {
	case MsgScrollUp:
		return ScrollUp
	case MsgScrollDown:
		return ScrollDown
	default:
		return ScrollNone
	}
}

// scrollMessage maps a wheel action to its message.
func scrollMessage(a Action) (Message, bool) {
	switch a {
	case ActionWheelUp:
		return MsgScrollUp, true
	case ActionWheelDown:
		return MsgScrollDown, true
	default:
		return 0, false
	}
}
