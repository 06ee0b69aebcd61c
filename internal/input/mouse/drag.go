package mouse

import (
	"time"

	"github.com/dshills/easymouse/internal/widget"
)

// pressRecord tracks one active button press from down to up.
type pressRecord struct {
	// widget is the widget hit at press time. The press stays bound to it
	// wherever the pointer goes.
	widget widget.ID

	// buttons is the button set that went down.
	buttons Buttons

	// origin is the absolute press position.
	origin widget.Point

	// widgetOrigin is the widget's top-left corner at press time, used if
	// the widget leaves the layout before release.
	widgetOrigin widget.Point

	// start is the press time.
	start time.Time

	// count is the click multiplicity of this press.
	count int

	// dragging is set once the pointer has left the drag threshold.
	dragging bool
}

// move reports whether a move to pos should produce a drag message.
// Once dragging has started it stays started.
func (p *pressRecord) move(pos widget.Point, threshold int) bool {
	if p.dragging {
		return true
	}
	if pos.Distance(p.origin) > threshold {
		p.dragging = true
		return true
	}
	return false
}

// PressState is a snapshot of one active press.
type PressState struct {
	// Widget is the widget that owns the press.
	Widget widget.ID

	// Buttons is the pressed button set.
	Buttons Buttons

	// Origin is the absolute press position.
	Origin widget.Point

	// Start is when the press happened.
	Start time.Time

	// Count is the click multiplicity.
	Count int

	// Dragging indicates the drag threshold has been exceeded.
	Dragging bool
}

func (p *pressRecord) state() PressState {
	return PressState{
		Widget:   p.widget,
		Buttons:  p.buttons,
		Origin:   p.origin,
		Start:    p.start,
		Count:    p.count,
		Dragging: p.dragging,
	}
}
