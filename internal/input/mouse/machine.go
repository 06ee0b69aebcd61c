package mouse

import (
	"slices"
	"time"

	"github.com/dshills/easymouse/internal/widget"
)

// HitTester resolves screen positions to widgets.
// widget.Layout implements it.
type HitTester interface {
	// Resolve returns the topmost widget containing p and p in that
	// widget's local coordinates.
	Resolve(p widget.Point) (widget.ID, widget.Point, bool)

	// Region returns the current region of a widget.
	Region(id widget.ID) (widget.Rect, bool)
}

// Machine classifies raw pointer events into widget messages.
//
// It keeps one press record per active button set and the history of the
// last press for click counting. Nothing else about past events is kept.
type Machine struct {
	config  Config
	hit     HitTester
	click   *clickTracker
	presses map[Buttons]*pressRecord
	now     func() time.Time
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithClock sets the clock used for raw events without a timestamp.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine creates a new state machine over the given hit tester.
func NewMachine(hit HitTester, config Config, opts ...MachineOption) *Machine {
	m := &Machine{
		config:  config,
		hit:     hit,
		click:   newClickTracker(config.DoubleClickInterval, config.PositionTolerance),
		presses: make(map[Buttons]*pressRecord),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the current configuration.
func (m *Machine) Config() Config {
	return m.config
}

// SetConfig replaces the configuration. Active presses keep their state;
// the new thresholds apply from the next event on.
func (m *Machine) SetConfig(config Config) {
	m.config = config
	m.click.setLimits(config.DoubleClickInterval, config.PositionTolerance)
}

// Process classifies one raw event and returns the resulting deliveries
// in order. Events that concern no widget produce nothing.
func (m *Machine) Process(ev RawEvent) []Delivery {
	if ev.Time.IsZero() {
		ev.Time = m.now()
	}

	switch ev.Action {
	case ActionDown:
		return m.handleDown(ev)
	case ActionUp:
		return m.handleUp(ev)
	case ActionMove:
		return m.handleMove(ev)
	case ActionWheelUp, ActionWheelDown:
		return m.handleWheel(ev)
	}

	return nil
}

// handleDown starts a new press lineage on the widget under the pointer.
// A press on a button set that is already down replaces the old lineage
// without an up message.
func (m *Machine) handleDown(ev RawEvent) []Delivery {
	id, local, ok := m.hit.Resolve(ev.Position)
	if !ok {
		return nil
	}

	count := m.click.recordPress(id, ev.Buttons, ev.Position, ev.Time)
	m.presses[ev.Buttons] = &pressRecord{
		widget:       id,
		buttons:      ev.Buttons,
		origin:       ev.Position,
		widgetOrigin: ev.Position.Sub(local),
		start:        ev.Time,
		count:        count,
	}

	return []Delivery{newDelivery(id, MsgDown, local, ev.Buttons, count)}
}

// handleUp ends the matching press. Up always goes to the press's widget;
// Click follows only when the release lies inside that widget.
func (m *Machine) handleUp(ev RawEvent) []Delivery {
	key, press, ok := m.releasedPress(ev.Buttons)
	if !ok {
		return nil
	}
	delete(m.presses, key)

	region, placed := m.hit.Region(press.widget)
	local := ev.Position.Sub(press.widgetOrigin)
	if placed {
		local = region.Local(ev.Position)
	}

	out := []Delivery{newDelivery(press.widget, MsgUp, local, press.buttons, press.count)}
	if placed && region.Contains(ev.Position) {
		out = append(out, newDelivery(press.widget, MsgClick, local, press.buttons, press.count))
	}
	return out
}

// releasedPress finds the press a release refers to: the exact button set
// first, then any press sharing a button. A release that names no button
// matches when exactly one press is active.
func (m *Machine) releasedPress(buttons Buttons) (Buttons, *pressRecord, bool) {
	if p, ok := m.presses[buttons]; ok {
		return buttons, p, true
	}
	if buttons == ButtonNone {
		if len(m.presses) == 1 {
			for k, p := range m.presses {
				return k, p, true
			}
		}
		return 0, nil, false
	}
	for _, k := range m.activeKeys() {
		if k.Overlaps(buttons) {
			return k, m.presses[k], true
		}
	}
	return 0, nil, false
}

// handleMove advances every active press. Idle moves produce nothing.
func (m *Machine) handleMove(ev RawEvent) []Delivery {
	var out []Delivery
	for _, k := range m.activeKeys() {
		press := m.presses[k]
		if !press.move(ev.Position, m.config.DragThreshold) {
			continue
		}
		local := ev.Position.Sub(press.widgetOrigin)
		if region, ok := m.hit.Region(press.widget); ok {
			local = region.Local(ev.Position)
		}
		out = append(out, newDelivery(press.widget, MsgDrag, local, press.buttons, press.count))
	}
	return out
}

// handleWheel delivers a scroll message to the widget under the pointer.
// The wheel carries no press state.
func (m *Machine) handleWheel(ev RawEvent) []Delivery {
	msg, _ := scrollMessage(ev.Action)
	id, local, ok := m.hit.Resolve(ev.Position)
	if !ok {
		return nil
	}
	return []Delivery{newDelivery(id, msg, local, ev.Buttons, 1)}
}

// activeKeys returns the active button sets in ascending order.
func (m *Machine) activeKeys() []Buttons {
	keys := make([]Buttons, 0, len(m.presses))
	for k := range m.presses {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Cancel abandons every active press and forgets the click history,
// without emitting any messages. Call it when the terminal loses focus.
func (m *Machine) Cancel() {
	clear(m.presses)
	m.click.reset()
}

// Active returns snapshots of the active presses ordered by button set.
func (m *Machine) Active() []PressState {
	keys := m.activeKeys()
	out := make([]PressState, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.presses[k].state())
	}
	return out
}

// IsDragging returns true if any active press has started dragging.
func (m *Machine) IsDragging() bool {
	for _, p := range m.presses {
		if p.dragging {
			return true
		}
	}
	return false
}
