package mouse

import (
	"time"

	"github.com/dshills/easymouse/internal/widget"
)

// maxClickCount is the highest click multiplicity (triple click).
const maxClickCount = 3

// clickTracker tracks click patterns for double/triple click detection.
// It only remembers the press immediately before the current one.
type clickTracker struct {
	// Configuration
	maxTime     time.Duration
	maxDistance int

	// Last press state
	lastWidget  widget.ID
	lastButtons Buttons
	lastPos     widget.Point
	lastTime    time.Time
	lastCount   int
}

// newClickTracker creates a new click tracker.
func newClickTracker(maxTime time.Duration, maxDistance int) *clickTracker {
	return &clickTracker{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// recordPress records a press and returns its click count (1, 2, or 3).
// Click count wraps back to 1 after 3 (quad-click = single click).
func (t *clickTracker) recordPress(id widget.ID, buttons Buttons, pos widget.Point, timestamp time.Time) int {
	if t.isPartOfSequence(id, buttons, pos, timestamp) {
		t.lastCount++
		if t.lastCount > maxClickCount {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastWidget = id
	t.lastButtons = buttons
	t.lastPos = pos
	t.lastTime = timestamp

	return t.lastCount
}

// isPartOfSequence checks if a press continues the current click sequence.
func (t *clickTracker) isPartOfSequence(id widget.ID, buttons Buttons, pos widget.Point, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}

	if id != t.lastWidget || buttons != t.lastButtons {
		return false
	}

	// Clock skew: a negative interval starts a new sequence.
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}

	return pos.Distance(t.lastPos) <= t.maxDistance
}

// setLimits replaces the time and distance limits.
func (t *clickTracker) setLimits(maxTime time.Duration, maxDistance int) {
	t.maxTime = maxTime
	t.maxDistance = maxDistance
}

// reset clears the click tracking state.
func (t *clickTracker) reset() {
	t.lastWidget = widget.Nil
	t.lastButtons = ButtonNone
	t.lastPos = widget.Point{}
	t.lastTime = time.Time{}
	t.lastCount = 0
}
