package widget

// entry is one placed widget.
type entry struct {
	id   ID
	rect Rect
	z    int
	seq  uint64
}

// above reports whether e is stacked above other.
// Higher z wins; equal z goes to the most recently placed widget.
func (e entry) above(other entry) bool {
	if e.z != other.z {
		return e.z > other.z
	}
	return e.seq > other.seq
}

// Layout tracks the screen regions of widgets and resolves absolute
// positions to the topmost owning widget.
//
// Layout is not safe for concurrent use; it belongs to the event loop.
type Layout struct {
	entries []entry
	index   map[ID]int
	seq     uint64
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{index: make(map[ID]int)}
}

// Add places a widget with the given region and z-order.
// Adding an ID that is already placed replaces its region and z-order and
// moves it to the top of its z level.
func (l *Layout) Add(id ID, rect Rect, z int) {
	l.seq++
	e := entry{id: id, rect: rect, z: z, seq: l.seq}
	if i, ok := l.index[id]; ok {
		l.entries[i] = e
		return
	}
	l.index[id] = len(l.entries)
	l.entries = append(l.entries, e)
}

// SetRegion moves or resizes a placed widget without changing its
// stacking. It returns false if the widget is not placed.
func (l *Layout) SetRegion(id ID, rect Rect) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.entries[i].rect = rect
	return true
}

// Remove removes a widget from the layout.
func (l *Layout) Remove(id ID) {
	i, ok := l.index[id]
	if !ok {
		return
	}
	last := len(l.entries) - 1
	if i != last {
		l.entries[i] = l.entries[last]
		l.index[l.entries[i].id] = i
	}
	l.entries = l.entries[:last]
	delete(l.index, id)
}

// Region returns the region of a placed widget.
func (l *Layout) Region(id ID) (Rect, bool) {
	i, ok := l.index[id]
	if !ok {
		return Rect{}, false
	}
	return l.entries[i].rect, true
}

// Len returns the number of placed widgets.
func (l *Layout) Len() int {
	return len(l.entries)
}

// Resolve returns the topmost widget whose region contains p, together
// with p in that widget's local coordinates.
func (l *Layout) Resolve(p Point) (ID, Point, bool) {
	var (
		best  entry
		found bool
	)
	for _, e := range l.entries {
		if !e.rect.Contains(p) {
			continue
		}
		if !found || e.above(best) {
			best = e
			found = true
		}
	}
	if !found {
		return Nil, Point{}, false
	}
	return best.id, best.rect.Local(p), true
}
