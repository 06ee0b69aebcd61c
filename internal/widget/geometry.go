package widget

import "fmt"

// Point is a cell coordinate. X is the column, Y is the row.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Equal returns true if two points are equal.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two points.
func (p Point) Distance(other Point) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect represents a rectangular region on screen.
type Rect struct {
	Top    int // First row (inclusive)
	Left   int // First column (inclusive)
	Bottom int // Last row (exclusive)
	Right  int // Last column (exclusive)
}

// NewRect creates a rectangle from its top-left and bottom-right corners.
// The bottom-right corner is exclusive.
func NewRect(topLeft, bottomRight Point) Rect {
	return Rect{Top: topLeft.Y, Left: topLeft.X, Bottom: bottomRight.Y, Right: bottomRight.X}
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(top, left, height, width int) Rect {
	return Rect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.Y >= r.Top && p.Y < r.Bottom &&
		p.X >= r.Left && p.X < r.Right
}

// Local converts an absolute point to coordinates relative to the
// rectangle's origin. The result may be negative or lie past the edges
// when p is outside the rectangle.
func (r Rect) Local(p Point) Point {
	return p.Sub(r.Origin())
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.Left, r.Top, r.Width(), r.Height())
}
