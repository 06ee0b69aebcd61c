// Package widget provides widget identity and geometry for mouse routing.
//
// Widgets themselves live elsewhere; this package only knows their stable
// identity and the screen region each one occupies. Layout answers the
// question "which widget owns this cell" for the mouse layer.
package widget

import "github.com/google/uuid"

// ID is a stable, non-owning handle to a widget.
// The zero value is Nil and never refers to a widget.
type ID uuid.UUID

// Nil is the empty ID.
var Nil ID

// NewID returns a fresh widget ID.
func NewID() ID {
	return ID(uuid.New())
}

// IsNil reports whether id is the empty ID.
func (id ID) IsNil() bool {
	return id == Nil
}

// String returns the canonical UUID form of the ID.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight hex digits, for logs and status lines.
func (id ID) Short() string {
	return id.String()[:8]
}
