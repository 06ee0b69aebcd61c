package mouse

import "github.com/dshills/easymouse/internal/widget"

// Registry maps widgets to their mouse callbacks.
//
// A Registry belongs to one event loop and is not safe for concurrent use.
type Registry struct {
	callbacks map[widget.ID]Callback
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[widget.ID]Callback)}
}

// Install sets the callback for a widget, replacing any earlier one.
// Installing a nil callback removes the registration.
func (r *Registry) Install(id widget.ID, cb Callback) {
	if cb == nil {
		delete(r.callbacks, id)
		return
	}
	r.callbacks[id] = cb
}

// Lookup returns the callback registered for a widget.
func (r *Registry) Lookup(id widget.ID) (Callback, bool) {
	cb, ok := r.callbacks[id]
	return cb, ok
}

// Remove drops a widget's registration. Widgets should call it when they
// are destroyed.
func (r *Registry) Remove(id widget.ID) {
	delete(r.callbacks, id)
}

// Len returns the number of registered widgets.
func (r *Registry) Len() int {
	return len(r.callbacks)
}
