package wm

import "github.com/1broseidon/tagwm/internal/geom"

// Window is the record kept for every managed top-level window.
type Window struct {
	ID         WindowID  `json:"id"`
	Title      string    `json:"title"`
	Class      string    `json:"class"`
	Instance   string    `json:"instance,omitempty"`
	Tag        TagID     `json:"tag"`
	Floating   bool      `json:"floating"`
	Minimized  bool      `json:"minimized"`
	Fullscreen bool      `json:"fullscreen"`
	Geometry   geom.Rect `json:"geometry"`
	// RequestedGeometry holds the client-requested or pre-fullscreen
	// geometry so it can be restored.
	RequestedGeometry geom.Rect `json:"requested_geometry"`
}

// Tiled reports whether the layout engine positions the window.
func (w *Window) Tiled() bool {
	return !w.Floating && !w.Minimized && !w.Fullscreen
}

type slot struct {
	gen uint32
	win *Window
}

// Registry is an arena of window records addressed by generational ids.
// Freed slots are reused with a bumped generation so stale ids never
// resolve to a newer window.
type Registry struct {
	slots []slot
	free  []uint32
	count int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Insert stores w and returns its new id. w.ID is overwritten.
func (r *Registry) Insert(w Window) WindowID {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}
	s := &r.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	w.ID = makeWindowID(idx, s.gen)
	s.win = &w
	r.count++
	return w.ID
}

// Get returns the record for id, or nil and false if id is stale or unknown.
func (r *Registry) Get(id WindowID) (*Window, bool) {
	if !id.Valid() {
		return nil, false
	}
	idx := id.slot()
	if int(idx) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[idx]
	if s.win == nil || s.gen != id.generation() {
		return nil, false
	}
	return s.win, true
}

// Remove deletes the record for id and returns it.
func (r *Registry) Remove(id WindowID) (Window, bool) {
	w, ok := r.Get(id)
	if !ok {
		return Window{}, false
	}
	out := *w
	r.slots[id.slot()].win = nil
	r.free = append(r.free, id.slot())
	r.count--
	return out, true
}

// Len returns the number of live records.
func (r *Registry) Len() int { return r.count }

// Each calls fn for every live record in slot order.
func (r *Registry) Each(fn func(*Window)) {
	for i := range r.slots {
		if w := r.slots[i].win; w != nil {
			fn(w)
		}
	}
}
