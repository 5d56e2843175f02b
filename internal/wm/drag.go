package wm

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/geom"
)

// MinDragSize is the smallest width or height a pointer resize produces.
const MinDragSize = 32

// Drag is a pointer move or resize in progress. Resizes pull the
// bottom-right corner.
type Drag struct {
	ID     WindowID
	Resize bool
	Start  geom.Point
	Origin geom.Rect
}

// Rect returns the window geometry for pointer position p.
func (d Drag) Rect(p geom.Point) geom.Rect {
	dx, dy := p.X-d.Start.X, p.Y-d.Start.Y
	r := d.Origin
	if !d.Resize {
		r.X += dx
		r.Y += dy
		return r
	}
	r.Width = uint(max(int(d.Origin.Width)+dx, MinDragSize))
	r.Height = uint(max(int(d.Origin.Height)+dy, MinDragSize))
	return r
}

// BeginDrag starts dragging id from pointer position p. The window must
// be visible on the current tag and not fullscreen. It is focused and,
// unless its tag already uses the floating layout, made floating at its
// current geometry.
func (m *Manager) BeginDrag(id WindowID, p geom.Point, resize bool) (Drag, error) {
	var d Drag
	err := m.run(func() error {
		w, ok := m.reg.Get(id)
		if !ok {
			return fmt.Errorf("window %s: %w", id, ErrNotFound)
		}
		if !m.visibleLocked(w) || w.Fullscreen {
			return fmt.Errorf("%w: window %s cannot be dragged", ErrInvalidArgument, id)
		}
		m.tags[w.Tag].Focused = id
		if !m.floatsLocked(w) {
			if err := m.setFloatingLocked(id, true); err != nil {
				return err
			}
		}
		d = Drag{ID: id, Resize: resize, Start: p, Origin: w.Geometry}
		return nil
	})
	return d, err
}

// DragTo moves or resizes the dragged window for pointer position p.
func (m *Manager) DragTo(d Drag, p geom.Point) error {
	if !d.ID.Valid() {
		return fmt.Errorf("%w: no window is being dragged", ErrInvalidArgument)
	}
	return m.Configure(d.ID, d.Rect(p))
}
