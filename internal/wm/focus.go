package wm

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagwm/internal/geom"
)

// Direction is a cardinal direction for focus navigation.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// axisDistance returns how far to travels from from in direction d, and
// whether to lies strictly on that side of from.
func axisDistance(from, to geom.Point, d Direction) (int, bool) {
	switch d {
	case Left:
		return from.X - to.X, to.X < from.X
	case Right:
		return to.X - from.X, to.X > from.X
	case Up:
		return from.Y - to.Y, to.Y < from.Y
	case Down:
		return to.Y - from.Y, to.Y > from.Y
	}
	return 0, false
}

// FocusDirection moves focus from the focused window to the nearest visible
// window of the current tag whose center lies strictly in direction d.
// Distance is measured along d's axis only; ties go to the window earlier
// in the tag list. It reports whether focus moved.
func (m *Manager) FocusDirection(d Direction) bool {
	moved := false
	_ = m.run(func() error {
		t := m.tags[m.current]
		cur, ok := m.reg.Get(t.Focused)
		if !ok {
			return nil
		}
		from := cur.Geometry.Center()

		best := NoWindow
		bestDist := math.MaxInt
		for _, id := range t.Windows {
			if id == cur.ID {
				continue
			}
			w, ok := m.reg.Get(id)
			if !ok || w.Minimized {
				continue
			}
			dist, ok := axisDistance(from, w.Geometry.Center(), d)
			if ok && dist < bestDist {
				best, bestDist = id, dist
			}
		}
		if best != NoWindow {
			t.Focused = best
			moved = true
		}
		return nil
	})
	return moved
}

// WindowAt returns the topmost visible window of the current tag under p.
// Fullscreen windows are above floating ones, which are above tiled ones;
// within a class later windows are on top, except that the focused tiled
// window is on top of the other tiled windows.
func (m *Manager) WindowAt(p geom.Point) (WindowID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.windowAtLocked(p)
}

func (m *Manager) windowAtLocked(p geom.Point) (WindowID, bool) {
	t := m.tags[m.current]
	rank := func(w *Window) int {
		switch {
		case w.Fullscreen:
			return 3
		case m.floatsLocked(w):
			return 2
		case w.ID == t.Focused:
			return 1
		}
		return 0
	}

	best := NoWindow
	bestRank := -1
	for i := len(t.Windows) - 1; i >= 0; i-- {
		w, ok := m.reg.Get(t.Windows[i])
		if !ok || w.Minimized || !w.Geometry.Contains(p) {
			continue
		}
		if r := rank(w); r > bestRank {
			best, bestRank = w.ID, r
		}
	}
	return best, best != NoWindow
}

// FocusAt focuses the topmost window under p. It reports whether a window
// was hit.
func (m *Manager) FocusAt(p geom.Point) bool {
	hit := false
	_ = m.run(func() error {
		id, ok := m.windowAtLocked(p)
		if !ok {
			return nil
		}
		m.tags[m.current].Focused = id
		hit = true
		return nil
	})
	return hit
}
