package wm

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagwm/internal/geom"
)

func TestDragRect(t *testing.T) {
	origin := geom.Rect{X: 100, Y: 50, Width: 400, Height: 300}
	tests := []struct {
		name   string
		resize bool
		to     geom.Point
		want   geom.Rect
	}{
		{"move", false, geom.Point{X: 30, Y: -20}, geom.Rect{X: 120, Y: 20, Width: 400, Height: 300}},
		{"grow", true, geom.Point{X: 60, Y: 40}, geom.Rect{X: 100, Y: 50, Width: 450, Height: 330}},
		{"shrink clamps", true, geom.Point{X: -900, Y: -900}, geom.Rect{X: 100, Y: 50, Width: MinDragSize, Height: MinDragSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Drag{Resize: tt.resize, Start: geom.Point{X: 10, Y: 10}, Origin: origin}
			if diff := cmp.Diff(tt.want, d.Rect(tt.to)); diff != "" {
				t.Fatalf("rect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBeginDrag_FloatsTiledWindow(t *testing.T) {
	m, rec := newTestManager(t, testConfig())
	a := mustAdd(t, m, "A", 0)
	b := mustAdd(t, m, "B", 0)

	d, err := m.BeginDrag(a, geom.Point{X: 100, Y: 100}, false)
	if err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	wa, _ := m.Window(a)
	if !wa.Floating {
		t.Fatalf("expected dragged window to float")
	}
	if diff := cmp.Diff(geom.Rect{Width: 600, Height: 800}, d.Origin); diff != "" {
		t.Fatalf("origin mismatch (-want +got):\n%s", diff)
	}
	if m.CurrentTag().Focused != a {
		t.Fatalf("expected dragged window focused")
	}
	wb, _ := m.Window(b)
	if diff := cmp.Diff(geom.Rect{Width: 1000, Height: 800}, wb.Geometry); diff != "" {
		t.Fatalf("remaining window not re-tiled (-want +got):\n%s", diff)
	}

	rec.reset()
	if err := m.DragTo(d, geom.Point{X: 150, Y: 130}); err != nil {
		t.Fatalf("drag: %v", err)
	}
	want := geom.Rect{X: 50, Y: 30, Width: 600, Height: 800}
	wa, _ = m.Window(a)
	if diff := cmp.Diff(want, wa.Geometry); diff != "" {
		t.Fatalf("geometry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Placement{{ID: a, Rect: want}}, rec.last(t).Placements); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
	checkInvariants(t, m)
}

func TestBeginDrag_FloatingLayoutKeepsTiledFlag(t *testing.T) {
	m, _ := newTestManager(t, testConfig())
	a := mustAdd(t, m, "A", 0)
	if err := m.SetLayout("floating"); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if err := m.Configure(a, geom.Rect{X: 20, Y: 20, Width: 300, Height: 200}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	d, err := m.BeginDrag(a, geom.Point{X: 10, Y: 10}, true)
	if err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	if w, _ := m.Window(a); w.Floating {
		t.Fatalf("expected floating flag untouched on a floating layout")
	}
	if err := m.DragTo(d, geom.Point{X: 60, Y: 110}); err != nil {
		t.Fatalf("drag: %v", err)
	}
	w, _ := m.Window(a)
	if w.Geometry.Width != 350 || w.Geometry.Height != 300 {
		t.Fatalf("expected resize to 350x300, got %v", w.Geometry)
	}
}

func TestBeginDrag_Refused(t *testing.T) {
	m, _ := newTestManager(t, testConfig())
	a := mustAdd(t, m, "A", 0)
	hidden := mustAdd(t, m, "H", 1)
	if err := m.SetFullscreen(a, true); err != nil {
		t.Fatalf("fullscreen: %v", err)
	}

	for name, id := range map[string]WindowID{"fullscreen": a, "hidden tag": hidden} {
		if _, err := m.BeginDrag(id, geom.Point{}, false); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}
	if _, err := m.BeginDrag(NoWindow, geom.Point{}, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.DragTo(Drag{}, geom.Point{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for an empty drag, got %v", err)
	}
}
