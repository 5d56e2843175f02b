package geom

import "fmt"

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	X      int  `json:"x" yaml:"x"`
	Y      int  `json:"y" yaml:"y"`
	Width  uint `json:"width" yaml:"width"`
	Height uint `json:"height" yaml:"height"`
}

// New builds a Rect from signed sizes, clamping negative sizes to zero.
func New(x, y, width, height int) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: uint(width), Height: uint(height)}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + int(r.Width) }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + int(r.Height) }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width == 0 || r.Height == 0 }

// Contains reports whether p lies inside r using half-open intervals.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Center returns the integer center of r.
func (r Rect) Center() Point {
	return Point{X: r.X + int(r.Width)/2, Y: r.Y + int(r.Height)/2}
}

// Inset shrinks r by n on every side.
func (r Rect) Inset(n int) Rect {
	return New(r.X+n, r.Y+n, int(r.Width)-2*n, int(r.Height)-2*n)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
