// Package geometry provides the shared geometric primitives for the overlay
// canvas: points, sizes, and rectangles in canvas pixel coordinates, plus the
// canvas bounds provider used to keep widgets on-screen.
//
// Coordinates use a top-left origin and float64 pixels. The terminal view is
// a scaled projection of this model; nothing in this package knows about
// cells, ANSI, or rendering.
package geometry

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in canvas pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// CenterX returns the X coordinate of the horizontal center.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// CenterY returns the Y coordinate of the vertical center.
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// Contains reports whether the point p lies within the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns a copy of the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// OverlapsVertically reports whether the vertical extents of two rectangles
// overlap. Touching edges do not count as overlap.
func (r Rect) OverlapsVertically(other Rect) bool {
	return r.Y < other.Bottom() && other.Y < r.Bottom()
}

// OverlapsHorizontally reports whether the horizontal extents of two
// rectangles overlap. Touching edges do not count as overlap.
func (r Rect) OverlapsHorizontally(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right()
}

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts v to the range [lo, hi]. If lo > hi, hi wins: an
// oversized rect clamps to a negative origin so its far edge stays on
// the canvas.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
