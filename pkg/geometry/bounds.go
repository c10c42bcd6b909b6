package geometry

import (
	"math"
	"sync/atomic"
)

// Bounds reports the drawable surface the overlay occupies. Implementations
// must return the live size on every call so that window and monitor resizes
// are reflected immediately.
type Bounds interface {
	Size() Size
}

// ClampToBounds adjusts the origin of r so the rectangle lies fully inside a
// canvas of the given size. Width and height pass through unchanged. If the
// rectangle is larger than the canvas on an axis, the origin goes negative on
// that axis; callers treat that as acceptable rather than an error.
func ClampToBounds(r Rect, s Size) Rect {
	r.X = Clamp(r.X, 0, s.Width-r.Width)
	r.Y = Clamp(r.Y, 0, s.Height-r.Height)
	return r
}

// LiveBounds is a Bounds implementation backed by an atomically updated
// size. The bridge layer stores new dimensions whenever the host resizes the
// overlay surface; gesture code reads them without coordination.
type LiveBounds struct {
	width  atomic.Uint64
	height atomic.Uint64
}

// NewLiveBounds returns a LiveBounds initialized to the given size.
func NewLiveBounds(s Size) *LiveBounds {
	b := &LiveBounds{}
	b.Set(s)
	return b
}

// Size returns the most recently stored canvas size.
func (b *LiveBounds) Size() Size {
	return Size{
		Width:  float64FromBits(b.width.Load()),
		Height: float64FromBits(b.height.Load()),
	}
}

// Set stores a new canvas size. Negative dimensions are treated as zero.
func (b *LiveBounds) Set(s Size) {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	b.width.Store(float64ToBits(s.Width))
	b.height.Store(float64ToBits(s.Height))
}

// Clamp clamps r against the current live size.
func (b *LiveBounds) Clamp(r Rect) Rect {
	return ClampToBounds(r, b.Size())
}

func float64ToBits(f float64) uint64   { return math.Float64bits(f) }
func float64FromBits(u uint64) float64 { return math.Float64frombits(u) }
