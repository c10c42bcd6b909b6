package editmode

import (
	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/snap"
)

// beginResize starts a resize gesture on a single widget. Multi-selection
// is irrelevant here: only the widget owning the handle resizes, and its
// linked neighbors move as a consequence. Linked neighbors are captured
// once at gesture start so the coupling stays stable through the whole
// gesture even if the edges separate mid-drag.
func (c *Controller) beginResize(id string, handle snap.Handle, p geometry.Point) {
	r, ok := c.store.Rect(id)
	if !ok {
		return
	}
	min, max := c.store.SizeLimits(id)
	c.resize = &resizeSession{
		id:        id,
		handle:    handle,
		start:     p,
		startRect: r,
		min:       min,
		max:       max,
		links:     c.engine.LinkedNeighbors(r, handle, map[string]bool{id: true}),
		limits:    c.store.SizeLimits,
	}
	c.phase = PhaseResizing
}

// updateResize recomputes the primary rectangle and its linked neighbors
// from the raw pointer delta:
//
//  1. The delta is clamped per axis against the tightest min/max bound
//     among the linked neighbors on that edge, so no neighbor is ever asked
//     to shrink below its minimum or grow beyond its maximum.
//  2. The constrained delta applies to the primary's own min/max-clamped
//     size; the edge opposite the handle stays fixed.
//  3. With no linked neighbors, free snapping runs instead. Linked resizing
//     and snapping are mutually exclusive within one gesture.
//  4. The result clamps to canvas bounds.
//  5. Each neighbor's rectangle derives from the delta the primary actually
//     applied, moving exactly the shared edge, then clamps to canvas too.
func (c *Controller) updateResize(p geometry.Point) {
	s := c.resize
	dx := p.X - s.start.X
	dy := p.Y - s.start.Y
	dx, dy = s.clampDeltaToLinks(dx, dy)

	r := s.applyDelta(dx, dy)

	if len(s.links) == 0 {
		res := c.engine.ForResize(r, s.handle, map[string]bool{s.id: true})
		r = s.clampSize(res.Rect)
		c.guides = res.Guides
	} else {
		c.guides = nil
	}

	size := c.bounds.Size()
	r = geometry.ClampToBounds(r, size)
	c.store.SetRect(s.id, r)

	for _, l := range s.links {
		nr := linkedRect(l, r)
		c.store.SetRect(l.ID, geometry.ClampToBounds(nr, size))
	}
}

// clampDeltaToLinks narrows the raw pointer delta so every linked neighbor
// stays within its own size limits.
func (s *resizeSession) clampDeltaToLinks(dx, dy float64) (float64, float64) {
	for _, l := range s.links {
		min, max := s.limits(l.ID)
		switch l.SharedEdge {
		case snap.EdgeRight:
			// Neighbor shrinks as the primary grows east.
			dx = geometry.Clamp(dx, l.Start.Width-max.Width, l.Start.Width-min.Width)
		case snap.EdgeLeft:
			// Neighbor grows as the primary's west edge moves right.
			dx = geometry.Clamp(dx, min.Width-l.Start.Width, max.Width-l.Start.Width)
		case snap.EdgeBottom:
			dy = geometry.Clamp(dy, l.Start.Height-max.Height, l.Start.Height-min.Height)
		case snap.EdgeTop:
			dy = geometry.Clamp(dy, min.Height-l.Start.Height, max.Height-l.Start.Height)
		}
	}
	return dx, dy
}

// applyDelta produces the primary rectangle for a constrained delta,
// clamping to the widget's own size limits while keeping the edge opposite
// the handle fixed.
func (s *resizeSession) applyDelta(dx, dy float64) geometry.Rect {
	r := s.startRect
	if s.handle.East() {
		r.Width = geometry.Clamp(s.startRect.Width+dx, s.min.Width, s.max.Width)
	}
	if s.handle.West() {
		r.Width = geometry.Clamp(s.startRect.Width-dx, s.min.Width, s.max.Width)
		r.X = s.startRect.Right() - r.Width
	}
	if s.handle.South() {
		r.Height = geometry.Clamp(s.startRect.Height+dy, s.min.Height, s.max.Height)
	}
	if s.handle.North() {
		r.Height = geometry.Clamp(s.startRect.Height-dy, s.min.Height, s.max.Height)
		r.Y = s.startRect.Bottom() - r.Height
	}
	return r
}

// clampSize re-applies the widget's own size limits after a snap, keeping
// the edge opposite the handle fixed.
func (s *resizeSession) clampSize(r geometry.Rect) geometry.Rect {
	w := geometry.Clamp(r.Width, s.min.Width, s.max.Width)
	h := geometry.Clamp(r.Height, s.min.Height, s.max.Height)
	if s.handle.West() {
		r.X = r.Right() - w
	}
	if s.handle.North() {
		r.Y = r.Bottom() - h
	}
	r.Width = w
	r.Height = h
	return r
}

// linkedRect derives a neighbor's rectangle from the primary's applied
// rectangle: exactly the shared edge moves, the neighbor's opposite edge
// stays where it was at gesture start.
func linkedRect(l snap.Link, primary geometry.Rect) geometry.Rect {
	r := l.Start
	switch l.SharedEdge {
	case snap.EdgeRight: // neighbor sits east; its west edge follows
		r.X = primary.Right()
		r.Width = l.Start.Right() - primary.Right()
	case snap.EdgeLeft: // neighbor sits west; its east edge follows
		r.Width = primary.X - l.Start.X
	case snap.EdgeBottom: // neighbor sits south; its north edge follows
		r.Y = primary.Bottom()
		r.Height = l.Start.Bottom() - primary.Bottom()
	case snap.EdgeTop: // neighbor sits north; its south edge follows
		r.Height = primary.Y - l.Start.Y
	}
	return r
}
