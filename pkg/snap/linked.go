package snap

import "github.com/nyk-lgtm/tli-tracker/pkg/geometry"

// Edge names one side of a widget rectangle.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// Link records a neighbor coupled to a resize gesture. SharedEdge is the
// edge of the resized widget; LinkedEdge is the facing edge of the neighbor.
// Start is the neighbor's rectangle at gesture start, the baseline the
// coupled shrink/grow is computed from.
type Link struct {
	ID         string
	SharedEdge Edge
	LinkedEdge Edge
	Start      geometry.Rect
}

// LinkedNeighbors finds every target whose facing edge lies within
// LinkThreshold of the edges the handle moves, and whose perpendicular
// extent overlaps the resized widget's. A widget resized on its east edge
// links to neighbors whose west edge is adjacent; the other compass
// directions are analogous. Corner handles collect links for both of their
// component edges.
func (e *Engine) LinkedNeighbors(r geometry.Rect, handle Handle, exclude map[string]bool) []Link {
	var links []Link
	for _, t := range e.targets() {
		if exclude[t.ID] {
			continue
		}
		if handle.East() &&
			geometry.Abs(r.Right()-t.Rect.X) <= e.linkThreshold &&
			r.OverlapsVertically(t.Rect) {
			links = append(links, Link{ID: t.ID, SharedEdge: EdgeRight, LinkedEdge: EdgeLeft, Start: t.Rect})
		}
		if handle.West() &&
			geometry.Abs(r.X-t.Rect.Right()) <= e.linkThreshold &&
			r.OverlapsVertically(t.Rect) {
			links = append(links, Link{ID: t.ID, SharedEdge: EdgeLeft, LinkedEdge: EdgeRight, Start: t.Rect})
		}
		if handle.South() &&
			geometry.Abs(r.Bottom()-t.Rect.Y) <= e.linkThreshold &&
			r.OverlapsHorizontally(t.Rect) {
			links = append(links, Link{ID: t.ID, SharedEdge: EdgeBottom, LinkedEdge: EdgeTop, Start: t.Rect})
		}
		if handle.North() &&
			geometry.Abs(r.Y-t.Rect.Bottom()) <= e.linkThreshold &&
			r.OverlapsHorizontally(t.Rect) {
			links = append(links, Link{ID: t.ID, SharedEdge: EdgeTop, LinkedEdge: EdgeBottom, Start: t.Rect})
		}
	}
	return links
}
