// Package snap implements edge and center alignment for overlay widgets.
//
// During a drag the engine nudges the moving widget onto the nearest sibling
// alignment within a pixel threshold and reports guide lines for the view to
// draw. During a resize it aligns only the edges the active handle moves.
// It also detects "linked" neighbors: siblings whose facing edge sits close
// enough to the resized edge that the two should shrink and grow in lockstep.
//
// Matching is first-match, not best-match: for each axis the candidate pairs
// are tested in a fixed priority order (edge-to-same-edge, edge-to-opposite-
// edge, center-to-center) against siblings in iteration order, and the first
// pair inside the threshold wins. Equally close candidates therefore resolve
// by sibling order. That quirk is kept deliberately; changing it to
// nearest-wins would visibly alter how layouts dock together.
package snap

import "github.com/nyk-lgtm/tli-tracker/pkg/geometry"

const (
	// DragThreshold is the maximum distance in canvas pixels at which a
	// dragged widget snaps to a sibling alignment.
	DragThreshold = 8.0

	// LinkThreshold is the maximum gap between two facing edges for the
	// widgets to count as linked during a resize. It is deliberately
	// tighter than DragThreshold: link detection wants near-zero gaps,
	// drag snapping wants to feel forgiving.
	LinkThreshold = 4.0
)

// Orientation distinguishes vertical guides (x alignments) from horizontal
// guides (y alignments).
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Guide is a transient alignment line produced while a snap is active.
// Coordinate is an X position for vertical guides and a Y position for
// horizontal ones.
type Guide struct {
	Orientation Orientation
	Coordinate  float64
}

// Target is a snap candidate: another visible, enabled widget on the canvas.
type Target struct {
	ID   string
	Rect geometry.Rect
}

// Engine computes snap adjustments against a live set of targets. The
// target source is queried on every call so the engine always sees current
// widget geometry.
type Engine struct {
	targets       func() []Target
	dragThreshold float64
	linkThreshold float64
}

// NewEngine returns an Engine drawing candidates from the given source.
func NewEngine(targets func() []Target) *Engine {
	return &Engine{
		targets:       targets,
		dragThreshold: DragThreshold,
		linkThreshold: LinkThreshold,
	}
}

// DragResult is the outcome of a drag snap: the adjusted origin plus the
// guides to display. Axes that did not snap pass the proposed coordinate
// through unchanged and contribute no guide.
type DragResult struct {
	X, Y   float64
	Guides []Guide
}

// ForDrag snaps a proposed widget rectangle against every target not in
// exclude. Each axis resolves independently; scanning stops early once both
// axes have snapped.
func (e *Engine) ForDrag(proposed geometry.Rect, exclude map[string]bool) DragResult {
	res := DragResult{X: proposed.X, Y: proposed.Y}
	xDone, yDone := false, false

	for _, t := range e.targets() {
		if exclude[t.ID] {
			continue
		}
		if !xDone {
			if x, guide, ok := e.snapAxisX(proposed, t.Rect); ok {
				res.X = x
				res.Guides = append(res.Guides, guide)
				xDone = true
			}
		}
		if !yDone {
			if y, guide, ok := e.snapAxisY(proposed, t.Rect); ok {
				res.Y = y
				res.Guides = append(res.Guides, guide)
				yDone = true
			}
		}
		if xDone && yDone {
			break
		}
	}
	return res
}

// snapAxisX tests the horizontal candidate pairs for one target in priority
// order: left-left, right-right, left-right, right-left, center-center.
// Returns the snapped X origin and a vertical guide at the alignment line.
func (e *Engine) snapAxisX(p, t geometry.Rect) (float64, Guide, bool) {
	type candidate struct {
		dist float64 // distance between the paired features
		x    float64 // snapped origin if this pair wins
		line float64 // guide coordinate
	}
	candidates := []candidate{
		{geometry.Abs(p.X - t.X), t.X, t.X},
		{geometry.Abs(p.Right() - t.Right()), t.Right() - p.Width, t.Right()},
		{geometry.Abs(p.X - t.Right()), t.Right(), t.Right()},
		{geometry.Abs(p.Right() - t.X), t.X - p.Width, t.X},
		{geometry.Abs(p.CenterX() - t.CenterX()), t.CenterX() - p.Width/2, t.CenterX()},
	}
	for _, c := range candidates {
		if c.dist < e.dragThreshold {
			return c.x, Guide{Orientation: Vertical, Coordinate: c.line}, true
		}
	}
	return 0, Guide{}, false
}

// snapAxisY is the vertical analogue of snapAxisX: top-top, bottom-bottom,
// top-bottom, bottom-top, center-center.
func (e *Engine) snapAxisY(p, t geometry.Rect) (float64, Guide, bool) {
	type candidate struct {
		dist float64
		y    float64
		line float64
	}
	candidates := []candidate{
		{geometry.Abs(p.Y - t.Y), t.Y, t.Y},
		{geometry.Abs(p.Bottom() - t.Bottom()), t.Bottom() - p.Height, t.Bottom()},
		{geometry.Abs(p.Y - t.Bottom()), t.Bottom(), t.Bottom()},
		{geometry.Abs(p.Bottom() - t.Y), t.Y - p.Height, t.Y},
		{geometry.Abs(p.CenterY() - t.CenterY()), t.CenterY() - p.Height/2, t.CenterY()},
	}
	for _, c := range candidates {
		if c.dist < e.dragThreshold {
			return c.y, Guide{Orientation: Horizontal, Coordinate: c.line}, true
		}
	}
	return 0, Guide{}, false
}

// ResizeResult is the outcome of a resize snap: the adjusted rectangle plus
// guides for any edges that aligned.
type ResizeResult struct {
	Rect   geometry.Rect
	Guides []Guide
}

// ForResize snaps only the edges the handle moves, keeping each opposite
// edge fixed: a snapped east edge adjusts width, a snapped west edge adjusts
// both origin and width, and so on. The widget's own id is excluded via the
// exclude set exactly as in ForDrag.
func (e *Engine) ForResize(proposed geometry.Rect, handle Handle, exclude map[string]bool) ResizeResult {
	res := ResizeResult{Rect: proposed}

	if handle.East() || handle.West() {
		if edge, guide, ok := e.snapEdgeX(proposed, handle, exclude); ok {
			if handle.East() {
				res.Rect.Width = edge - res.Rect.X
			} else {
				res.Rect.Width = res.Rect.Right() - edge
				res.Rect.X = edge
			}
			res.Guides = append(res.Guides, guide)
		}
	}
	if handle.North() || handle.South() {
		if edge, guide, ok := e.snapEdgeY(proposed, handle, exclude); ok {
			if handle.South() {
				res.Rect.Height = edge - res.Rect.Y
			} else {
				res.Rect.Height = res.Rect.Bottom() - edge
				res.Rect.Y = edge
			}
			res.Guides = append(res.Guides, guide)
		}
	}
	return res
}

// snapEdgeX finds an alignment for the moving vertical edge (east or west)
// against target edges and centers, same-edge pairs first.
func (e *Engine) snapEdgeX(p geometry.Rect, handle Handle, exclude map[string]bool) (float64, Guide, bool) {
	moving := p.X
	if handle.East() {
		moving = p.Right()
	}
	for _, t := range e.targets() {
		if exclude[t.ID] {
			continue
		}
		var lines []float64
		if handle.East() {
			lines = []float64{t.Rect.Right(), t.Rect.X, t.Rect.CenterX()}
		} else {
			lines = []float64{t.Rect.X, t.Rect.Right(), t.Rect.CenterX()}
		}
		for _, line := range lines {
			if geometry.Abs(moving-line) < e.dragThreshold {
				return line, Guide{Orientation: Vertical, Coordinate: line}, true
			}
		}
	}
	return 0, Guide{}, false
}

// snapEdgeY is the horizontal-edge analogue of snapEdgeX.
func (e *Engine) snapEdgeY(p geometry.Rect, handle Handle, exclude map[string]bool) (float64, Guide, bool) {
	moving := p.Y
	if handle.South() {
		moving = p.Bottom()
	}
	for _, t := range e.targets() {
		if exclude[t.ID] {
			continue
		}
		var lines []float64
		if handle.South() {
			lines = []float64{t.Rect.Bottom(), t.Rect.Y, t.Rect.CenterY()}
		} else {
			lines = []float64{t.Rect.Y, t.Rect.Bottom(), t.Rect.CenterY()}
		}
		for _, line := range lines {
			if geometry.Abs(moving-line) < e.dragThreshold {
				return line, Guide{Orientation: Horizontal, Coordinate: line}, true
			}
		}
	}
	return 0, Guide{}, false
}
