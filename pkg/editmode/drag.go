package editmode

import (
	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
)

// beginDrag captures the start rectangle of every selected widget. The
// clicked widget becomes the primary: it alone drives snap decisions while
// the rest of the selection follows rigidly.
func (c *Controller) beginDrag(primary string, p geometry.Point) {
	starts := make(map[string]geometry.Rect, len(c.selected))
	for id := range c.selected {
		if r, ok := c.store.Rect(id); ok {
			starts[id] = r
		}
	}
	if _, ok := starts[primary]; !ok {
		return
	}
	c.drag = &dragSession{primary: primary, start: p, startRects: starts}
	c.phase = PhaseDragging
}

// updateDrag recomputes positions from the pointer delta. Only the primary
// widget is snapped, against all widgets outside the selection; the snapped
// delta is then applied identically to every selected widget's own start
// position so relative offsets within the selection are preserved exactly.
// Each widget clamps to canvas bounds individually.
func (c *Controller) updateDrag(p geometry.Point) {
	d := c.drag
	primaryStart := d.startRects[d.primary]

	dx := p.X - d.start.X
	dy := p.Y - d.start.Y
	proposed := primaryStart.Translate(dx, dy)

	res := c.engine.ForDrag(proposed, c.excludeSelection())
	c.guides = res.Guides

	snappedDX := res.X - primaryStart.X
	snappedDY := res.Y - primaryStart.Y

	size := c.bounds.Size()
	for id, start := range d.startRects {
		moved := start.Translate(snappedDX, snappedDY)
		c.store.SetRect(id, geometry.ClampToBounds(moved, size))
	}
}
