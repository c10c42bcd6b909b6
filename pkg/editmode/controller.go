// Package editmode owns the overlay's layout-editing interaction: the
// idle/dragging/resizing state machine, the multi-selection set, pointer
// routing, and the linked-resize constraint solver that propagates a resize
// into coupled shrink/grow of edge-sharing neighbors.
//
// The controller is a plain instance with injected collaborators (canvas
// bounds, snap engine, widget store, persist callback) so it can be driven
// headless in tests and multiple canvases can coexist. All geometry comes
// from the in-memory widget model, never from the rendered view. Gestures
// have an explicit lifecycle: PointerDown begins one, PointerMove advances
// it against current session state, PointerUp commits it. Releasing the
// pointer always commits the last computed layout; there is no
// escape-to-abort.
//
// All methods must be called from a single goroutine (the UI update loop).
package editmode

import (
	"log/slog"

	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/snap"
)

// HandleHitRadius is the pick distance in canvas pixels around each compass
// handle point.
const HandleHitRadius = 6.0

// Phase is the controller's interaction state.
type Phase int

const (
	PhaseDisabled Phase = iota
	PhaseIdle
	PhaseDragging
	PhaseResizing
)

// Modifier carries the keyboard modifiers active during a pointer event.
type Modifier int

const (
	ModNone Modifier = iota
	// ModToggle is ctrl/cmd: toggles selection membership instead of
	// replacing the selection and never starts a drag.
	ModToggle
)

// Store is the widget state the controller reads and mutates. Implemented
// by the widget registry.
type Store interface {
	// Widgets returns every enabled widget as id plus current rectangle,
	// in z-order (last entry is topmost).
	Widgets() []snap.Target
	// Rect returns the current rectangle of the widget, or false if the
	// widget is unknown or disabled.
	Rect(id string) (geometry.Rect, bool)
	// SetRect replaces the widget's rectangle. Unknown ids are ignored.
	SetRect(id string, r geometry.Rect)
	// SizeLimits returns the min and max size for the widget's type.
	SizeLimits(id string) (min, max geometry.Size)
}

// Controller runs edit-mode interaction for one canvas.
type Controller struct {
	store   Store
	bounds  geometry.Bounds
	engine  *snap.Engine
	persist func() error
	log     *slog.Logger

	phase    Phase
	selected map[string]bool
	guides   []snap.Guide

	drag   *dragSession
	resize *resizeSession
}

type dragSession struct {
	primary    string
	start      geometry.Point
	startRects map[string]geometry.Rect
}

type resizeSession struct {
	id        string
	handle    snap.Handle
	start     geometry.Point
	startRect geometry.Rect
	min, max  geometry.Size
	links     []snap.Link
	limits    func(id string) (min, max geometry.Size)
}

// New returns a disabled Controller over the given collaborators. persist
// is invoked when edit mode is left; it may be nil.
func New(store Store, bounds geometry.Bounds, engine *snap.Engine, persist func() error, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		store:    store,
		bounds:   bounds,
		engine:   engine,
		persist:  persist,
		log:      log,
		phase:    PhaseDisabled,
		selected: make(map[string]bool),
	}
}

// Enabled reports whether edit mode is active.
func (c *Controller) Enabled() bool {
	return c.phase != PhaseDisabled
}

// Phase returns the current interaction state.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Guides returns the alignment guides for the in-progress gesture. Empty
// outside an active drag or resize.
func (c *Controller) Guides() []snap.Guide {
	return c.guides
}

// Selected reports whether the widget is in the current selection.
func (c *Controller) Selected(id string) bool {
	return c.selected[id]
}

// SelectionCount returns the number of selected widgets.
func (c *Controller) SelectionCount() int {
	return len(c.selected)
}

// SetEnabled flips edit mode on or off, driven by the host's edit_mode
// signal. Leaving edit mode clears the selection, abandons any in-progress
// gesture bookkeeping, and persists the current layout. Persistence is
// fire-and-forget: a failure is logged and edit mode still exits cleanly.
func (c *Controller) SetEnabled(enabled bool) {
	if enabled == c.Enabled() {
		return
	}
	if enabled {
		c.phase = PhaseIdle
		return
	}

	c.phase = PhaseDisabled
	c.selected = make(map[string]bool)
	c.guides = nil
	c.drag = nil
	c.resize = nil

	if c.persist != nil {
		if err := c.persist(); err != nil {
			c.log.Error("widget layout save failed", "error", err)
		}
	}
}

// PointerDown routes a press while edit mode is enabled. Resize handles win
// over widget bodies; widget bodies win over empty canvas. A press on empty
// canvas clears the selection.
func (c *Controller) PointerDown(p geometry.Point, mod Modifier) {
	if c.phase != PhaseIdle {
		return
	}

	if id, handle, ok := c.handleAt(p); ok {
		c.beginResize(id, handle, p)
		return
	}

	if id, ok := c.widgetAt(p); ok {
		if mod == ModToggle {
			c.toggleSelection(id)
			return
		}
		if !c.selected[id] {
			c.selected = map[string]bool{id: true}
		}
		c.beginDrag(id, p)
		return
	}

	c.selected = make(map[string]bool)
}

// PointerMove advances the active gesture, if any.
func (c *Controller) PointerMove(p geometry.Point) {
	switch c.phase {
	case PhaseDragging:
		c.updateDrag(p)
	case PhaseResizing:
		c.updateResize(p)
	}
}

// PointerUp commits the active gesture. The last computed layout stands;
// there is no revert path.
func (c *Controller) PointerUp() {
	switch c.phase {
	case PhaseDragging, PhaseResizing:
		c.phase = PhaseIdle
		c.drag = nil
		c.resize = nil
		c.guides = nil
	}
}

func (c *Controller) toggleSelection(id string) {
	if c.selected[id] {
		delete(c.selected, id)
	} else {
		c.selected[id] = true
	}
}

// widgetAt returns the topmost enabled widget under the point.
func (c *Controller) widgetAt(p geometry.Point) (string, bool) {
	widgets := c.store.Widgets()
	for i := len(widgets) - 1; i >= 0; i-- {
		if widgets[i].Rect.Contains(p) {
			return widgets[i].ID, true
		}
	}
	return "", false
}

// handleAt returns the widget whose compass handle lies within
// HandleHitRadius of the point. Handles sit at the corners and edge
// midpoints of every editable widget. Widgets butted flush against each
// other share handle positions, so selected widgets are checked first,
// topmost first within each pass.
func (c *Controller) handleAt(p geometry.Point) (string, snap.Handle, bool) {
	widgets := c.store.Widgets()
	for _, wantSelected := range []bool{true, false} {
		for i := len(widgets) - 1; i >= 0; i-- {
			w := widgets[i]
			if c.selected[w.ID] != wantSelected {
				continue
			}
			for _, h := range snap.Handles {
				hp := handlePoint(w.Rect, h)
				if geometry.Abs(p.X-hp.X) <= HandleHitRadius && geometry.Abs(p.Y-hp.Y) <= HandleHitRadius {
					return w.ID, h, true
				}
			}
		}
	}
	return "", "", false
}

// handlePoint returns the canvas position of a compass handle on the
// rectangle's border.
func handlePoint(r geometry.Rect, h snap.Handle) geometry.Point {
	x := r.CenterX()
	if h.West() {
		x = r.X
	} else if h.East() {
		x = r.Right()
	}
	y := r.CenterY()
	if h.North() {
		y = r.Y
	} else if h.South() {
		y = r.Bottom()
	}
	return geometry.Point{X: x, Y: y}
}

// excludeSelection returns the selection as a snap exclude set so that
// selected widgets never snap to each other.
func (c *Controller) excludeSelection() map[string]bool {
	exclude := make(map[string]bool, len(c.selected))
	for id := range c.selected {
		exclude[id] = true
	}
	return exclude
}
