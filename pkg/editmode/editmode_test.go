package editmode

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/snap"
)

func rect(x, y, w, h float64) geometry.Rect {
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}
}

// fakeStore is an in-memory Store with per-widget size limits.
type fakeStore struct {
	order  []string
	rects  map[string]geometry.Rect
	minima map[string]geometry.Size
	maxima map[string]geometry.Size
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rects:  make(map[string]geometry.Rect),
		minima: make(map[string]geometry.Size),
		maxima: make(map[string]geometry.Size),
	}
}

func (s *fakeStore) add(id string, r geometry.Rect, min, max geometry.Size) {
	s.order = append(s.order, id)
	s.rects[id] = r
	s.minima[id] = min
	s.maxima[id] = max
}

func (s *fakeStore) Widgets() []snap.Target {
	out := make([]snap.Target, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, snap.Target{ID: id, Rect: s.rects[id]})
	}
	return out
}

func (s *fakeStore) Rect(id string) (geometry.Rect, bool) {
	r, ok := s.rects[id]
	return r, ok
}

func (s *fakeStore) SetRect(id string, r geometry.Rect) {
	if _, ok := s.rects[id]; ok {
		s.rects[id] = r
	}
}

func (s *fakeStore) SizeLimits(id string) (geometry.Size, geometry.Size) {
	return s.minima[id], s.maxima[id]
}

var (
	defaultMin = geometry.Size{Width: 100, Height: 50}
	defaultMax = geometry.Size{Width: 400, Height: 300}
)

func newController(s *fakeStore, persist func() error) *Controller {
	bounds := geometry.NewLiveBounds(geometry.Size{Width: 1920, Height: 1080})
	engine := snap.NewEngine(s.Widgets)
	c := New(s, bounds, engine, persist, slog.Default())
	c.SetEnabled(true)
	return c
}

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

// clickBody presses and releases on a widget's interior, away from handles.
func clickBody(c *Controller, s *fakeStore, id string) {
	r := s.rects[id]
	c.PointerDown(pt(r.X+r.Width/4, r.Y+r.Height/4), ModNone)
	c.PointerUp()
}

func TestDisabledIgnoresPointer(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	c := newController(s, nil)
	c.SetEnabled(false)

	c.PointerDown(pt(150, 125), ModNone)
	if c.Phase() != PhaseDisabled {
		t.Errorf("phase: got %v, want disabled", c.Phase())
	}
	if c.SelectionCount() != 0 {
		t.Errorf("selection changed while disabled")
	}
}

func TestDisablePersistsAndClearsSelection(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)

	saves := 0
	c := newController(s, func() error {
		saves++
		return nil
	})

	clickBody(c, s, "a")
	if !c.Selected("a") {
		t.Fatal("click must select the widget")
	}

	c.SetEnabled(false)
	if saves != 1 {
		t.Errorf("persist calls: got %d, want 1", saves)
	}
	if c.SelectionCount() != 0 {
		t.Errorf("selection not cleared on exit")
	}

	// A failing save still exits edit mode and does not block re-entry.
	c2 := newController(s, func() error { return errors.New("bridge down") })
	c2.SetEnabled(false)
	if c2.Enabled() {
		t.Error("edit mode did not exit on save failure")
	}
	c2.SetEnabled(true)
	if !c2.Enabled() {
		t.Error("could not re-enter edit mode after save failure")
	}
}

func TestModifierClickTogglesWithoutDragging(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("b", rect(400, 300, 150, 80), defaultMin, defaultMax)
	s.add("c", rect(800, 500, 150, 80), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")

	// Ctrl-click an unselected widget: grows the selection, no drag starts.
	c.PointerDown(pt(440, 320), ModToggle)
	if c.Phase() != PhaseIdle {
		t.Errorf("modifier click started a gesture: phase %v", c.Phase())
	}
	c.PointerUp()
	if c.SelectionCount() != 2 || !c.Selected("a") || !c.Selected("b") {
		t.Errorf("selection after toggle: count=%d", c.SelectionCount())
	}

	// Plain click on a third widget collapses the selection to it.
	clickBody(c, s, "c")
	if c.SelectionCount() != 1 || !c.Selected("c") {
		t.Errorf("plain click must replace selection: count=%d", c.SelectionCount())
	}

	// Ctrl-click a selected widget removes it.
	c.PointerDown(pt(840, 520), ModToggle)
	c.PointerUp()
	if c.SelectionCount() != 0 {
		t.Errorf("toggle off failed: count=%d", c.SelectionCount())
	}
}

func TestEmptyCanvasClickClearsSelection(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(1000, 900), ModNone)
	c.PointerUp()
	if c.SelectionCount() != 0 {
		t.Errorf("selection not cleared: count=%d", c.SelectionCount())
	}
}

func TestMultiSelectRigidTranslation(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("b", rect(400, 300, 150, 80), defaultMin, defaultMax)
	s.add("c", rect(500, 95, 100, 100), defaultMin, defaultMax) // snap donor
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(440, 320), ModToggle)
	c.PointerUp()

	// Drag the primary; its top edge lands 3px from c's top and snaps.
	c.PointerDown(pt(150, 125), ModNone)
	c.PointerMove(pt(205, 123))
	c.PointerUp()

	a := s.rects["a"]
	b := s.rects["b"]
	if a.Y != 95 {
		t.Errorf("primary snapped y: got %v, want 95", a.Y)
	}
	// Rigid translation: the initial offset between b and a is exact.
	if b.X-a.X != 300 || b.Y-a.Y != 200 {
		t.Errorf("selection offset drifted: (%v, %v)", b.X-a.X, b.Y-a.Y)
	}
}

func TestSelectedWidgetsNeverSnapToEachOther(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("b", rect(400, 104, 150, 80), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(440, 130), ModToggle)
	c.PointerUp()

	// b's top edge is 4px from a's, but both are selected: no snap.
	c.PointerDown(pt(150, 125), ModNone)
	c.PointerMove(pt(151, 126))
	c.PointerUp()

	a := s.rects["a"]
	if a.X != 101 || a.Y != 101 {
		t.Errorf("unexpected snap within selection: %+v", a)
	}
}

func TestDragClampsToCanvas(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(1700, 950, 200, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	c.PointerDown(pt(1750, 975), ModNone)
	c.PointerMove(pt(1950, 1175))
	c.PointerUp()

	if got := s.rects["a"]; got != rect(1720, 980, 200, 100) {
		t.Errorf("clamped drag: got %+v", got)
	}
}

func TestLinkedResizeConservation(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("b", rect(300, 100, 150, 100), defaultMin, defaultMax) // flush east neighbor
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(300, 150), ModNone) // a's east handle
	if c.Phase() != PhaseResizing {
		t.Fatalf("phase: got %v, want resizing", c.Phase())
	}
	c.PointerMove(pt(330, 150))
	c.PointerUp()

	a, b := s.rects["a"], s.rects["b"]
	if a.Width != 230 {
		t.Errorf("a width: got %v, want 230", a.Width)
	}
	if b.Width != 120 {
		t.Errorf("b width: got %v, want 120 (shrinks by what a grows)", b.Width)
	}
	if b.X != a.Right() {
		t.Errorf("shared edge separated: b.x=%v a.right=%v", b.X, a.Right())
	}
	if b.Right() != 450 {
		t.Errorf("b's far edge moved: right=%v", b.Right())
	}
}

func TestLinkedResizeRespectsNeighborMinimum(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("b", rect(300, 100, 150, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(300, 150), ModNone)
	c.PointerMove(pt(400, 150)) // asks b to shrink by 100, below its 100 min
	c.PointerUp()

	a, b := s.rects["a"], s.rects["b"]
	if b.Width != 100 {
		t.Errorf("b width: got %v, want its minimum 100", b.Width)
	}
	if a.Width != 250 {
		t.Errorf("a growth not capped by neighbor minimum: width=%v", a.Width)
	}
}

func TestLinkedResizeSuppressesSnapping(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("b", rect(300, 100, 150, 100), defaultMin, defaultMax)  // linked
	s.add("c", rect(320, 400, 100, 100), defaultMin, defaultMax) // would-be snap target
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(300, 150), ModNone)
	c.PointerMove(pt(317, 150)) // raw right edge at 317, 3px from c's left
	if len(c.Guides()) != 0 {
		t.Errorf("guides emitted during linked resize: %+v", c.Guides())
	}
	c.PointerUp()

	if got := s.rects["a"].Width; got != 217 {
		t.Errorf("linked resize snapped: width=%v, want 217", got)
	}
}

func TestFreeResizeSnapsWithoutLinks(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("c", rect(500, 100, 100, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(300, 150), ModNone)
	c.PointerMove(pt(495, 150)) // raw right edge at 495, 5px from c's left
	if len(c.Guides()) != 1 {
		t.Errorf("guides: got %d, want 1", len(c.Guides()))
	}
	c.PointerUp()

	a := s.rects["a"]
	if a.Width != 400 {
		t.Errorf("snapped width: got %v, want 400", a.Width)
	}
	if a.X != 100 {
		t.Errorf("west edge must stay fixed: x=%v", a.X)
	}
}

func TestResizeRespectsOwnMaximum(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(300, 150), ModNone)
	c.PointerMove(pt(800, 150))
	c.PointerUp()

	if got := s.rects["a"].Width; got != 400 {
		t.Errorf("width: got %v, want max 400", got)
	}
}

func TestNorthResizeKeepsBottomFixed(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 300, 200, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	clickBody(c, s, "a")
	c.PointerDown(pt(200, 300), ModNone) // north handle
	c.PointerMove(pt(200, 270))
	c.PointerUp()

	a := s.rects["a"]
	if a.Bottom() != 400 {
		t.Errorf("bottom edge moved: %v", a.Bottom())
	}
	if a.Height != 130 || a.Y != 270 {
		t.Errorf("north resize: got %+v", a)
	}
}

func TestGuidesClearedOnPointerUp(t *testing.T) {
	s := newFakeStore()
	s.add("a", rect(100, 100, 200, 100), defaultMin, defaultMax)
	s.add("c", rect(500, 95, 100, 100), defaultMin, defaultMax)
	c := newController(s, nil)

	c.PointerDown(pt(150, 125), ModNone)
	c.PointerMove(pt(205, 123))
	if len(c.Guides()) == 0 {
		t.Fatal("expected guides during drag")
	}
	c.PointerUp()
	if len(c.Guides()) != 0 {
		t.Errorf("guides not cleared: %+v", c.Guides())
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after release: %v", c.Phase())
	}
}
