package overlay

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/nyk-lgtm/tli-tracker/pkg/config"
	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
	"github.com/nyk-lgtm/tli-tracker/pkg/theme"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := New(cfg, log)
	m.Update(tea.WindowSizeMsg{Width: 192, Height: 55})
	return m
}

// loadSingleWidget replaces the layout with one stats bar at a known rect.
func loadSingleWidget(m *Model) {
	m.store.Load([]settings.WidgetLayout{{
		ID:       "w1",
		Type:     "stats_bar",
		Enabled:  true,
		Position: settings.Position{X: 400, Y: 200},
		Size:     settings.Dimensions{Width: 330, Height: 50},
	}})
}

func TestProjectionRoundTrip(t *testing.T) {
	// 1920x1080 canvas on a 192x54 cell grid: 10px per column, 20px per row.
	proj := newProjection(geometry.Size{Width: 1920, Height: 1080}, 192, 54)

	pt := proj.toCanvas(50, 11)
	if pt.X != 505 || pt.Y != 230 {
		t.Errorf("toCanvas(50,11) = (%g,%g), want (505,230)", pt.X, pt.Y)
	}

	x, y, w, h := proj.toCells(geometry.Rect{X: 400, Y: 200, Width: 330, Height: 50})
	if x != 40 || y != 10 || w != 33 || h != 3 {
		t.Errorf("toCells = (%d,%d,%d,%d), want (40,10,33,3)", x, y, w, h)
	}
}

func TestProjectionMinimumCellSize(t *testing.T) {
	proj := newProjection(geometry.Size{Width: 1920, Height: 1080}, 192, 54)
	_, _, w, h := proj.toCells(geometry.Rect{X: 0, Y: 0, Width: 2, Height: 2})
	if w != 1 || h != 1 {
		t.Errorf("tiny rect projects to %dx%d cells, want 1x1", w, h)
	}
}

func TestBufferSplice(t *testing.T) {
	buf := newBuffer(10, 3)
	buf.splice(2, 1, "ab\ncd")

	rows := strings.Split(buf.String(), "\n")
	if rows[1] != "  ab      " {
		t.Errorf("row 1 = %q", rows[1])
	}
	if rows[2] != "  cd      " {
		t.Errorf("row 2 = %q", rows[2])
	}
}

func TestBufferSpliceClipsAllSides(t *testing.T) {
	buf := newBuffer(5, 2)
	buf.splice(-1, -1, "xxx\nyyy")
	buf.splice(3, 1, "zzzz")

	rows := strings.Split(buf.String(), "\n")
	if rows[0] != "yy   " {
		t.Errorf("row 0 = %q, want left/top clipped", rows[0])
	}
	if rows[1] != "   zz" {
		t.Errorf("row 1 = %q, want right clipped", rows[1])
	}
}

func TestBufferSplicePreservesWidthWithStyling(t *testing.T) {
	buf := newBuffer(10, 1)
	st := newStyles(theme.Get("default"))
	buf.splice(0, 0, "plain12345")
	buf.splice(3, 0, st.handle.Render("◆"))

	row := strings.Split(buf.String(), "\n")[0]
	if got := ansi.StringWidth(row); got != 10 {
		t.Errorf("row width = %d, want 10", got)
	}
	if plain := ansi.Strip(row); plain != "pla◆n12345" {
		t.Errorf("visible row = %q", plain)
	}
}

func TestMouseDragMovesWidget(t *testing.T) {
	m := testModel(t)
	loadSingleWidget(m)
	m.ctrl.SetEnabled(true)

	// Press in the widget body, drag 10 columns (100 canvas px) right.
	m.Update(tea.MouseMsg{X: 50, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 60, Y: 11, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 60, Y: 11, Action: tea.MouseActionRelease})

	r, ok := m.store.Rect("w1")
	if !ok {
		t.Fatal("widget missing")
	}
	if r.X != 500 || r.Y != 200 {
		t.Errorf("rect after drag = (%g,%g), want (500,200)", r.X, r.Y)
	}
}

func TestMouseIgnoredOutsideEditMode(t *testing.T) {
	m := testModel(t)
	loadSingleWidget(m)

	m.Update(tea.MouseMsg{X: 50, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 60, Y: 11, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 60, Y: 11, Action: tea.MouseActionRelease})

	r, _ := m.store.Rect("w1")
	if r.X != 400 {
		t.Errorf("rect moved to x=%g with edit mode off", r.X)
	}
}

func TestSettingsPushDeferredDuringDrag(t *testing.T) {
	m := testModel(t)
	loadSingleWidget(m)
	m.ctrl.SetEnabled(true)

	m.Update(tea.MouseMsg{X: 50, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	pushed := settings.Default()
	pushed.OverlayOpacity = 0.5
	pushed.Widgets = []settings.WidgetLayout{{
		ID:       "w1",
		Type:     "stats_bar",
		Enabled:  true,
		Position: settings.Position{X: 0, Y: 0},
		Size:     settings.Dimensions{Width: 330, Height: 50},
	}}
	m.Update(settingsMsg(pushed))

	r, _ := m.store.Rect("w1")
	if r.X != 400 {
		t.Errorf("mid-drag settings push moved widget to x=%g", r.X)
	}
	if m.settings.OverlayOpacity != 0.5 {
		t.Error("non-geometry settings should still apply mid-drag")
	}
}

func TestViewRendersStatusBar(t *testing.T) {
	m := testModel(t)
	loadSingleWidget(m)

	out := m.View()
	rows := strings.Split(out, "\n")
	if len(rows) != 55 {
		t.Fatalf("view has %d rows, want 55", len(rows))
	}
	if !strings.Contains(ansi.Strip(rows[54]), "offline") {
		t.Errorf("status bar = %q, want offline marker before connection", rows[54])
	}
}

func TestViewShowsEditBanner(t *testing.T) {
	m := testModel(t)
	loadSingleWidget(m)
	m.ctrl.SetEnabled(true)

	out := m.View()
	rows := strings.Split(out, "\n")
	status := ansi.Strip(rows[len(rows)-1])
	if !strings.Contains(status, "EDIT") {
		t.Errorf("status bar = %q, want edit banner", status)
	}
}

func TestToggleEditKey(t *testing.T) {
	m := testModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if !m.ctrl.Enabled() {
		t.Fatal("ctrl+e did not enable edit mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.ctrl.Enabled() {
		t.Fatal("ctrl+e did not disable edit mode")
	}
}
