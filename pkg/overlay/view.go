package overlay

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/registry"
	"github.com/nyk-lgtm/tli-tracker/pkg/snap"
	"github.com/nyk-lgtm/tli-tracker/pkg/theme"
	"github.com/nyk-lgtm/tli-tracker/pkg/track"
)

// styles is the theme rendered into lipgloss styles, built once per theme
// change rather than per frame.
type styles struct {
	border   lipgloss.Style
	selected lipgloss.Style
	handle   lipgloss.Style
	guide    lipgloss.Style
	status   lipgloss.Style
	edit     lipgloss.Style
	offline  lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	return styles{
		border:   lipgloss.NewStyle().BorderForeground(lipgloss.Color(t.Border)),
		selected: lipgloss.NewStyle().BorderForeground(lipgloss.Color(t.Accent)),
		handle:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		guide:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Guide)),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Dim)),
		edit:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Edit)).Bold(true),
		offline:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Offline)),
	}
}

// projection maps between abstract canvas pixels and terminal cells.
type projection struct {
	scaleX, scaleY float64
}

func newProjection(canvas geometry.Size, cols, rows int) projection {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return projection{
		scaleX: canvas.Width / float64(cols),
		scaleY: canvas.Height / float64(rows),
	}
}

// toCanvas maps a cell to the canvas point at its center, so a click on a
// cell hits what is drawn in it.
func (p projection) toCanvas(cx, cy int) geometry.Point {
	return geometry.Point{
		X: (float64(cx) + 0.5) * p.scaleX,
		Y: (float64(cy) + 0.5) * p.scaleY,
	}
}

// toCells maps a canvas rect to a cell rect, at least 1x1.
func (p projection) toCells(r geometry.Rect) (x, y, w, h int) {
	x = int(math.Round(r.X / p.scaleX))
	y = int(math.Round(r.Y / p.scaleY))
	w = int(math.Round(r.Width / p.scaleX))
	h = int(math.Round(r.Height / p.scaleY))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return x, y, w, h
}

func (p projection) toCol(canvasX float64) int {
	return int(math.Round(canvasX / p.scaleX))
}

func (p projection) toRow(canvasY float64) int {
	return int(math.Round(canvasY / p.scaleY))
}

// buffer composites styled multi-line strings by row. Splicing is
// ANSI-aware so styled content survives overlap clipping.
type buffer struct {
	rows  []string
	width int
}

func newBuffer(width, height int) *buffer {
	rows := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range rows {
		rows[i] = blank
	}
	return &buffer{rows: rows, width: width}
}

// splice draws content with its top-left corner at cell (x, y), clipping
// to the buffer on all sides.
func (b *buffer) splice(x, y int, content string) {
	for dy, line := range strings.Split(content, "\n") {
		b.spliceLine(x, y+dy, line)
	}
}

func (b *buffer) spliceLine(x, y int, line string) {
	if y < 0 || y >= len(b.rows) || x >= b.width {
		return
	}
	if x < 0 {
		line = ansi.TruncateLeft(line, -x, "")
		x = 0
	}
	lw := ansi.StringWidth(line)
	if lw == 0 {
		return
	}
	if x+lw > b.width {
		line = ansi.Truncate(line, b.width-x, "")
		lw = b.width - x
	}
	row := b.rows[y]
	left := ansi.Truncate(row, x, "")
	right := ansi.TruncateLeft(row, x+lw, "")
	b.rows[y] = left + line + right
}

// setCell overwrites a single cell with a styled rune.
func (b *buffer) setCell(x, y int, s string) {
	b.spliceLine(x, y, s)
}

func (b *buffer) String() string {
	return strings.Join(b.rows, "\n")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 1 {
		return ""
	}
	canvasRows := m.height - 1
	buf := newBuffer(m.width, canvasRows)
	proj := newProjection(m.bounds.Size(), m.width, canvasRows)

	editing := m.ctrl.Enabled()
	for _, w := range m.store.All() {
		if !w.Enabled {
			continue
		}
		m.drawWidget(buf, proj, w, editing)
	}
	if editing {
		m.drawGuides(buf, proj, canvasRows)
		m.drawHandles(buf, proj)
	}

	return buf.String() + "\n" + m.statusBar()
}

func (m *Model) drawWidget(buf *buffer, proj projection, w *registry.Widget, editing bool) {
	x, y, cw, ch := proj.toCells(w.Rect)

	innerW, innerH := cw-2, ch-2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}
	content := m.renderer.Content(w, innerW, innerH)

	style := m.styles.border
	if editing && m.ctrl.Selected(w.ID) {
		style = m.styles.selected
	}
	box := style.
		Border(lipgloss.RoundedBorder()).
		Width(innerW).
		Height(innerH).
		Render(content)

	buf.splice(x, y, box)
}

func (m *Model) drawGuides(buf *buffer, proj projection, canvasRows int) {
	for _, g := range m.ctrl.Guides() {
		switch g.Orientation {
		case snap.Vertical:
			col := proj.toCol(g.Coordinate)
			mark := m.styles.guide.Render("│")
			for row := 0; row < canvasRows; row++ {
				buf.setCell(col, row, mark)
			}
		case snap.Horizontal:
			row := proj.toRow(g.Coordinate)
			buf.spliceLine(0, row, m.styles.guide.Render(strings.Repeat("─", m.width)))
		}
	}
}

// drawHandles marks the eight resize handles of every selected widget.
func (m *Model) drawHandles(buf *buffer, proj projection) {
	mark := m.styles.handle.Render("◆")
	for _, w := range m.store.All() {
		if !w.Enabled || !m.ctrl.Selected(w.ID) {
			continue
		}
		x, y, cw, ch := proj.toCells(w.Rect)
		right, bottom := x+cw-1, y+ch-1
		midX, midY := x+cw/2, y+ch/2
		for _, pt := range [][2]int{
			{x, y}, {midX, y}, {right, y},
			{right, midY}, {right, bottom},
			{midX, bottom}, {x, bottom}, {x, midY},
		} {
			buf.setCell(pt[0], pt[1], mark)
		}
	}
}

func (m *Model) statusBar() string {
	if m.showHelp {
		return ansi.Truncate(m.help.View(m.keys), m.width, "")
	}

	var left string
	switch {
	case m.ctrl.Enabled():
		left = m.styles.edit.Render("EDIT") + m.styles.status.Render(
			"  drag move · handles resize · ctrl+click multi-select · "+m.settings.EditModeHotkey+" done")
	case !m.connected:
		left = m.styles.offline.Render("offline") + m.styles.status.Render("  "+m.status)
	default:
		left = m.styles.status.Render(m.sessionSummary())
	}
	if m.status != "" && m.ctrl.Enabled() {
		left += m.styles.status.Render("  " + m.status)
	}
	return ansi.Truncate(left, m.width, "")
}

// sessionSummary is the idle status line: headline session numbers, or a
// hint while no session is running.
func (m *Model) sessionSummary() string {
	st := m.renderer.State()
	if st == nil || st.Session == nil {
		return "no active session"
	}
	s := st.Session
	return fmt.Sprintf("session %s · %s · %s",
		track.FormatClock(s.DurationTotal),
		track.FormatValue(s.Value),
		track.FormatRate(s.ValuePerHour))
}
