package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
	"github.com/nyk-lgtm/tli-tracker/pkg/theme"
	"github.com/nyk-lgtm/tli-tracker/pkg/track"
)

// Content colors without a theme slot.
const (
	colorTimer = "#64B5F6" // durations
	colorWarn  = "#FF9800" // unknown-type placeholder
)

// contentStyles is the active theme rendered into widget content styles.
type contentStyles struct {
	value lipgloss.Style
	rate  lipgloss.Style
	timer lipgloss.Style
	dim   lipgloss.Style
	warn  lipgloss.Style
	bar   lipgloss.Style
}

func newContentStyles(t theme.Theme) contentStyles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return contentStyles{
		value: fg(t.Value),
		rate:  fg(t.Rate),
		timer: fg(colorTimer),
		dim:   fg(t.Dim),
		warn:  fg(colorWarn),
		bar:   fg(t.Chart),
	}
}

// barBlocks maps eight vertical fill levels to block characters, the same
// scheme terminal sparklines use.
var barBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Renderer produces widget content strings from the externally supplied
// state. It never touches widget geometry: position and size belong to the
// store and the edit mode controller.
type Renderer struct {
	state *track.State
	cfg   settings.Settings
	st    contentStyles
}

// NewRenderer returns a Renderer with no data; widgets show placeholders
// until the first state push arrives. The theme fixes the content colors
// for the renderer's lifetime.
func NewRenderer(cfg settings.Settings, t theme.Theme) *Renderer {
	return &Renderer{state: &track.State{}, cfg: cfg, st: newContentStyles(t)}
}

// ApplyState replaces the session/map data. The next Content call per
// widget reflects it; geometry is untouched.
func (r *Renderer) ApplyState(s *track.State) {
	if s == nil {
		s = &track.State{}
	}
	r.state = s
}

// ApplySettings replaces the display settings (per-map vs per-hour
// efficiency, map value visibility).
func (r *Renderer) ApplySettings(cfg settings.Settings) {
	r.cfg = cfg
}

// State returns the current state, for the view layer's status line.
func (r *Renderer) State() *track.State {
	return r.state
}

// Tick advances live duration counters by one second. Called on the fixed
// one-second cadence; only widgets showing elapsed time or rates change, so
// callers refresh content without remounting.
func (r *Renderer) Tick() {
	r.state.Advance(time.Second)
}

// Content renders a widget's interior for a box of the given cell
// dimensions. Unknown types produce a visible placeholder rather than
// failing, and never prevent other widgets from rendering.
func (r *Renderer) Content(w *Widget, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	var lines []string
	switch w.Type {
	case TypeStatsBar:
		lines = r.statsBar(width)
	case TypePulseChart:
		lines = r.pulseChart(width, height)
	case TypeEfficiencyChart:
		lines = r.efficiencyChart(width, height)
	case TypeDonutChart:
		lines = r.donutChart(width, height)
	default:
		lines = []string{r.st.warn.Render("unknown widget type: " + w.Type)}
	}
	return fitLines(lines, width, height)
}

// statsBar shows session timer, total value, rate, and map count on one
// line, with the current map's timer and value when inside a map.
func (r *Renderer) statsBar(width int) []string {
	s := r.state
	if s.Session == nil {
		return []string{r.st.dim.Render("no session " + track.NoData)}
	}

	parts := []string{
		r.st.timer.Render(track.FormatClock(s.Session.DurationTotal)),
		r.st.value.Render(track.FormatValue(s.Session.Value)),
		r.st.rate.Render(track.FormatRate(s.Session.ValuePerHour)),
		r.st.dim.Render(fmt.Sprintf("%d maps", s.Session.MapCount)),
	}
	if s.InMap && s.CurrentMap != nil {
		mapPart := r.st.timer.Render(track.FormatClock(s.CurrentMap.Duration))
		if r.cfg.ShowMapValue {
			mapPart += " " + r.st.value.Render(track.FormatValue(s.CurrentMap.Value))
		}
		parts = append([]string{mapPart}, parts...)
	}
	return []string{strings.Join(parts, r.st.dim.Render(" │ "))}
}

// pulseChart draws per-map value bars for the session's completed maps.
func (r *Renderer) pulseChart(width, height int) []string {
	s := r.state
	header := r.st.dim.Render("value/map")
	if s.Session == nil || len(s.Session.Maps) == 0 {
		return []string{header, r.st.dim.Render(track.NoData)}
	}

	values := make([]float64, 0, len(s.Session.Maps))
	for _, m := range s.Session.Maps {
		values = append(values, m.TotalValue)
	}
	lines := []string{header, r.st.bar.Render(sparkRow(values, width))}
	if height > 2 {
		last := values[len(values)-1]
		lines = append(lines, r.st.value.Render(track.FormatValue(last))+r.st.dim.Render(" last"))
	}
	return lines
}

// efficiencyChart draws the per-map rate trend and the headline efficiency
// figure, honoring the per-map vs per-hour display toggle.
func (r *Renderer) efficiencyChart(width, height int) []string {
	s := r.state
	header := r.st.dim.Render("efficiency")
	if s.Session == nil {
		return []string{header, r.st.dim.Render(track.NoData)}
	}

	var headline string
	if r.cfg.EfficiencyPerMap {
		headline = r.st.value.Render(track.FormatValue(s.Session.ValuePerMap())) + r.st.dim.Render("/map")
	} else {
		headline = r.st.rate.Render(track.FormatRate(s.Session.ValuePerHour))
	}
	lines := []string{header, headline}

	if height > 2 && len(s.Session.Maps) > 0 {
		rates := make([]float64, 0, len(s.Session.Maps))
		for _, m := range s.Session.Maps {
			if m.DurationSeconds > 0 {
				rates = append(rates, m.TotalValue/m.DurationSeconds*3600)
			} else {
				rates = append(rates, 0)
			}
		}
		lines = append(lines, r.st.rate.Render(sparkRow(rates, width)))
	}
	return lines
}

// donutChart lists the session's loot value grouped by item type. Rows
// keep first-seen order so the legend stays stable while drops stream in.
func (r *Renderer) donutChart(width, height int) []string {
	s := r.state
	header := r.st.dim.Render("loot by type")
	if s.Session == nil || len(s.Session.Drops) == 0 {
		return []string{header, r.st.dim.Render(track.NoData)}
	}

	order, totals := s.Session.TypeTotals()
	var sum float64
	for _, t := range totals {
		sum += t
	}

	lines := []string{header}
	for _, typ := range order {
		if len(lines) >= height {
			break
		}
		pct := 0.0
		if sum > 0 {
			pct = totals[typ] / sum * 100
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			r.st.bar.Render("■"),
			r.st.dim.Render(fmt.Sprintf("%-10s", typ)),
			r.st.value.Render(fmt.Sprintf("%s (%.0f%%)", track.FormatValue(totals[typ]), pct)),
		))
	}
	return lines
}

// sparkRow maps values onto one row of block characters, one column per
// value, keeping the most recent values when there are more than width.
func sparkRow(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = int(v / max * 7)
		}
		if idx < 0 {
			idx = 0
		}
		if idx > 7 {
			idx = 7
		}
		b.WriteRune(barBlocks[idx])
	}
	return b.String()
}

// fitLines clips content to the box: at most height lines, each truncated
// to width display cells, ANSI sequences preserved.
func fitLines(lines []string, width, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}
