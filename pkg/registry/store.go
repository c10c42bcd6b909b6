package registry

import (
	"github.com/google/uuid"

	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
	"github.com/nyk-lgtm/tli-tracker/pkg/snap"
)

// Widget is one positioned, sized, typed element on the canvas. Rect is
// mutated only by the edit mode controller while edit mode is active.
type Widget struct {
	ID      string
	Type    string
	Enabled bool
	Rect    geometry.Rect
}

// Store is the canonical in-memory widget list, in z-order (last is
// topmost). It satisfies the edit mode controller's store interface.
type Store struct {
	widgets []*Widget
	byID    map[string]*Widget
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Widget)}
}

// Load replaces the widget list from a persisted layout. Sizes are clamped
// to each type's limits so a hand-edited or stale config cannot violate
// the constraints. Widget order is preserved.
func (s *Store) Load(layouts []settings.WidgetLayout) {
	s.widgets = s.widgets[:0]
	s.byID = make(map[string]*Widget, len(layouts))
	for _, l := range layouts {
		def := TypeDefinition(l.Type)
		w := &Widget{
			ID:      l.ID,
			Type:    l.Type,
			Enabled: l.Enabled,
			Rect: geometry.Rect{
				X:      l.Position.X,
				Y:      l.Position.Y,
				Width:  geometry.Clamp(l.Size.Width, def.MinSize.Width, def.MaxSize.Width),
				Height: geometry.Clamp(l.Size.Height, def.MinSize.Height, def.MaxSize.Height),
			},
		}
		s.widgets = append(s.widgets, w)
		s.byID[w.ID] = w
	}
}

// Snapshot serializes the current widget list for persistence, including
// disabled widgets so their stored geometry survives a round trip.
func (s *Store) Snapshot() []settings.WidgetLayout {
	out := make([]settings.WidgetLayout, 0, len(s.widgets))
	for _, w := range s.widgets {
		out = append(out, settings.WidgetLayout{
			ID:       w.ID,
			Type:     w.Type,
			Enabled:  w.Enabled,
			Position: settings.Position{X: w.Rect.X, Y: w.Rect.Y},
			Size:     settings.Dimensions{Width: w.Rect.Width, Height: w.Rect.Height},
		})
	}
	return out
}

// All returns every widget in z-order, enabled or not.
func (s *Store) All() []*Widget {
	return s.widgets
}

// Get returns the widget with the given id.
func (s *Store) Get(id string) (*Widget, bool) {
	w, ok := s.byID[id]
	return w, ok
}

// Widgets returns the enabled widgets as snap targets in z-order.
func (s *Store) Widgets() []snap.Target {
	out := make([]snap.Target, 0, len(s.widgets))
	for _, w := range s.widgets {
		if w.Enabled {
			out = append(out, snap.Target{ID: w.ID, Rect: w.Rect})
		}
	}
	return out
}

// Rect returns the rectangle of an enabled widget.
func (s *Store) Rect(id string) (geometry.Rect, bool) {
	w, ok := s.byID[id]
	if !ok || !w.Enabled {
		return geometry.Rect{}, false
	}
	return w.Rect, true
}

// SetRect replaces a widget's rectangle. Unknown ids are skipped silently.
func (s *Store) SetRect(id string, r geometry.Rect) {
	if w, ok := s.byID[id]; ok {
		w.Rect = r
	}
}

// SizeLimits returns the min and max size for the widget's type. Unknown
// ids resolve through the fallback definition.
func (s *Store) SizeLimits(id string) (geometry.Size, geometry.Size) {
	var widgetType string
	if w, ok := s.byID[id]; ok {
		widgetType = w.Type
	}
	def := TypeDefinition(widgetType)
	return def.MinSize, def.MaxSize
}

// Add creates a widget of the given type at its default position and size,
// appends it topmost, and returns it.
func (s *Store) Add(widgetType string, enabled bool) *Widget {
	def := TypeDefinition(widgetType)
	w := &Widget{
		ID:      "widget-" + uuid.NewString(),
		Type:    widgetType,
		Enabled: enabled,
		Rect: geometry.Rect{
			X:      def.DefaultPosition.X,
			Y:      def.DefaultPosition.Y,
			Width:  def.DefaultSize.Width,
			Height: def.DefaultSize.Height,
		},
	}
	s.widgets = append(s.widgets, w)
	s.byID[w.ID] = w
	return w
}

// DefaultLayout is the widget set for a fresh installation: the stats bar
// enabled, the charts present but disabled.
func DefaultLayout() []settings.WidgetLayout {
	mk := func(id, typ string, enabled bool) settings.WidgetLayout {
		def := TypeDefinition(typ)
		return settings.WidgetLayout{
			ID:       id,
			Type:     typ,
			Enabled:  enabled,
			Position: settings.Position{X: def.DefaultPosition.X, Y: def.DefaultPosition.Y},
			Size:     settings.Dimensions{Width: def.DefaultSize.Width, Height: def.DefaultSize.Height},
		}
	}
	return []settings.WidgetLayout{
		mk("widget-stats-bar", TypeStatsBar, true),
		mk("widget-pulse-chart", TypePulseChart, false),
		mk("widget-efficiency-chart", TypeEfficiencyChart, false),
		mk("widget-donut-chart", TypeDonutChart, false),
	}
}
