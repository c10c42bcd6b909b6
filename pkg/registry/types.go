// Package registry owns the widget model for the overlay canvas: the
// closed set of widget types with their size constraints, the canonical
// in-memory widget list, and the per-type content renderers. The rendered
// view is a disposable projection of this model; geometry is never read
// back from it.
package registry

import "github.com/nyk-lgtm/tli-tracker/pkg/geometry"

// Widget type identifiers, as persisted in the host config.
const (
	TypeStatsBar        = "stats_bar"
	TypePulseChart      = "pulse_chart"
	TypeEfficiencyChart = "efficiency_chart"
	TypeDonutChart      = "donut_chart"
)

// Definition is the static metadata for a widget type. Immutable for the
// process lifetime.
type Definition struct {
	Type            string
	Label           string
	DefaultSize     geometry.Size
	MinSize         geometry.Size
	MaxSize         geometry.Size
	DefaultPosition geometry.Point
}

// definitions holds the closed widget type set with the same constraints
// the host enforces when validating a saved layout.
var definitions = map[string]Definition{
	TypeStatsBar: {
		Type:            TypeStatsBar,
		Label:           "Stats Bar",
		DefaultSize:     geometry.Size{Width: 330, Height: 50},
		MinSize:         geometry.Size{Width: 250, Height: 40},
		MaxSize:         geometry.Size{Width: 500, Height: 80},
		DefaultPosition: geometry.Point{X: 100, Y: 100},
	},
	TypePulseChart: {
		Type:            TypePulseChart,
		Label:           "Value/Map Chart",
		DefaultSize:     geometry.Size{Width: 160, Height: 120},
		MinSize:         geometry.Size{Width: 150, Height: 80},
		MaxSize:         geometry.Size{Width: 300, Height: 200},
		DefaultPosition: geometry.Point{X: 100, Y: 160},
	},
	TypeEfficiencyChart: {
		Type:            TypeEfficiencyChart,
		Label:           "Efficiency Chart",
		DefaultSize:     geometry.Size{Width: 160, Height: 120},
		MinSize:         geometry.Size{Width: 140, Height: 80},
		MaxSize:         geometry.Size{Width: 300, Height: 200},
		DefaultPosition: geometry.Point{X: 270, Y: 160},
	},
	TypeDonutChart: {
		Type:            TypeDonutChart,
		Label:           "Loot Distribution",
		DefaultSize:     geometry.Size{Width: 280, Height: 120},
		MinSize:         geometry.Size{Width: 220, Height: 100},
		MaxSize:         geometry.Size{Width: 400, Height: 200},
		DefaultPosition: geometry.Point{X: 100, Y: 290},
	},
}

// fallbackDefinition covers unknown widget types: they keep working with
// generic constraints instead of failing.
var fallbackDefinition = Definition{
	Label:       "Unknown",
	DefaultSize: geometry.Size{Width: 200, Height: 100},
	MinSize:     geometry.Size{Width: 100, Height: 50},
	MaxSize:     geometry.Size{Width: 800, Height: 600},
}

// TypeDefinition returns the definition for a widget type. Unknown types
// get the generic fallback, with Type filled in for labeling.
func TypeDefinition(widgetType string) Definition {
	if def, ok := definitions[widgetType]; ok {
		return def
	}
	def := fallbackDefinition
	def.Type = widgetType
	return def
}

// KnownType reports whether the type is part of the closed widget set.
func KnownType(widgetType string) bool {
	_, ok := definitions[widgetType]
	return ok
}

// Types lists the known widget type identifiers in presentation order.
func Types() []string {
	return []string{TypeStatsBar, TypePulseChart, TypeEfficiencyChart, TypeDonutChart}
}
