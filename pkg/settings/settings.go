// Package settings defines the application settings exchanged between the
// overlay and the host, including the persisted widget layout. The host
// owns the durable copy; the overlay only reads settings at startup or on a
// settings_update push and writes back the widget layout when edit mode
// ends.
package settings

import "encoding/json"

// Position is a widget origin in canvas pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions is a widget size in canvas pixels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WidgetLayout is one persisted widget entry.
type WidgetLayout struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Enabled  bool       `json:"enabled"`
	Position Position   `json:"position"`
	Size     Dimensions `json:"size"`
}

// Settings is the full application settings object served by get_settings.
type Settings struct {
	DisplayMode      string         `json:"display_mode"`
	OverlayOpacity   float64        `json:"overlay_opacity"`
	TaxEnabled       bool           `json:"tax_enabled"`
	TaxRate          float64        `json:"tax_rate"`
	ShowMapValue     bool           `json:"show_map_value"`
	EfficiencyPerMap bool           `json:"efficiency_per_map"`
	InvestmentPerMap float64        `json:"investment_per_map"`
	UseRealTimeStats bool           `json:"use_real_time_stats"`
	EditModeHotkey   string         `json:"edit_mode_hotkey"`
	Widgets          []WidgetLayout `json:"widgets"`
}

// Default returns the settings used before the host has provided any, and
// the baseline the host merges a stored config over.
func Default() Settings {
	return Settings{
		DisplayMode:    "value",
		OverlayOpacity: 0.9,
		TaxEnabled:     false,
		TaxRate:        0.125,
		EditModeHotkey: "ctrl+e",
	}
}

// DecodeLayout parses a persisted widget layout array.
func DecodeLayout(data []byte) ([]WidgetLayout, error) {
	var widgets []WidgetLayout
	if err := json.Unmarshal(data, &widgets); err != nil {
		return nil, err
	}
	return widgets, nil
}

// EncodeLayout serializes a widget layout array for save_widget_layout.
func EncodeLayout(widgets []WidgetLayout) ([]byte, error) {
	return json.Marshal(widgets)
}
