// Package track models the session statistics the host pushes to the
// overlay. The overlay performs no aggregation of its own: values arrive
// already computed and this package only decodes them, advances live
// duration counters between pushes, and formats values for display.
package track

import (
	"encoding/json"
	"time"
)

// State is the payload of a host "state" push. A nil CurrentMap or Session
// means no data: renderers show placeholders rather than failing.
type State struct {
	Initialized  bool          `json:"initialized"`
	AwaitingInit bool          `json:"awaiting_init"`
	InMap        bool          `json:"in_map"`
	DisplayMode  string        `json:"display_mode"`
	CurrentMap   *MapStats     `json:"current_map"`
	Session      *SessionStats `json:"session"`
}

// MapStats describes the map run currently in progress.
type MapStats struct {
	Duration float64 `json:"duration"` // seconds
	Value    float64 `json:"value"`
	Items    int     `json:"items"`
}

// SessionStats aggregates the active tracking session.
type SessionStats struct {
	ID              string       `json:"id"`
	DurationMapping float64      `json:"duration_mapping"` // seconds spent inside maps
	DurationTotal   float64      `json:"duration_total"`   // wall-clock session seconds
	Value           float64      `json:"value"`
	Items           int          `json:"items"`
	MapCount        int          `json:"map_count"`
	ValuePerHour    float64      `json:"value_per_hour"`
	MapsPerHour     float64      `json:"maps_per_hour"`
	Maps            []MapSummary `json:"maps"`
	Drops           []Drop       `json:"drops"`
}

// MapSummary is one completed map in the session's per-map chart data.
type MapSummary struct {
	Index           int     `json:"index"`
	TotalValue      float64 `json:"total_value"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Drop is a single drop event, already priced by the host. Value is nil
// when no price is known.
type Drop struct {
	ItemID      string   `json:"item_id"`
	ItemName    string   `json:"item_name"`
	ItemType    string   `json:"item_type"`
	Quantity    int      `json:"quantity"`
	Value       *float64 `json:"value"`
	Timestamp   string   `json:"timestamp"`
	PriceStatus string   `json:"price_status"`
}

// Decode parses a state push payload. Malformed JSON yields an empty state
// (treated as no data) together with the error for diagnostic logging.
func Decode(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return &State{}, err
	}
	return &s, nil
}

// Advance moves the live duration counters forward by d between host
// pushes: session wall-clock time always runs while a session exists,
// mapping time and the current map's duration only while inside a map.
func (s *State) Advance(d time.Duration) {
	secs := d.Seconds()
	if s.Session != nil {
		s.Session.DurationTotal += secs
		if s.InMap {
			s.Session.DurationMapping += secs
		}
	}
	if s.InMap && s.CurrentMap != nil {
		s.CurrentMap.Duration += secs
	}
}

// ValuePerMap returns the session's average value per completed map, or 0
// with no completed maps.
func (s *SessionStats) ValuePerMap() float64 {
	if s.MapCount == 0 {
		return 0
	}
	return s.Value / float64(s.MapCount)
}

// TypeTotals sums drop values by item type for distribution charts, in
// first-seen order. Unpriced drops count as zero; drops without a type
// group under "Other".
func (s *SessionStats) TypeTotals() ([]string, map[string]float64) {
	totals := make(map[string]float64)
	var order []string
	for _, d := range s.Drops {
		typ := d.ItemType
		if typ == "" {
			typ = "Other"
		}
		if _, seen := totals[typ]; !seen {
			order = append(order, typ)
		}
		if d.Value != nil {
			totals[typ] += *d.Value
		}
	}
	return order, totals
}
