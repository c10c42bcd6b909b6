package track

import (
	"testing"
	"time"
)

func TestDecodeFullState(t *testing.T) {
	payload := []byte(`{
		"initialized": true,
		"in_map": true,
		"display_mode": "value",
		"current_map": {"duration": 42.5, "value": 1200, "items": 7},
		"session": {
			"id": "s1",
			"duration_mapping": 300,
			"duration_total": 450,
			"value": 9000,
			"items": 55,
			"map_count": 4,
			"value_per_hour": 72000,
			"maps_per_hour": 32,
			"maps": [{"index": 0, "total_value": 2000, "duration_seconds": 80}],
			"drops": [{"item_id": "fe", "item_name": "Flame Elementium", "item_type": "Currency", "quantity": 2, "value": 200, "timestamp": "t"}]
		}
	}`)

	s, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !s.InMap || s.CurrentMap == nil || s.Session == nil {
		t.Fatalf("shape: %+v", s)
	}
	if s.CurrentMap.Duration != 42.5 || s.Session.MapCount != 4 {
		t.Errorf("values: map=%+v session.MapCount=%d", s.CurrentMap, s.Session.MapCount)
	}
	if len(s.Session.Drops) != 1 || *s.Session.Drops[0].Value != 200 {
		t.Errorf("drops: %+v", s.Session.Drops)
	}
}

func TestDecodeNullSessionMeansNoData(t *testing.T) {
	s, err := Decode([]byte(`{"in_map": false, "current_map": null, "session": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.CurrentMap != nil || s.Session != nil {
		t.Errorf("expected nil map/session: %+v", s)
	}
}

func TestDecodeMalformedYieldsEmptyState(t *testing.T) {
	s, err := Decode([]byte(`{"in_map": `))
	if err == nil {
		t.Fatal("expected an error")
	}
	if s == nil || s.Session != nil {
		t.Errorf("malformed payload must decode to an empty state, got %+v", s)
	}
}

func TestAdvanceRunsOnlyActiveCounters(t *testing.T) {
	s := &State{
		InMap:      true,
		CurrentMap: &MapStats{Duration: 10},
		Session:    &SessionStats{DurationMapping: 100, DurationTotal: 200},
	}
	s.Advance(2 * time.Second)
	if s.CurrentMap.Duration != 12 {
		t.Errorf("map duration: %v", s.CurrentMap.Duration)
	}
	if s.Session.DurationMapping != 102 || s.Session.DurationTotal != 202 {
		t.Errorf("session durations: %+v", s.Session)
	}

	// Out of map: only wall-clock time advances.
	s.InMap = false
	s.Advance(3 * time.Second)
	if s.CurrentMap.Duration != 12 || s.Session.DurationMapping != 102 {
		t.Errorf("counters ran outside map: %+v %+v", s.CurrentMap, s.Session)
	}
	if s.Session.DurationTotal != 205 {
		t.Errorf("wall clock stopped: %v", s.Session.DurationTotal)
	}

	// No session at all: Advance is a no-op and must not panic.
	empty := &State{}
	empty.Advance(time.Second)
}

func TestValuePerMap(t *testing.T) {
	s := &SessionStats{Value: 900, MapCount: 3}
	if got := s.ValuePerMap(); got != 300 {
		t.Errorf("got %v, want 300", got)
	}
	zero := &SessionStats{Value: 900}
	if got := zero.ValuePerMap(); got != 0 {
		t.Errorf("zero maps: got %v, want 0", got)
	}
}

func TestTypeTotals(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	s := &SessionStats{Drops: []Drop{
		{ItemType: "Currency", Value: v(100)},
		{ItemType: "Compass", Value: v(50)},
		{ItemType: "Currency", Value: v(25)},
		{ItemType: "", Value: v(10)},
		{ItemType: "Ashes", Value: nil}, // unpriced
	}}

	order, totals := s.TypeTotals()
	wantOrder := []string{"Currency", "Compass", "Other", "Ashes"}
	if len(order) != len(wantOrder) {
		t.Fatalf("order: %v", order)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Errorf("order[%d]: got %q, want %q", i, order[i], wantOrder[i])
		}
	}
	if totals["Currency"] != 125 || totals["Compass"] != 50 || totals["Other"] != 10 || totals["Ashes"] != 0 {
		t.Errorf("totals: %v", totals)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{75, "1:15"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725.9, "1:02:05"},
		{-5, "0:00"},
	}
	for _, tc := range tests {
		if got := FormatClock(tc.in); got != tc.want {
			t.Errorf("FormatClock(%v): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1k"},
		{1260, "1.3k"},
		{15400, "15.4k"},
		{2000000, "2m"},
		{3460000, "3.5m"},
		{-4200, "-4.2k"},
	}
	for _, tc := range tests {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%v): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(0); got != NoData {
		t.Errorf("zero rate: got %q", got)
	}
	if got := FormatRate(72000); got != "72k/h" {
		t.Errorf("got %q, want 72k/h", got)
	}
}
