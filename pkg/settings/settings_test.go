package settings

import "testing"

func TestDefaults(t *testing.T) {
	s := Default()
	if s.DisplayMode != "value" {
		t.Errorf("display mode = %q, want value", s.DisplayMode)
	}
	if s.OverlayOpacity != 0.9 {
		t.Errorf("opacity = %v, want 0.9", s.OverlayOpacity)
	}
	if s.TaxRate != 0.125 {
		t.Errorf("tax rate = %v, want 0.125", s.TaxRate)
	}
	if s.EditModeHotkey != "ctrl+e" {
		t.Errorf("hotkey = %q, want ctrl+e", s.EditModeHotkey)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	in := []WidgetLayout{
		{
			ID:       "widget-stats-bar",
			Type:     "stats_bar",
			Enabled:  true,
			Position: Position{X: 12.5, Y: 40},
			Size:     Dimensions{Width: 330, Height: 50},
		},
		{ID: "widget-donut", Type: "donut_chart"},
	}
	data, err := EncodeLayout(in)
	if err != nil {
		t.Fatalf("EncodeLayout: %v", err)
	}
	out, err := DecodeLayout(data)
	if err != nil {
		t.Fatalf("DecodeLayout: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("decoded %d widgets, want 2", len(out))
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip changed layout: %+v", out)
	}
}

func TestDecodeLayoutRejectsMalformed(t *testing.T) {
	if _, err := DecodeLayout([]byte(`{"not":"an array"}`)); err == nil {
		t.Fatal("expected error for non-array layout")
	}
}
