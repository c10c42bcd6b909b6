package theme

// builtins returns the compiled-in themes.
func builtins() []Theme {
	return []Theme{
		{
			Name:       "default",
			Foreground: "#E5E7EB",
			Dim:        "#9CA3AF",
			Accent:     "#7C3AED",
			Border:     "#6B7280",
			Guide:      "#F59E0B",
			Edit:       "#F59E0B",
			Value:      "#FBBF24",
			Rate:       "#34D399",
			Chart:      "#60A5FA",
			Offline:    "#EF4444",
		},
		{
			Name:       "light",
			Foreground: "#1F2937",
			Dim:        "#6B7280",
			Accent:     "#6D28D9",
			Border:     "#9CA3AF",
			Guide:      "#B45309",
			Edit:       "#B45309",
			Value:      "#B45309",
			Rate:       "#047857",
			Chart:      "#1D4ED8",
			Offline:    "#B91C1C",
		},
		{
			Name:       "mono",
			Foreground: "#D4D4D4",
			Dim:        "#808080",
			Accent:     "#FFFFFF",
			Border:     "#606060",
			Guide:      "#FFFFFF",
			Edit:       "#FFFFFF",
			Value:      "#D4D4D4",
			Rate:       "#D4D4D4",
			Chart:      "#A0A0A0",
			Offline:    "#D4D4D4",
		},
	}
}
