package theme

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// tomlTheme is the TOML-serializable representation of a Theme.
type tomlTheme struct {
	Name   string     `toml:"name"`
	Base   tomlBase   `toml:"base"`
	Widget tomlWidget `toml:"widget"`
	Stats  tomlStats  `toml:"stats"`
}

type tomlBase struct {
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
	Offline    string `toml:"offline"`
}

type tomlWidget struct {
	Border string `toml:"border"`
	Guide  string `toml:"guide"`
	Edit   string `toml:"edit"`
}

type tomlStats struct {
	Value string `toml:"value"`
	Rate  string `toml:"rate"`
	Chart string `toml:"chart"`
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition. Colors left empty inherit
// from the default theme; non-empty colors must be #rrggbb hex.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt tomlTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if tt.Name == "" {
		return Theme{}, fmt.Errorf("theme: name is required")
	}

	t := Get("default")
	t.Name = tt.Name
	for _, f := range []struct {
		dst *string
		src string
		key string
	}{
		{&t.Foreground, tt.Base.Foreground, "base.foreground"},
		{&t.Dim, tt.Base.Dim, "base.dim"},
		{&t.Accent, tt.Base.Accent, "base.accent"},
		{&t.Offline, tt.Base.Offline, "base.offline"},
		{&t.Border, tt.Widget.Border, "widget.border"},
		{&t.Guide, tt.Widget.Guide, "widget.guide"},
		{&t.Edit, tt.Widget.Edit, "widget.edit"},
		{&t.Value, tt.Stats.Value, "stats.value"},
		{&t.Rate, tt.Stats.Rate, "stats.rate"},
		{&t.Chart, tt.Stats.Chart, "stats.chart"},
	} {
		if f.src == "" {
			continue
		}
		if !hexColorRegex.MatchString(f.src) {
			return Theme{}, fmt.Errorf("theme: %s: invalid color %q", f.key, f.src)
		}
		*f.dst = f.src
	}
	return t, nil
}

// LoadFile loads and registers a theme from a TOML file.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, err
	}
	Register(t)
	return t, nil
}
