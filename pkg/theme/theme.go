// Package theme defines the overlay's color palettes. A theme is a flat
// set of hex colors; the overlay turns them into lipgloss styles at
// startup. Custom themes load from TOML files.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme is the overlay color palette.
type Theme struct {
	Name string

	Foreground string // widget content
	Dim        string // secondary text, idle status bar
	Accent     string // selection borders, resize handles

	Border string // unselected widget borders
	Guide  string // snap guide lines
	Edit   string // edit mode banner

	Value   string // tracked value figures
	Rate    string // per-hour rates
	Chart   string // chart bars
	Offline string // connection loss marker
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	for _, t := range builtins() {
		registry[strings.ToLower(t.Name)] = t
	}
}

// Get returns a named theme, falling back to the default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Register adds or replaces a theme. The name is case-insensitive.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
