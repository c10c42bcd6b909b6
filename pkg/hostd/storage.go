// Package hostd is the host-side daemon: it owns the settings file and
// serves the WebSocket bridge that overlay windows connect to.
package hostd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/nyk-lgtm/tli-tracker/pkg/registry"
	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
)

const settingsFile = "config.json"

// Storage persists settings as a single JSON document. Reads merge the
// file over defaults, so documents written by older versions pick up new
// fields without migration.
type Storage struct {
	path string
	log  *slog.Logger

	mu sync.Mutex
}

// NewStorage creates storage rooted at dir, creating it if needed.
func NewStorage(dir string, log *slog.Logger) (*Storage, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Storage{path: filepath.Join(dir, settingsFile), log: log}, nil
}

// Load returns the stored settings merged over defaults. A missing file
// yields pure defaults with the default widget layout; a corrupt file is
// treated the same way, with a warning.
func (s *Storage) Load() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Storage) loadLocked() settings.Settings {
	out := settings.Default()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		s.log.Warn("settings file unreadable, using defaults", "path", s.path, "error", err)
	default:
		if err := json.Unmarshal(data, &out); err != nil {
			s.log.Warn("settings file corrupt, using defaults", "path", s.path, "error", err)
			out = settings.Default()
		}
	}

	if len(out.Widgets) == 0 {
		out.Widgets = registry.DefaultLayout()
	}
	return out
}

// Save replaces the stored settings document.
func (s *Storage) Save(cfg settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(cfg)
}

func (s *Storage) saveLocked(cfg settings.Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// SaveWidgetLayout validates and persists a new widget layout, returning
// the updated settings. Widget sizes are clamped to their type's limits
// and widgets without an id are rejected.
func (s *Storage) SaveWidgetLayout(widgets []settings.WidgetLayout) (settings.Settings, error) {
	clamped := make([]settings.WidgetLayout, 0, len(widgets))
	for _, w := range widgets {
		if w.ID == "" {
			return settings.Settings{}, fmt.Errorf("widget layout entry missing id")
		}
		def := registry.TypeDefinition(w.Type)
		w.Size.Width = clampRange(w.Size.Width, def.MinSize.Width, def.MaxSize.Width)
		w.Size.Height = clampRange(w.Size.Height, def.MinSize.Height, def.MaxSize.Height)
		clamped = append(clamped, w)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.loadLocked()
	cfg.Widgets = clamped
	if err := s.saveLocked(cfg); err != nil {
		return settings.Settings{}, err
	}
	return cfg, nil
}

// SetOpacity persists a new overlay opacity, clamped to a usable range so
// the overlay can never be made fully invisible.
func (s *Storage) SetOpacity(opacity float64) (settings.Settings, error) {
	opacity = clampRange(opacity, 0.2, 1.0)

	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.loadLocked()
	cfg.OverlayOpacity = opacity
	if err := s.saveLocked(cfg); err != nil {
		return settings.Settings{}, err
	}
	return cfg, nil
}

// Update applies fn to the current settings and persists the result.
func (s *Storage) Update(fn func(*settings.Settings)) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.loadLocked()
	fn(&cfg)
	if err := s.saveLocked(cfg); err != nil {
		return settings.Settings{}, err
	}
	return cfg, nil
}

// Reset discards the stored document and returns defaults.
func (s *Storage) Reset() (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return settings.Settings{}, fmt.Errorf("remove settings: %w", err)
	}
	return s.loadLocked(), nil
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
