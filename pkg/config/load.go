package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the overlay client configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Host    HostConfig    `toml:"host"`
	Canvas  CanvasConfig  `toml:"canvas"`
}

// GeneralConfig holds logging and appearance options.
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	Theme     string `toml:"theme"`
	ThemeFile string `toml:"theme_file"`
}

// HostConfig describes how to reach the host bridge.
type HostConfig struct {
	URL           string   `toml:"url"`
	DialRetry     Duration `toml:"dial_retry"`
	StateInterval Duration `toml:"state_interval"`
}

// CanvasConfig is the abstract coordinate space widgets are laid out in.
// Widget geometry is stored in these units regardless of terminal size;
// the overlay projects them onto cells.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/tli-tracker/config.toml
//  2. ~/.config/tli-tracker/config.toml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			Theme:    "default",
		},
		Host: HostConfig{
			URL:           "ws://127.0.0.1:17825/bridge",
			DialRetry:     Duration{3 * time.Second},
			StateInterval: Duration{1 * time.Second},
		},
		Canvas: CanvasConfig{
			Width:  1920,
			Height: 1080,
		},
	}
}

// Validate checks invariants that would break the overlay at runtime.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %gx%g must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Host.URL == "" {
		return fmt.Errorf("host url must not be empty")
	}
	switch c.General.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.General.LogLevel)
	}
	return nil
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TLI_HOST_URL"); v != "" {
		cfg.Host.URL = v
	}
	if v := os.Getenv("TLI_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("TLI_THEME"); v != "" {
		cfg.General.Theme = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "tli-tracker", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "tli-tracker", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
