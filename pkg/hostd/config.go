package hostd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration, read from a YAML file.
type Config struct {
	Addr          string   `yaml:"addr"`
	DataDir       string   `yaml:"data_dir"`
	LogLevel      string   `yaml:"log_level"`
	LogFile       string   `yaml:"log_file"`
	Demo          bool     `yaml:"demo"`
	StateInterval Duration `yaml:"state_interval"`
}

// Duration parses YAML duration strings like "1s" or "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns daemon defaults. Data lives next to the overlay
// client's config under the XDG data dir.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".local", "share")
	}
	return Config{
		Addr:          "127.0.0.1:17825",
		DataDir:       filepath.Join(dataDir, "tli-tracker"),
		LogLevel:      "info",
		StateInterval: Duration{time.Second},
	}
}

// LoadConfig reads the daemon config from path, falling back to defaults
// when the file does not exist. Fields absent from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read daemon config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse daemon config: %w", err)
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("daemon config: addr must not be empty")
	}
	return cfg, nil
}
