// Package config handles loading and saving wellpick configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/wellpick/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPlaceholder is shown when nothing is selected ("select wells").
const DefaultPlaceholder = "选择钻井"

// MinVisibleRows is the smallest dropdown height accepted.
const MinVisibleRows = 3

// PickerConfig holds dropdown behaviour settings.
type PickerConfig struct {
	Placeholder    string `yaml:"placeholder,omitempty"`      // Summary text when nothing is selected
	Separator      string `yaml:"separator,omitempty"`        // Joins selected names in the summary
	ExpandOnFilter *bool  `yaml:"expand_on_filter,omitempty"` // Expand all while a filter is active
	MaxVisible     int    `yaml:"max_visible,omitempty"`      // Rows shown in the dropdown
}

// WatchConfig controls live reload of the dataset file.
type WatchConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Debounce string `yaml:"debounce,omitempty"` // Go duration, e.g. "200ms"
}

// Config is the top-level configuration for wellpick.
type Config struct {
	Dataset string       `yaml:"dataset,omitempty"` // Path to a YAML/JSON dataset; empty = built-in
	Picker  PickerConfig `yaml:"picker,omitempty"`
	Watch   WatchConfig  `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Picker: PickerConfig{
			Placeholder: DefaultPlaceholder,
			Separator:   ",",
			MaxVisible:  12,
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
	}
}

// ConfigDir returns the XDG config directory for wellpick.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wellpick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wellpick")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Dataset = expandHome(cfg.Dataset)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate fills blanks left by a partial config file and rejects values
// that cannot be used.
func (c *Config) Validate() error {
	defaults := DefaultConfig()
	if c.Picker.Placeholder == "" {
		c.Picker.Placeholder = defaults.Picker.Placeholder
	}
	if c.Picker.Separator == "" {
		c.Picker.Separator = defaults.Picker.Separator
	}
	if c.Picker.MaxVisible < MinVisibleRows {
		c.Picker.MaxVisible = MinVisibleRows
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandOnFilter reports whether a non-empty filter should expand all nodes.
func (c Config) ExpandOnFilter() bool {
	return c.Picker.ExpandOnFilter == nil || *c.Picker.ExpandOnFilter
}

// WatchEnabled reports whether the dataset file should be watched.
func (c Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

// DebounceDuration returns the parsed watch debounce, falling back to 200ms.
func (c Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
