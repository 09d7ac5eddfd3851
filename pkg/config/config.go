// Package config handles loading and saving av configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/av/config.yaml
//
// The Settings block is the read-only styling/layout object the core
// consumes per recomputation: card size, spacing, orientation, default
// view mode, and which toolbar toggles are shown. View state itself
// (filters, collapse set, transform) is transient and never persisted.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the display preferences consumed by the viewer core.
type Settings struct {
	Orientation     string  `yaml:"orientation,omitempty"`       // top-down, left-right
	DefaultView     string  `yaml:"default_view,omitempty"`      // diagram, table
	CardWidth       float64 `yaml:"card_width,omitempty"`        // node card width in layout px
	CardHeight      float64 `yaml:"card_height,omitempty"`       // node card height in layout px
	SiblingGap      float64 `yaml:"sibling_gap,omitempty"`       // gap between sibling cards
	LevelGap        float64 `yaml:"level_gap,omitempty"`         // gap between tree levels
	ZoomStep        float64 `yaml:"zoom_step,omitempty"`         // wheel/button zoom factor per step
	DoubleClickZoom float64 `yaml:"double_click_zoom,omitempty"` // scale factor on double-click-to-node
	ShowToggles     bool    `yaml:"show_toggles"`                // render collapse affordances
	ShowFilters     bool    `yaml:"show_filters"`                // render the filter toolbar
}

// Config is the top-level configuration for av.
type Config struct {
	Settings Settings `yaml:"settings,omitempty"`
	DataPath string   `yaml:"data_path,omitempty"` // default rows file/db when no flag given
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Settings: Settings{
			Orientation:     "top-down",
			DefaultView:     "diagram",
			CardWidth:       160,
			CardHeight:      48,
			SiblingGap:      24,
			LevelGap:        40,
			ZoomStep:        1.2,
			DoubleClickZoom: 1.5,
			ShowToggles:     true,
			ShowFilters:     true,
		},
	}
}

// ConfigDir returns the XDG config directory for av.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "av")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "av")
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
// Returns DefaultConfig if the file doesn't exist. Zero-valued numeric
// settings are backfilled with defaults so a sparse file stays usable.
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

	cfg.Settings = cfg.Settings.withDefaults()
	return cfg, nil
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

func (s Settings) withDefaults() Settings {
	def := DefaultConfig().Settings
	if s.Orientation == "" {
		s.Orientation = def.Orientation
	}
	if s.DefaultView == "" {
		s.DefaultView = def.DefaultView
	}
	if s.CardWidth <= 0 {
		s.CardWidth = def.CardWidth
	}
	if s.CardHeight <= 0 {
		s.CardHeight = def.CardHeight
	}
	if s.SiblingGap <= 0 {
		s.SiblingGap = def.SiblingGap
	}
	if s.LevelGap <= 0 {
		s.LevelGap = def.LevelGap
	}
	if s.ZoomStep <= 1 {
		s.ZoomStep = def.ZoomStep
	}
	if s.DoubleClickZoom <= 0 {
		s.DoubleClickZoom = def.DoubleClickZoom
	}
	return s
}
