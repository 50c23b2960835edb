// Package config loads the gridsim runtime configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration. Zero values mean defaults.
type Config struct {
	World         string  `yaml:"world"`          // Lua world file or directory; empty runs the stock maze
	SaveDir       string  `yaml:"save_dir"`       // where /save writes relative paths
	MaxRounds     int     `yaml:"max_rounds"`     // 0 = until quit
	Seed          int64   `yaml:"seed"`           // world RNG seed
	VisionRadius  float64 `yaml:"vision_radius"`  // 0 = unlimited
	Plain         bool    `yaml:"plain"`          // plain text interface instead of the TUI
	Trace         bool    `yaml:"trace"`          // print every agent action
	EventCapacity int     `yaml:"event_capacity"` // turn events kept for trace and replay; 0 = default

	Log Log `yaml:"log"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`   // empty: stderr for the plain interface, discarded for the TUI
}

// Environment variables that override the file.
const (
	EnvWorld     = "GRIDSIM_WORLD"
	EnvSaveDir   = "GRIDSIM_SAVE_DIR"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SaveDir: ".",
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvWorld); ok {
		c.World = v
	}
	if v, ok := lookup(EnvSaveDir); ok {
		c.SaveDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = strings.ToLower(v)
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("max_rounds must not be negative, got %d", c.MaxRounds))
	}
	if c.EventCapacity < 0 {
		errs = append(errs, fmt.Errorf("event_capacity must not be negative, got %d", c.EventCapacity))
	}
	if c.VisionRadius < 0 {
		errs = append(errs, fmt.Errorf("vision_radius must not be negative, got %g", c.VisionRadius))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
