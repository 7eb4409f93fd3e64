// Package config handles session configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all session settings.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// SessionConfig holds scheduler settings.
type SessionConfig struct {
	TickRate  int `yaml:"tick_rate"`  // Ticks per second, 0 runs unthrottled
	MaxFrames int `yaml:"max_frames"` // Ticks to run before the session ends
}

// SceneConfig holds the scene manifest and asset arrival timing.
type SceneConfig struct {
	Manifest      string `yaml:"manifest"`        // Path to the YAML scene manifest
	LoadTicks     int    `yaml:"load_ticks"`      // Ticks until asset loading completes
	SpawnLagTicks int    `yaml:"spawn_lag_ticks"` // Ticks between load completion and instantiation
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MaxTickRate bounds session.tick_rate so the tick interval stays above zero.
const MaxTickRate = 1000

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			TickRate:  60,
			MaxFrames: 600,
		},
		Scene: SceneConfig{
			Manifest:      "scene.yaml",
			LoadTicks:     2,
			SpawnLagTicks: 3,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Session.TickRate < 0 || c.Session.TickRate > MaxTickRate {
		err = multierr.Append(err, fmt.Errorf("session.tick_rate must be in [0, %d], got %d", MaxTickRate, c.Session.TickRate))
	}
	if c.Session.MaxFrames <= 0 {
		err = multierr.Append(err, fmt.Errorf("session.max_frames must be > 0, got %d", c.Session.MaxFrames))
	}
	if c.Scene.Manifest == "" {
		err = multierr.Append(err, fmt.Errorf("scene.manifest is required"))
	}
	if c.Scene.LoadTicks < 0 {
		err = multierr.Append(err, fmt.Errorf("scene.load_ticks must be >= 0, got %d", c.Scene.LoadTicks))
	}
	if c.Scene.SpawnLagTicks < 0 {
		err = multierr.Append(err, fmt.Errorf("scene.spawn_lag_ticks must be >= 0, got %d", c.Scene.SpawnLagTicks))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return err
}
