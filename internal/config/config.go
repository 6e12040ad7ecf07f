// SPDX-License-Identifier: AGPL-3.0-only

// Package config holds the daemon configuration. Values come from defaults,
// an optional YAML file, TASKY_* environment variables, and command-line
// flags, applied in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Traves-Theberge/Tasky/internal/errors"
)

// Config is the root configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Storage   StorageConfig   `yaml:"storage"`
	Sound     SoundConfig     `yaml:"sound"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the MCP control surface
type ServerConfig struct {
	Name          string `yaml:"name"`
	Version       string `yaml:"version"`
	Address       string `yaml:"address"`
	Port          int    `yaml:"port"`
	TransportMode string `yaml:"transport"` // "stdio" or "sse"
}

// SchedulerConfig configures trigger evaluation
type SchedulerConfig struct {
	// Timezone is the IANA zone triggers are evaluated in. Empty means the
	// process-local zone.
	Timezone string `yaml:"timezone"`
	// DispatchTimeout bounds a single dispatch of a due reminder.
	DispatchTimeout Duration `yaml:"dispatch_timeout"`
}

// StorageConfig configures the JSON document store
type StorageConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// SoundConfig configures the notification sound cascade
type SoundConfig struct {
	// SoundFile is an optional audio file played by the external player.
	SoundFile string `yaml:"file"`
	// PlayerCommand overrides the platform default player binary.
	PlayerCommand string `yaml:"player"`
	// PlayerTimeout bounds the external player attempt.
	PlayerTimeout Duration `yaml:"player_timeout"`
	// BeepTimeout bounds the system beep attempt.
	BeepTimeout Duration `yaml:"beep_timeout"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:          "tasky",
			Version:       "dev",
			Address:       "localhost",
			Port:          8765,
			TransportMode: "stdio",
		},
		Scheduler: SchedulerConfig{
			Timezone:        "",
			DispatchTimeout: Duration(30 * time.Second),
		},
		Storage: StorageConfig{
			Path:  "",
			Watch: true,
		},
		Sound: SoundConfig{
			PlayerTimeout: Duration(10 * time.Second),
			BeepTimeout:   Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FromEnv overrides cfg with TASKY_* environment variables
func FromEnv(cfg *Config) {
	if v := os.Getenv("TASKY_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("TASKY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("TASKY_TRANSPORT"); v != "" {
		cfg.Server.TransportMode = v
	}
	if v := os.Getenv("TASKY_TIMEZONE"); v != "" {
		cfg.Scheduler.Timezone = v
	}
	if v := os.Getenv("TASKY_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TASKY_SOUND_FILE"); v != "" {
		cfg.Sound.SoundFile = v
	}
	if v := os.Getenv("TASKY_SOUND_PLAYER"); v != "" {
		cfg.Sound.PlayerCommand = v
	}
	if v := os.Getenv("TASKY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Server.TransportMode {
	case "stdio", "sse":
	default:
		return errors.InvalidInput(fmt.Sprintf("unsupported transport mode: %s", c.Server.TransportMode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.InvalidInput(fmt.Sprintf("invalid port: %d", c.Server.Port))
	}
	if c.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			return errors.InvalidInput(fmt.Sprintf("invalid timezone %q: %v", c.Scheduler.Timezone, err))
		}
	}
	if c.Scheduler.DispatchTimeout <= 0 {
		return errors.InvalidInput("dispatch timeout must be positive")
	}
	return nil
}

// Location resolves the configured trigger-evaluation timezone.
func (c *SchedulerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
