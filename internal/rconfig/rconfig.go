// Package rconfig loads the YAML settings file that backs the reversi
// CLI's defaults (broadcast address/port, discovery window, session
// deadline, logging), following the same load/merge/save shape the
// wing.yaml config used, but for a single file instead of layered
// user+project configs — this CLI has no project-local notion.
package rconfig

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the play command needs a default for.
// Zero values mean "unset"; Merge fills them in.
type Config struct {
	BroadcastAddr  string  `yaml:"broadcast_addr,omitempty"`
	BroadcastPort  int     `yaml:"broadcast_port,omitempty"`
	DiscoverWindow float64 `yaml:"discover_window,omitempty"`
	SessionTimeout float64 `yaml:"session_timeout,omitempty"`
	LogLevel       string  `yaml:"log_level,omitempty"`
	LogFile        string  `yaml:"log_file,omitempty"`
	LogJSON        bool    `yaml:"log_json,omitempty"`
}

// Defaults mirror §6's external interface: a 5s discovery window and
// the 300s silent-peer deadline from §5.
func Defaults() Config {
	return Config{
		BroadcastPort:  9000,
		DiscoverWindow: 5.0,
		SessionTimeout: 300.0,
		LogLevel:       "info",
	}
}

// Merge returns a copy of c with every zero-valued field replaced by
// the corresponding field from other. Used to layer CLI flags (c) over
// a loaded file (other) over hardcoded Defaults().
func (c Config) Merge(other Config) Config {
	merged := c
	if merged.BroadcastAddr == "" {
		merged.BroadcastAddr = other.BroadcastAddr
	}
	if merged.BroadcastPort == 0 {
		merged.BroadcastPort = other.BroadcastPort
	}
	if merged.DiscoverWindow == 0 {
		merged.DiscoverWindow = other.DiscoverWindow
	}
	if merged.SessionTimeout == 0 {
		merged.SessionTimeout = other.SessionTimeout
	}
	if merged.LogLevel == "" {
		merged.LogLevel = other.LogLevel
	}
	if merged.LogFile == "" {
		merged.LogFile = other.LogFile
	}
	if !merged.LogJSON {
		merged.LogJSON = other.LogJSON
	}
	return merged
}

// DefaultPath is ~/.reversi/reversi.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".reversi", "reversi.yaml"), nil
}

// Load reads path. A missing file is not an error; it yields a
// zero-value Config so Merge falls through to built-in defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
