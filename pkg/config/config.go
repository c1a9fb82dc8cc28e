// Package config handles loading and saving ccv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/ccv/config.yaml
//   - State:   ~/.local/state/ccv/ (theme preference, analysis history)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "ccv"

// ServerConfig points the client at the analysis service.
type ServerConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// ReportConfig controls Markdown report export.
type ReportConfig struct {
	Dir         string  `yaml:"dir,omitempty"`          // Directory analysis_report.md is written to
	ImageFormat string  `yaml:"image_format,omitempty"` // png or svg
	Scale       float64 `yaml:"scale,omitempty"`        // Raster snapshot scale factor
}

// LayoutConfig tunes the force-directed graph layout.
type LayoutConfig struct {
	Iterations int `yaml:"iterations,omitempty"`
}

// HistoryConfig controls the local log of analyses.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Config is the top-level configuration for ccv.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Report  ReportConfig  `yaml:"report,omitempty"`
	Layout  LayoutConfig  `yaml:"layout,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080",
		},
		Report: ReportConfig{
			Dir:         ".",
			ImageFormat: "png",
			Scale:       1.5,
		},
		Layout: LayoutConfig{
			Iterations: 1000,
		},
	}
}

// HistoryEnabled reports whether analyses should be recorded. Defaults to true.
func (c Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// HistoryPath returns the sqlite path for the analysis history.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// ConfigDir returns the XDG config directory for ccv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for ccv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory and applies
// environment overrides.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	return LoadWithEnv(ConfigPath())
}

// LoadWithEnv reads config from path, like LoadFrom, then applies environment
// overrides. An empty path yields the defaults.
func LoadWithEnv(path string) (Config, error) {
	if path == "" {
		return applyEnv(DefaultConfig()), nil
	}
	cfg, err := LoadFrom(path)
	return applyEnv(cfg), err
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
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
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

func (c *Config) normalize() {
	def := DefaultConfig()

	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}

	c.Report.Dir = expandHome(c.Report.Dir)
	if c.Report.Dir == "" {
		c.Report.Dir = def.Report.Dir
	}
	c.Report.ImageFormat = strings.ToLower(strings.TrimPrefix(c.Report.ImageFormat, "."))
	if c.Report.ImageFormat != "png" && c.Report.ImageFormat != "svg" {
		c.Report.ImageFormat = def.Report.ImageFormat
	}
	if c.Report.Scale <= 0 {
		c.Report.Scale = def.Report.Scale
	}

	if c.Layout.Iterations <= 0 {
		c.Layout.Iterations = def.Layout.Iterations
	}

	c.History.Path = expandHome(c.History.Path)
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("CCV_SERVER")); v != "" {
		cfg.Server.BaseURL = strings.TrimRight(v, "/")
	}
	return cfg
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
