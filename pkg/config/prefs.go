package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ThemeKey is the preference key the theme flag is stored under.
const ThemeKey = "cc-theme"

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Prefs is the small set of UI preferences that persist between sessions.
type Prefs struct {
	path   string
	values map[string]string
}

// PrefsPath returns the default preferences file location.
func PrefsPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "prefs.yaml")
}

// LoadPrefs reads preferences from path. A missing or unreadable file yields
// empty preferences so the defaults apply.
func LoadPrefs(path string) *Prefs {
	p := &Prefs{path: path, values: make(map[string]string)}
	if path == "" {
		return p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return p
	}
	for k, v := range values {
		p.values[k] = v
	}
	return p
}

// Theme returns the persisted theme, defaulting to dark.
func (p *Prefs) Theme() string {
	if p.values[ThemeKey] == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// SetTheme stores the theme and writes the preferences file.
func (p *Prefs) SetTheme(theme string) error {
	if theme != ThemeLight {
		theme = ThemeDark
	}
	p.values[ThemeKey] = theme
	return p.save()
}

func (p *Prefs) save() error {
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := yaml.Marshal(p.values)
	if err != nil {
		return fmt.Errorf("marshaling prefs: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("writing prefs: %w", err)
	}
	return nil
}
