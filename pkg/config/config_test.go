package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.BaseURL != "http://localhost:8080" {
		t.Errorf("expected default base url, got %q", cfg.Server.BaseURL)
	}
	if cfg.Report.ImageFormat != "png" {
		t.Errorf("expected png image format, got %q", cfg.Report.ImageFormat)
	}
	if cfg.Report.Scale != 1.5 {
		t.Errorf("expected scale 1.5, got %f", cfg.Report.Scale)
	}
	if cfg.Layout.Iterations != 1000 {
		t.Errorf("expected 1000 layout iterations, got %d", cfg.Layout.Iterations)
	}
	if !cfg.HistoryEnabled() {
		t.Error("expected history enabled by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Report.Dir != "." {
		t.Errorf("expected default config, got report dir %q", cfg.Report.Dir)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  base_url: https://codes.example.org/
report:
  dir: ~/reports
  image_format: SVG
  scale: 2
layout:
  iterations: 250
history:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "https://codes.example.org" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Server.BaseURL)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "reports"); cfg.Report.Dir != want {
		t.Errorf("expected expanded report dir %q, got %q", want, cfg.Report.Dir)
	}
	if cfg.Report.ImageFormat != "svg" {
		t.Errorf("expected svg, got %q", cfg.Report.ImageFormat)
	}
	if cfg.Report.Scale != 2 {
		t.Errorf("expected scale 2, got %f", cfg.Report.Scale)
	}
	if cfg.Layout.Iterations != 250 {
		t.Errorf("expected 250 iterations, got %d", cfg.Layout.Iterations)
	}
	if cfg.HistoryEnabled() {
		t.Error("expected history disabled")
	}
}

func TestLoadFrom_NormalizesBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  base_url: "   "
report:
  image_format: gif
  scale: -1
layout:
  iterations: 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Server.BaseURL != def.Server.BaseURL {
		t.Errorf("blank base url not defaulted: %q", cfg.Server.BaseURL)
	}
	if cfg.Report.ImageFormat != "png" {
		t.Errorf("unsupported format not defaulted: %q", cfg.Report.ImageFormat)
	}
	if cfg.Report.Scale != def.Report.Scale {
		t.Errorf("negative scale not defaulted: %f", cfg.Report.Scale)
	}
	if cfg.Layout.Iterations != def.Layout.Iterations {
		t.Errorf("zero iterations not defaulted: %d", cfg.Layout.Iterations)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg.Server.BaseURL != DefaultConfig().Server.BaseURL {
		t.Errorf("expected defaults alongside parse error, got %q", cfg.Server.BaseURL)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	disabled := false
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://analyzer:9000"
	cfg.Report.ImageFormat = "svg"
	cfg.History.Enabled = &disabled

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Server.BaseURL != "http://analyzer:9000" {
		t.Errorf("base url mismatch: %q", loaded.Server.BaseURL)
	}
	if loaded.Report.ImageFormat != "svg" {
		t.Errorf("image format mismatch: %q", loaded.Report.ImageFormat)
	}
	if loaded.HistoryEnabled() {
		t.Error("history flag did not round-trip")
	}
}

func TestLoad_ServerEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CCV_SERVER", "http://override:1234/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.BaseURL != "http://override:1234" {
		t.Errorf("expected env override, got %q", cfg.Server.BaseURL)
	}
}

func TestLoadWithEnv_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  base_url: http://file:9000\nreport:\n  image_format: svg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CCV_SERVER", "")
	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Server.BaseURL != "http://file:9000" || cfg.Report.ImageFormat != "svg" {
		t.Errorf("file values not applied: %+v", cfg)
	}

	t.Setenv("CCV_SERVER", "http://env:1")
	cfg, err = LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Server.BaseURL != "http://env:1" {
		t.Errorf("env override not applied, got %q", cfg.Server.BaseURL)
	}
	if cfg.Report.ImageFormat != "svg" {
		t.Errorf("env override clobbered file values")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "ccv")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	if got, want := StateDir(), filepath.Join(dir, "ccv"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, want := DefaultConfig().HistoryPath(), filepath.Join(dir, "ccv", "history.db"); got != want {
		t.Errorf("HistoryPath = %q, want %q", got, want)
	}
}
