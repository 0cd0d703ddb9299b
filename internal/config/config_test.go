package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Render.CharDiff || !cfg.Render.Highlight || !cfg.Render.CopyButtons || !cfg.Render.FileRefs {
		t.Errorf("render defaults = %+v, want all enabled", cfg.Render)
	}
	if cfg.UI.Theme != "monokai" {
		t.Errorf("theme = %q, want monokai", cfg.UI.Theme)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if want := filepath.Join(dir, "cache", appName, "renders.db"); cfg.Cache.Path != want {
		t.Errorf("cache path = %q, want %q", cfg.Cache.Path, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EDITRENDER_THEME_NAME", "dracula")
	path := filepath.Join(dir, "custom.yaml")
	content := `render:
  char_diff: false
  known_paths:
    - cmd/root.go
ui:
  theme: ${EDITRENDER_THEME_NAME}
  width: 100
cache:
  enabled: true
  path: /tmp/editrender-test.db
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Render.CharDiff {
		t.Error("char_diff should be false")
	}
	if !cfg.Render.Highlight {
		t.Error("highlight default should survive a partial file")
	}
	if !reflect.DeepEqual(cfg.Render.KnownPaths, []string{"cmd/root.go"}) {
		t.Errorf("known paths = %v", cfg.Render.KnownPaths)
	}
	if cfg.UI.Theme != "dracula" || cfg.UI.Width != 100 {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != "/tmp/editrender-test.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("EDITRENDER_LOG_LEVEL", "error")
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, want error", cfg.Log.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{
		Render: RenderConfig{Highlight: true, KnownPaths: []string{"a.go"}},
		UI:     UIConfig{Theme: "github", Width: 80},
		Cache:  CacheConfig{Path: "/tmp/x.db"},
		Log:    LogConfig{Level: "info"},
	}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# editrender configuration") {
		t.Errorf("missing header: %q", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EDITRENDER_TEST_VAR", "value")
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"$EDITRENDER_TEST_VAR", "value"},
		{"${EDITRENDER_TEST_VAR}", "value"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandEnv(tt.in); got != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
