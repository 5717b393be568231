package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elkdraw/elkdraw/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v, want nil for absent default config", err)
	}
	if cfg != (config{}) {
		t.Errorf("loadConfig() = %+v, want zero config", cfg)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig() error = %v, want code %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadConfigParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
padding = 12.5
font_size = 14
theme = "dark.css"
no_icons = true
icon_cache = "off"

[layout]
bin = "elkjson-dev"
timeout_seconds = 90
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Padding != 12.5 {
		t.Errorf("Padding = %v, want 12.5", cfg.Padding)
	}
	if cfg.FontSize != 14 {
		t.Errorf("FontSize = %v, want 14", cfg.FontSize)
	}
	if cfg.Theme != "dark.css" {
		t.Errorf("Theme = %q, want %q", cfg.Theme, "dark.css")
	}
	if !cfg.NoIcons {
		t.Error("NoIcons = false, want true")
	}
	if cfg.IconCache != "off" {
		t.Errorf("IconCache = %q, want %q", cfg.IconCache, "off")
	}
	if cfg.Layout.Bin != "elkjson-dev" {
		t.Errorf("Layout.Bin = %q, want %q", cfg.Layout.Bin, "elkjson-dev")
	}
	if cfg.Layout.TimeoutSeconds != 90 {
		t.Errorf("Layout.TimeoutSeconds = %d, want 90", cfg.Layout.TimeoutSeconds)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("padding = [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("loadConfig() error = %v, want code %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestDefaultConfigPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	got := defaultConfigPath()
	want := filepath.Join("/tmp/xdg", "elkdraw", "config.toml")
	if got != want {
		t.Errorf("defaultConfigPath() = %q, want %q", got, want)
	}
}
