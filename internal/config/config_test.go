package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	content := `page:
  preset: a4
  gap: 48
render:
  buffer_size: 3
  scroll_debounce_ms: 32
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAGINATE_PAGE_PRESET", "legal")
	t.Setenv("PAGINATE_BUFFER_SIZE", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	if cfg.Page.Preset != "legal" {
		t.Errorf("expected env to override preset, got %q", cfg.Page.Preset)
	}
	if cfg.Page.Gap != 48 {
		t.Errorf("expected gap 48 from file, got %v", cfg.Page.Gap)
	}
	if cfg.Render.BufferSize != 5 {
		t.Errorf("expected env buffer size 5, got %d", cfg.Render.BufferSize)
	}
	if got := cfg.Render.ScrollDebounce().Milliseconds(); got != 32 {
		t.Errorf("expected 32ms debounce, got %dms", got)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Logging.Level)
	}
}

func TestMetricsPresetWithOverrides(t *testing.T) {
	cfg := Default()
	cfg.Page.Preset = "letter"
	cfg.Page.FooterHeight = 80

	m := cfg.Metrics()
	if m.Width != 816 || m.Height != 1056 {
		t.Errorf("expected letter geometry, got %vx%v", m.Width, m.Height)
	}
	if m.FooterHeight != 80 {
		t.Errorf("expected footer override 80, got %v", m.FooterHeight)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Page.Preset != "letter" {
		t.Errorf("expected default preset letter, got %q", cfg.Page.Preset)
	}
	m := cfg.Metrics()
	if m.ContentHeight() != 828 {
		t.Errorf("expected derived content height 828, got %v", m.ContentHeight())
	}
}
