// Package config loads CLI configuration from a YAML page-setup file
// and environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glowdocs/paginate/internal/page"
)

// PageConfig holds page geometry settings. Zero fields keep the preset's
// value.
type PageConfig struct {
	Preset           string  `yaml:"preset"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	MarginTop        float64 `yaml:"margin_top"`
	MarginBottom     float64 `yaml:"margin_bottom"`
	MarginHorizontal float64 `yaml:"margin_horizontal"`
	Gap              float64 `yaml:"gap"`
	HeaderHeight     float64 `yaml:"header_height"`
	FooterHeight     float64 `yaml:"footer_height"`
}

// RenderConfig holds virtual-renderer tuning. Durations are plain
// millisecond counts so the YAML stays scalar.
type RenderConfig struct {
	BufferSize          int     `yaml:"buffer_size"`
	ScrollDebounceMs    int     `yaml:"scroll_debounce_ms"`
	FastScrollWindowMs  int     `yaml:"fast_scroll_window_ms"`
	FastScrollThreshold float64 `yaml:"fast_scroll_threshold"`
}

// ScrollDebounce returns the debounce interval, zero when unset.
func (r RenderConfig) ScrollDebounce() time.Duration {
	return time.Duration(r.ScrollDebounceMs) * time.Millisecond
}

// FastScrollWindow returns the velocity window, zero when unset.
func (r RenderConfig) FastScrollWindow() time.Duration {
	return time.Duration(r.FastScrollWindowMs) * time.Millisecond
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the root CLI configuration.
type Config struct {
	Page    PageConfig    `yaml:"page"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Page:    PageConfig{Preset: "letter"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML configuration file and applies environment
// overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// FromEnv returns the default configuration with environment overrides
// applied.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	c.Page.Preset = getEnv("PAGINATE_PAGE_PRESET", c.Page.Preset)
	c.Page.Width = parseFloat(getEnv("PAGINATE_PAGE_WIDTH", ""), c.Page.Width)
	c.Page.Height = parseFloat(getEnv("PAGINATE_PAGE_HEIGHT", ""), c.Page.Height)
	c.Page.Gap = parseFloat(getEnv("PAGINATE_PAGE_GAP", ""), c.Page.Gap)
	c.Render.BufferSize = parseInt(getEnv("PAGINATE_BUFFER_SIZE", ""), c.Render.BufferSize)
	c.Render.ScrollDebounceMs = parseInt(getEnv("PAGINATE_SCROLL_DEBOUNCE_MS", ""), c.Render.ScrollDebounceMs)
	c.Logging.Level = getEnv("PAGINATE_LOG_LEVEL", c.Logging.Level)
	c.Logging.Pretty = parseBool(getEnv("PAGINATE_LOG_PRETTY", ""), c.Logging.Pretty)
}

// Metrics resolves the page configuration to concrete metrics: preset
// first, explicit fields override.
func (c Config) Metrics() page.Metrics {
	var m page.Metrics
	switch strings.ToLower(c.Page.Preset) {
	case "a4":
		m = page.A4
	case "legal":
		m = page.Legal
	default:
		m = page.Letter
	}
	if c.Page.Width > 0 {
		m.Width = c.Page.Width
	}
	if c.Page.Height > 0 {
		m.Height = c.Page.Height
	}
	if c.Page.MarginTop > 0 {
		m.MarginTop = c.Page.MarginTop
	}
	if c.Page.MarginBottom > 0 {
		m.MarginBottom = c.Page.MarginBottom
	}
	if c.Page.MarginHorizontal > 0 {
		m.MarginHorizontal = c.Page.MarginHorizontal
	}
	if c.Page.Gap > 0 {
		m.Gap = c.Page.Gap
	}
	if c.Page.HeaderHeight > 0 {
		m.HeaderHeight = c.Page.HeaderHeight
	}
	if c.Page.FooterHeight > 0 {
		m.FooterHeight = c.Page.FooterHeight
	}
	return m
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return fallback
}

func parseBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return fallback
}
