// Package config provides configuration types, defaults, and persistence for marginalia.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/marginalia/internal/flags"
	"github.com/zjrosen/marginalia/internal/fonts"
	"github.com/zjrosen/marginalia/internal/format"
	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/notehtml"
)

// Config holds all marginalia settings.
type Config struct {
	Interchange InterchangeConfig `mapstructure:"interchange"`
	Font        FontConfig        `mapstructure:"font"`
	Display     DisplayConfig     `mapstructure:"display"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Flags       map[string]bool   `mapstructure:"flags"`
}

// InterchangeConfig controls the HTML codec.
type InterchangeConfig struct {
	// Nesting decides how combined bullet/quote lines are written.
	// Options: "bullet_then_quote", "quote_then_bullet"
	// Default: "bullet_then_quote"
	Nesting string `mapstructure:"nesting"`

	// BaseFontSize is the point size of plain text.
	// Default: 16
	BaseFontSize float64 `mapstructure:"base_font_size"`
}

// FontConfig selects the base font and overrides the trait catalog.
type FontConfig struct {
	Family string `mapstructure:"family"` // Default: PingFang SC

	// Traits maps a family to the traits it really provides ("bold", "italic").
	// Families listed here replace the built-in catalog entry.
	Traits map[string][]string `mapstructure:"traits"`
}

// DisplayConfig controls how highlights are shown.
type DisplayConfig struct {
	Mode string `mapstructure:"mode"` // "auto" (default), "light", or "dark"
}

// StorageConfig holds the note database location.
type StorageConfig struct {
	// Path is the SQLite database file.
	// Default: ~/.marginalia/notes.db
	Path string `mapstructure:"path"`
}

// CacheConfig controls the parsed-note cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // Default: 10m
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/marginalia/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns ~/.config/marginalia/traces/traces.jsonl,
// or empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "marginalia", "traces", "traces.jsonl")
}

// DefaultStoragePath returns ~/.marginalia/notes.db, or empty string if the
// home dir is unavailable.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".marginalia", "notes.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Interchange: InterchangeConfig{
			Nesting:      "bullet_then_quote",
			BaseFontSize: 16,
		},
		Font: FontConfig{
			Family: format.DefaultBaseFont.Family,
		},
		Display: DisplayConfig{Mode: "auto"},
		Storage: StorageConfig{Path: DefaultStoragePath()},
		Cache:   CacheConfig{TTL: 10 * time.Minute},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Flags: flags.Defaults(),
	}
}

// Validate checks every section of cfg.
func Validate(cfg Config) error {
	if err := ValidateInterchange(cfg.Interchange); err != nil {
		return err
	}
	if err := ValidateFont(cfg.Font); err != nil {
		return err
	}
	if err := ValidateDisplay(cfg.Display); err != nil {
		return err
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cfg.Cache.TTL)
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateInterchange checks codec settings. Empty values use defaults.
func ValidateInterchange(ic InterchangeConfig) error {
	if _, err := notehtml.ParseNesting(ic.Nesting); err != nil {
		return fmt.Errorf("interchange.%w", err)
	}
	if ic.BaseFontSize < 0 {
		return fmt.Errorf("interchange.base_font_size must not be negative, got %v", ic.BaseFontSize)
	}
	return nil
}

// ValidateFont checks the trait overrides.
func ValidateFont(fc FontConfig) error {
	for family, names := range fc.Traits {
		if _, ok := fonts.ParseTraits(names); !ok {
			return fmt.Errorf("font.traits.%s must list only \"bold\" or \"italic\", got %q", family, names)
		}
	}
	return nil
}

// ValidateDisplay checks the display mode.
func ValidateDisplay(dc DisplayConfig) error {
	switch dc.Mode {
	case "", "auto", "light", "dark":
		return nil
	default:
		return fmt.Errorf("display.mode must be \"auto\", \"light\", or \"dark\", got %q", dc.Mode)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DarkMode resolves display.mode. detect is consulted only for "auto".
func (c Config) DarkMode(detect func() bool) bool {
	switch c.Display.Mode {
	case "dark":
		return true
	case "light":
		return false
	default:
		return detect != nil && detect()
	}
}

// Catalog returns the built-in font catalog with the configured overrides.
func (c Config) Catalog() fonts.StaticCatalog {
	overrides := make(map[string]fonts.Traits, len(c.Font.Traits))
	for family, names := range c.Font.Traits {
		if t, ok := fonts.ParseTraits(names); ok {
			overrides[strings.ToLower(family)] = t
		}
	}
	return fonts.DefaultCatalog().With(overrides)
}

// Codec builds the HTML codec described by the configuration.
func (c Config) Codec(dark bool) (*notehtml.Codec, error) {
	nesting, err := notehtml.ParseNesting(c.Interchange.Nesting)
	if err != nil {
		return nil, fmt.Errorf("interchange.%w", err)
	}

	base := format.DefaultBaseFont
	if c.Font.Family != "" {
		base.Family = c.Font.Family
	}
	if c.Interchange.BaseFontSize > 0 {
		base.Size = c.Interchange.BaseFontSize
	}

	engine := format.New(
		format.WithCatalog(c.Catalog()),
		format.WithBaseFont(base),
		format.WithDarkMode(dark),
	)
	log.Debug(log.CatConfig, "Built codec", "nesting", nesting, "family", base.Family, "size", base.Size, "dark", dark)
	return notehtml.New(engine, notehtml.WithNesting(nesting)), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Marginalia Configuration

# HTML interchange with the Android client
interchange:
  # How a line that is both a bullet and a quote is written:
  #   bullet_then_quote  <ul><li><blockquote>...</blockquote></li></ul>  (default)
  #   quote_then_bullet  <blockquote><ul><li>...</li></ul></blockquote>
  nesting: bullet_then_quote
  base_font_size: 16

# Base font and trait catalog
font:
  family: PingFang SC
  # Families without a true italic get a synthetic 12 degree oblique.
  # Override what a family provides:
  # traits:
  #   "My Serif": [bold, italic]
  #   "Noto Sans CJK SC": [bold]

# Highlight display: auto (detect terminal background), light, or dark
display:
  mode: auto

# Note database
# storage:
#   path: ~/.marginalia/notes.db

# Parsed-note cache
cache:
  ttl: 10m

# Distributed tracing of note load/save/normalize
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/marginalia/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags
flags:
  normalize-on-save: true   # Round-trip raw HTML through the codec before storing it
  markdown-export: true     # Allow "export --format markdown"
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
