package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/marginalia/internal/fonts"
	"github.com/zjrosen/marginalia/internal/notehtml"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, "bullet_then_quote", cfg.Interchange.Nesting)
	require.InDelta(t, 16.0, cfg.Interchange.BaseFontSize, 0)
	require.Equal(t, "PingFang SC", cfg.Font.Family)
	require.Equal(t, "auto", cfg.Display.Mode)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.True(t, cfg.Flags["normalize-on-save"])
	require.NoError(t, Validate(cfg))
}

func TestValidateInterchange(t *testing.T) {
	require.NoError(t, ValidateInterchange(InterchangeConfig{}), "empty uses defaults")
	require.NoError(t, ValidateInterchange(InterchangeConfig{Nesting: "quote_then_bullet"}))

	err := ValidateInterchange(InterchangeConfig{Nesting: "sideways"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "interchange.nesting")

	err = ValidateInterchange(InterchangeConfig{BaseFontSize: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "base_font_size")
}

func TestValidateFont(t *testing.T) {
	require.NoError(t, ValidateFont(FontConfig{Traits: map[string][]string{"my serif": {"bold", "italic"}}}))
	require.NoError(t, ValidateFont(FontConfig{Traits: map[string][]string{"bare": {}}}))

	err := ValidateFont(FontConfig{Traits: map[string][]string{"x": {"heavy"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "font.traits.x")
}

func TestValidateDisplay(t *testing.T) {
	for _, m := range []string{"", "auto", "light", "dark"} {
		require.NoError(t, ValidateDisplay(DisplayConfig{Mode: m}), m)
	}
	require.Error(t, ValidateDisplay(DisplayConfig{Mode: "sepia"}))
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(TracingConfig{}))

	err := ValidateTracing(TracingConfig{SampleRate: 1.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate")

	err = ValidateTracing(TracingConfig{Exporter: "jaeger"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.exporter")

	err = ValidateTracing(TracingConfig{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.file_path is required")

	err = ValidateTracing(TracingConfig{Enabled: true, Exporter: "otlp"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.otlp_endpoint is required")
}

func TestValidate_NegativeTTL(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.TTL = -time.Second
	require.Error(t, Validate(cfg))
}

func TestConfig_DarkMode(t *testing.T) {
	detectDark := func() bool { return true }

	cfg := Defaults()
	require.True(t, cfg.DarkMode(detectDark))
	require.False(t, cfg.DarkMode(nil))

	cfg.Display.Mode = "light"
	require.False(t, cfg.DarkMode(detectDark))

	cfg.Display.Mode = "dark"
	require.True(t, cfg.DarkMode(func() bool { return false }))
}

func TestConfig_Catalog_Overrides(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, fonts.Bold, cfg.Catalog().Available("PingFang SC"))

	cfg.Font.Traits = map[string][]string{"PingFang SC": {"bold", "italic"}}
	require.Equal(t, fonts.Bold|fonts.Italic, cfg.Catalog().Available("PingFang SC"))
	require.Equal(t, fonts.Bold, cfg.Catalog().Available("Heiti SC"), "other families keep their defaults")
}

func TestConfig_Codec(t *testing.T) {
	cfg := Defaults()
	cfg.Interchange.Nesting = "quote_then_bullet"
	cfg.Interchange.BaseFontSize = 18
	cfg.Font.Family = "Georgia"

	codec, err := cfg.Codec(true)
	require.NoError(t, err)
	require.Equal(t, notehtml.QuoteThenBullet, codec.Nesting())
	require.True(t, codec.Engine().DarkMode())

	base := codec.Engine().Base().Font
	require.Equal(t, "Georgia", base.Family)
	require.InDelta(t, 18.0, base.Size, 0)

	cfg.Interchange.Nesting = "bogus"
	_, err = cfg.Codec(false)
	require.Error(t, err)
}

func TestDefaultConfigTemplate_LoadsAsDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	def := Defaults()
	require.Equal(t, def.Interchange, cfg.Interchange)
	require.Equal(t, def.Font.Family, cfg.Font.Family)
	require.Equal(t, def.Display, cfg.Display)
	require.Equal(t, def.Cache, cfg.Cache)
	require.Equal(t, def.Flags, cfg.Flags)
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "marginalia.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
