package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSetting_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".marginalia.yaml")

	err := SaveSetting(configPath, "interchange.nesting", "quote_then_bullet")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "interchange:")
	assert.Contains(t, string(data), "nesting: quote_then_bullet")
}

func TestSaveSetting_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".marginalia.yaml")

	initial := `# top comment
display:
  mode: dark
interchange:
  nesting: bullet_then_quote # how combined lines nest
  base_font_size: 16
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SaveSetting(configPath, "interchange.nesting", "quote_then_bullet"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# top comment")
	assert.Contains(t, content, "mode: dark")
	assert.Contains(t, content, "base_font_size: 16")
	assert.Contains(t, content, "nesting: quote_then_bullet")
	assert.Contains(t, content, "# how combined lines nest")
	assert.NotContains(t, content, "bullet_then_quote")
}

func TestSaveSetting_Roundtrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".marginalia.yaml")

	require.NoError(t, SaveSetting(configPath, "cache.ttl", "30s"))
	require.NoError(t, SaveSetting(configPath, "flags.normalize-on-save", "false"))
	require.NoError(t, SaveSetting(configPath, "font.family", "Noto Serif"))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, "30s", cfg.Cache.TTL.String())
	require.False(t, cfg.Flags["normalize-on-save"])
	require.Equal(t, "Noto Serif", cfg.Font.Family)
}

func TestSaveSetting_ReplacesScalarWithMapping(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".marginalia.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("display: dark\n"), 0o600))

	require.NoError(t, SaveSetting(configPath, "display.mode", "light"))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, "light", v.GetString("display.mode"))
}

func TestSaveSetting_InvalidKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".marginalia.yaml")

	for _, key := range []string{"", "a..b", ".a", "a."} {
		require.Error(t, SaveSetting(configPath, key, "x"), key)
	}
	_, err := os.Stat(configPath)
	require.True(t, os.IsNotExist(err))
}

func TestSaveSetting_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".marginalia.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("a: [unclosed"), 0o600))

	err := SaveSetting(configPath, "a", "b")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}
