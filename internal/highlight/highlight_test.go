package highlight

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPalette_HasThirteenDistinctEntries(t *testing.T) {
	entries := Palette()
	require.Len(t, entries, 13)

	seen := make(map[ARGB]bool)
	for _, e := range entries {
		require.False(t, seen[e.Light], "duplicate color %s", e.Light)
		require.False(t, seen[e.Dark], "duplicate color %s", e.Dark)
		seen[e.Light] = true
		seen[e.Dark] = true
		require.Equal(t, ARGB(0xFF), e.Light>>24)
		require.Equal(t, ARGB(0xFF), e.Dark>>24)
	}
}

func TestPalette_ReturnsCopy(t *testing.T) {
	entries := Palette()
	entries[0].Light = 0
	require.Equal(t, DefaultHighlight, Palette()[0].Light)
}

func TestAndroidIntRoundTrip_PaletteEntries(t *testing.T) {
	for _, e := range Palette() {
		require.Equal(t, e.Light, FromAndroidInt(e.Light.AndroidInt()))
		require.Equal(t, e.Dark, FromAndroidInt(e.Dark.AndroidInt()))
	}
}

func TestAndroidInt_DefaultHighlight(t *testing.T) {
	require.Equal(t, int32(-399457), DefaultHighlight.AndroidInt())
	require.Equal(t, DefaultHighlight, FromAndroidInt(-399457))
}

func TestAndroidIntRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := ARGB(rapid.Uint32().Draw(t, "color"))
		if FromAndroidInt(c.AndroidInt()) != c {
			t.Fatalf("round trip changed %s", c)
		}
	})
}

func TestDarkLightInvolution(t *testing.T) {
	for _, e := range Palette() {
		dark := DisplayColor(e.Light, true)
		require.Equal(t, e.Dark, dark)
		require.Equal(t, e.Light, LightColor(dark))
	}
}

func TestDisplayColor(t *testing.T) {
	tests := []struct {
		name  string
		light ARGB
		dark  bool
		want  ARGB
	}{
		{"light mode is identity", 0xFFF9E79F, false, 0xFFF9E79F},
		{"dark mode maps palette entry", 0xFFAED6F1, true, 0xFF1B4F72},
		{"unknown passes through", 0xFF123456, true, 0xFF123456},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DisplayColor(tt.light, tt.dark))
		})
	}
}

func TestLightColor_LightValueIsFixedPoint(t *testing.T) {
	for _, e := range Palette() {
		require.Equal(t, e.Light, LightColor(e.Light))
	}
	require.Equal(t, ARGB(0xFF010203), LightColor(0xFF010203))
}

func TestParseCSSValue(t *testing.T) {
	tests := []struct {
		in     string
		want   ARGB
		wantOK bool
	}{
		{"-399457", 0xFFF9E79F, true},
		{" -399457 ", 0xFFF9E79F, true},
		{"4294567839", 0xFFF9E79F, true},
		{"#F9E79F", 0xFFF9E79F, true},
		{"#f9e79f", 0xFFF9E79F, true},
		{"#80F9E79F", 0x80F9E79F, true},
		{"#00F9E79F", 0xFFF9E79F, true},
		{"16377759", 0xFFF9E79F, true},
		{"", 0, false},
		{"#FFF", 0, false},
		{"#GGGGGG", 0, false},
		{"yellow", 0, false},
		{"4294967296", 0, false},
		{"-2147483649", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCSSValue(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseCSSValue_AndroidIntProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := ARGB(rapid.Uint32Range(0x01000000, 0xFFFFFFFF).Draw(t, "color"))
		got, ok := ParseCSSValue(strconv.FormatInt(int64(c.AndroidInt()), 10))
		if !ok || got != c {
			t.Fatalf("parse(%d) = %s, %v", c.AndroidInt(), got, ok)
		}
	})
}

func TestHex(t *testing.T) {
	require.Equal(t, "#F9E79F", DefaultHighlight.Hex())
	require.Equal(t, "#000001", ARGB(0xFF000001).Hex())
}
