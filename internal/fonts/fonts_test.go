package fonts

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	r := NewResolver(nil, Face{Family: "PingFang SC", Size: 16})
	latin := Face{Family: "Helvetica", Size: 16}

	tests := []struct {
		name        string
		cur         Face
		bold        bool
		italic      bool
		wantTraits  Traits
		wantSkew    float64
		wantOblique bool
	}{
		{"cjk bold", r.Base(), true, false, Bold, 0, false},
		{"cjk italic falls back to oblique", r.Base(), false, true, 0, ObliqueSkew, true},
		{"cjk bold italic keeps bold and skews", r.Base(), true, true, Bold, ObliqueSkew, true},
		{"latin italic is real", latin, false, true, Italic, 0, false},
		{"latin bold italic", latin, true, true, Bold | Italic, 0, false},
		{"plain", latin, false, false, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, oblique := r.Resolve(tt.cur, tt.bold, tt.italic)
			require.Equal(t, tt.wantTraits, got.Traits)
			require.Equal(t, tt.wantSkew, got.Skew)
			require.Equal(t, tt.wantOblique, oblique)
			require.Equal(t, tt.cur.Family, got.Family)
		})
	}
}

func TestResolve_RemovingItalicClearsSkew(t *testing.T) {
	r := NewResolver(nil, Face{Family: "Songti SC", Size: 14})
	skewed, oblique := r.Resolve(r.Base(), true, true)
	require.True(t, oblique)
	require.Equal(t, ObliqueSkew, skewed.Skew)

	upright, oblique := r.Resolve(skewed, true, false)
	require.False(t, oblique)
	require.Zero(t, upright.Skew)
	require.Equal(t, Bold, upright.Traits)
}

func TestResolve_FillsMissingFamilyFromBase(t *testing.T) {
	r := NewResolver(nil, Face{Family: "Hiragino Sans", Size: 18})
	got, oblique := r.Resolve(Face{}, false, true)
	require.True(t, oblique)
	require.Equal(t, "Hiragino Sans", got.Family)
	require.Equal(t, 18.0, got.Size)
}

func TestResolve_SkewOnlyWithItalic(t *testing.T) {
	r := NewResolver(nil, Face{Family: "PingFang SC", Size: 16})
	families := []string{"PingFang SC", "Helvetica", "Noto Serif CJK JP", "Georgia"}
	rapid.Check(t, func(t *rapid.T) {
		cur := Face{Family: rapid.SampledFrom(families).Draw(t, "family"), Size: 16}
		bold := rapid.Bool().Draw(t, "bold")
		italic := rapid.Bool().Draw(t, "italic")
		got, oblique := r.Resolve(cur, bold, italic)
		if oblique != (got.Skew != 0) {
			t.Fatalf("oblique=%v but skew=%v", oblique, got.Skew)
		}
		if !italic && oblique {
			t.Fatalf("oblique without italic request")
		}
		if got.Traits.Has(Bold) != bold {
			t.Fatalf("bold trait %v, requested %v", got.Traits, bold)
		}
	})
}

func TestStaticCatalog_With(t *testing.T) {
	c := DefaultCatalog().With(map[string]Traits{"PingFang SC": Bold | Italic, "My Font": 0})
	require.Equal(t, Bold|Italic, c.Available("pingfang sc"))
	require.Equal(t, Traits(0), c.Available("My Font"))
	require.Equal(t, Bold, c.Available("Heiti SC"))
	require.Equal(t, Bold|Italic, c.Available("Unknown"))

	require.Equal(t, Bold, DefaultCatalog().Available("PingFang SC"))
}

func TestParseTraits(t *testing.T) {
	got, ok := ParseTraits([]string{"Bold", " italic "})
	require.True(t, ok)
	require.Equal(t, Bold|Italic, got)

	got, ok = ParseTraits(nil)
	require.True(t, ok)
	require.Equal(t, Traits(0), got)

	_, ok = ParseTraits([]string{"heavy"})
	require.False(t, ok)
}
