package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/marginalia/internal/format"
	"github.com/zjrosen/marginalia/internal/notehtml"
)

func plain(opts ...Option) *Renderer {
	return New(&bytes.Buffer{}, append([]Option{WithProfile(termenv.Ascii)}, opts...)...)
}

func TestRender_Paragraphs(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"empty", "", ""},
		{"plain lines", "a<br>b", "a\nb"},
		{"bullets", "<ul><li>First</li><li>Second</li></ul>", "• First\n• Second\n"},
		{"quote", "<blockquote>Q<br>R</blockquote>", "│ Q\n│ R\n"},
		{"combined", "<ul><li><blockquote>both</blockquote></li></ul>", "• │ both\n"},
		{"inline styles vanish without color", `<b>x</b><mark style="background-color:-399457">y</mark>`, "xy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, plain().Render(notehtml.Parse(tt.html)))
		})
	}
}

func TestRender_Wrap(t *testing.T) {
	txt := notehtml.Parse("<ul><li>the quick brown fox jumps over the lazy dog</li></ul>")
	out := plain(WithWidth(16)).Render(txt)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Greater(t, len(lines), 1)
	require.True(t, strings.HasPrefix(lines[0], "• "))
	for _, l := range lines {
		require.LessOrEqual(t, ansi.StringWidth(l), 16, l)
	}
	for _, l := range lines[1:] {
		require.True(t, strings.HasPrefix(l, "  "), "continuation lines are indented: %q", l)
	}
}

func TestRender_TrueColor(t *testing.T) {
	r := New(&bytes.Buffer{}, WithProfile(termenv.TrueColor), WithWidth(40))
	html := `<b>bold</b> <mark style="background-color:-399457">mark</mark> <a href="https://x.y">link</a>`
	out := r.Render(notehtml.Parse(html))

	require.Equal(t, "bold mark link", ansi.Strip(out))
	require.NotEqual(t, ansi.Strip(out), out, "styles are emitted")
	require.Contains(t, out, "48;2;249;231;159", "highlight background uses the display color")
}

func TestRender_DarkHighlight(t *testing.T) {
	codec := notehtml.New(format.New(format.WithDarkMode(true)))
	txt := codec.Parse(`<mark style="background-color:-399457">m</mark>`)
	dark := txt.At(0).Highlight.Display

	out := New(&bytes.Buffer{}, WithProfile(termenv.TrueColor)).Render(txt)
	require.Equal(t, "m", ansi.Strip(out))
	require.NotContains(t, out, "48;2;249;231;159")
	require.NotEqual(t, txt.At(0).Highlight.Light, dark)
}

func TestRender_Nil(t *testing.T) {
	require.Empty(t, plain().Render(nil))
}
