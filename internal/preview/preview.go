// Package preview renders styled text for a terminal. It is an adapter
// outside the interchange engine: layout and styling live here only.
package preview

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/marginalia/internal/styled"
)

const (
	bulletPrefix = "• "
	quotePrefix  = "│ "
	linkColor    = "#5DADE2"
)

// Renderer turns styled text into ANSI-styled, wrapped lines.
type Renderer struct {
	lg    *lipgloss.Renderer
	width int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth wraps lines to w cells. Zero disables wrapping.
func WithWidth(w int) Option {
	return func(r *Renderer) { r.width = max(0, w) }
}

// WithProfile forces a color profile instead of detecting one from the
// output.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) { r.lg.SetColorProfile(p) }
}

// New creates a renderer for output written to w. A nil w means stdout.
func New(w io.Writer, opts ...Option) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	r := &Renderer{lg: lipgloss.NewRenderer(w)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HasDarkBackground reports whether the output terminal has a dark
// background.
func (r *Renderer) HasDarkBackground() bool {
	return r.lg.HasDarkBackground()
}

// Render returns t as terminal text, one output line per wrapped line.
func (r *Renderer) Render(t *styled.Text) string {
	if t == nil || t.Len() == 0 {
		return ""
	}
	var out []string
	for _, l := range t.Lines() {
		first, rest := prefixes(t, l)
		body := r.content(t, l)
		out = append(out, r.wrap(body, first, rest)...)
	}
	return strings.Join(out, "\n")
}

// prefixes returns the unstyled marker for the first and the continuation
// lines of a paragraph.
func prefixes(t *styled.Text, l styled.Line) (first, rest string) {
	if l.Empty() {
		return "", ""
	}
	a := t.At(l.Start)
	switch {
	case a.BulletList && a.Blockquote:
		return bulletPrefix + quotePrefix, "  " + quotePrefix
	case a.BulletList:
		return bulletPrefix, "  "
	case a.Blockquote:
		return quotePrefix, quotePrefix
	default:
		return "", ""
	}
}

func (r *Renderer) content(t *styled.Text, l styled.Line) string {
	var b strings.Builder
	for run := range t.RunsIn(l.Start, l.End) {
		b.WriteString(r.style(run.Attrs).Render(t.Substring(run.Start, run.End)))
	}
	return b.String()
}

func (r *Renderer) style(a styled.Attributes) lipgloss.Style {
	st := r.lg.NewStyle().
		Bold(a.Bold).
		Italic(a.Italic).
		Underline(a.Underline || a.Link != "").
		Strikethrough(a.Strikethrough)
	if !a.Highlight.IsZero() {
		st = st.Background(lipgloss.Color(a.Highlight.Display.Hex()))
	}
	if a.Link != "" {
		st = st.Foreground(lipgloss.Color(linkColor))
	}
	return st
}

func (r *Renderer) wrap(body, first, rest string) []string {
	lines := []string{body}
	if r.width > 0 {
		limit := max(1, r.width-max(uniseg.StringWidth(first), uniseg.StringWidth(rest)))
		lines = strings.Split(wordwrap.String(body, limit), "\n")
	}
	bar := r.lg.NewStyle().Faint(true).Render(quotePrefix)
	first = strings.Replace(first, quotePrefix, bar, 1)
	rest = strings.Replace(rest, quotePrefix, bar, 1)
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = rest + lines[i]
		}
	}
	return lines
}
