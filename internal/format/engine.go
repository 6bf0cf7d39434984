// Package format implements the format mutation API an editor calls while
// the user types: apply, remove, toggle and query for every styled.Kind.
//
// Character formats act on the characters in a range. Paragraph formats
// (bullet list and blockquote) act on every whole line the range touches.
// Ranges outside the text are logged and ignored; no operation ever leaves a
// text partially updated.
package format

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/zjrosen/marginalia/internal/fonts"
	"github.com/zjrosen/marginalia/internal/highlight"
	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/styled"
)

// Range is a half-open character range. A zero-length range is a cursor.
type Range struct {
	Start int
	End   int
}

// Cursor returns the empty range at pos.
func Cursor(pos int) Range { return Range{Start: pos, End: pos} }

// Collapsed reports whether r is a cursor.
func (r Range) Collapsed() bool { return r.Start == r.End }

// Value carries the extra argument of highlight and link formats.
type Value struct {
	// Color is the light-mode highlight color. Zero selects DefaultHighlight.
	Color highlight.ARGB
	URL   string
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	catalog fonts.Catalog
	base    fonts.Face
	dark    bool
}

// WithCatalog sets the font catalog used for trait resolution.
func WithCatalog(c fonts.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithBaseFont sets the face plain text starts with.
func WithBaseFont(f fonts.Face) Option {
	return func(o *options) { o.base = f }
}

// WithDarkMode makes new highlights display their dark-mode color.
func WithDarkMode(dark bool) Option {
	return func(o *options) { o.dark = dark }
}

// DefaultBaseFont is the face used when no base font is configured.
var DefaultBaseFont = fonts.Face{Family: "PingFang SC", Size: 16}

// Engine applies formats to styled texts. It holds no per-text state and is
// safe for concurrent use on distinct texts.
type Engine struct {
	resolver *fonts.Resolver
	dark     bool
}

// New creates an engine.
func New(opts ...Option) *Engine {
	o := options{base: DefaultBaseFont}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		resolver: fonts.NewResolver(o.catalog, o.base),
		dark:     o.dark,
	}
}

// Base returns the attributes of plain text.
func (e *Engine) Base() styled.Attributes {
	return styled.Attributes{Font: e.resolver.Base()}
}

// DarkMode reports whether highlights are displayed in dark mode.
func (e *Engine) DarkMode() bool { return e.dark }

// Mark builds the highlight for a light-mode color.
func (e *Engine) Mark(light highlight.ARGB) styled.Mark {
	if light == 0 {
		light = highlight.DefaultHighlight
	}
	light = light.Opaque()
	return styled.Mark{Display: highlight.DisplayColor(light, e.dark), Light: light}
}

// ResolveFont re-resolves a's face for its bold and italic flags and keeps
// the oblique fallback flag in step with the result.
func (e *Engine) ResolveFont(a *styled.Attributes) {
	face, oblique := e.resolver.Resolve(a.Font, a.Bold, a.Italic)
	a.Font = face
	a.ObliqueItalicFallback = oblique
}

// ValidLink reports whether s is usable as a link target.
func ValidLink(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) {
		return false
	}
	_, err := url.Parse(s)
	return err == nil
}

// Apply adds kind over r.
func (e *Engine) Apply(t *styled.Text, kind styled.Kind, r Range, v Value) {
	if !e.check(t, "apply", kind, r) {
		return
	}
	if kind.IsParagraph() {
		e.applyParagraph(t, kind, r)
		return
	}
	if kind == styled.Link && !ValidLink(v.URL) {
		log.Debug(log.CatFormat, "dropping invalid link", "url", v.URL)
		return
	}
	t.Update(r.Start, r.End, func(a *styled.Attributes) { e.set(a, kind, v) })
}

// Remove clears kind over r.
func (e *Engine) Remove(t *styled.Text, kind styled.Kind, r Range) {
	if !e.check(t, "remove", kind, r) {
		return
	}
	if kind.IsParagraph() {
		e.removeParagraph(t, kind, r)
		return
	}
	t.Update(r.Start, r.End, func(a *styled.Attributes) { e.clear(a, kind) })
}

// Toggle removes kind when r already carries it and applies it otherwise.
func (e *Engine) Toggle(t *styled.Text, kind styled.Kind, r Range, v Value) {
	if e.Contains(t, kind, r) {
		e.Remove(t, kind, r)
		return
	}
	e.Apply(t, kind, r, v)
}

// Contains reports whether r carries kind. A cursor carries a character
// format only when the characters on both sides of it do. A non-empty range
// carries it when every character does. Paragraph formats are judged per
// line: every line the range touches must carry the format.
func (e *Engine) Contains(t *styled.Text, kind styled.Kind, r Range) bool {
	if !t.InBounds(r.Start, r.End) {
		return false
	}
	if kind.IsParagraph() {
		lines := t.LinesIn(r.Start, r.End)
		if len(lines) == 0 {
			return false
		}
		for _, l := range lines {
			if !lineCarries(t, l, kind) {
				return false
			}
		}
		return true
	}

	if r.Collapsed() {
		p := r.Start
		if p == 0 || p >= t.Len() {
			return false
		}
		return t.At(p-1).Has(kind) && t.At(p).Has(kind)
	}
	for run := range t.RunsIn(r.Start, r.End) {
		if !run.Attrs.Has(kind) {
			return false
		}
	}
	return true
}

// ClearFormats resets every character in r to plain text.
func (e *Engine) ClearFormats(t *styled.Text, r Range) {
	if !t.InBounds(r.Start, r.End) {
		log.Debug(log.CatFormat, "clear formats out of bounds", "start", r.Start, "end", r.End, "len", t.Len())
		return
	}
	t.Set(r.Start, r.End, e.Base())
}

func (e *Engine) check(t *styled.Text, op string, kind styled.Kind, r Range) bool {
	if t.InBounds(r.Start, r.End) {
		return true
	}
	log.Debug(log.CatFormat, op+" out of bounds", "kind", kind, "start", r.Start, "end", r.End, "len", t.Len())
	return false
}

// set applies a character format to a. Links must already be validated.
func (e *Engine) set(a *styled.Attributes, kind styled.Kind, v Value) {
	switch kind {
	case styled.Bold:
		a.Bold = true
		e.ResolveFont(a)
	case styled.Italic:
		a.Italic = true
		e.ResolveFont(a)
	case styled.Underline:
		a.Underline = true
	case styled.Strikethrough:
		a.Strikethrough = true
	case styled.Highlight:
		a.Highlight = e.Mark(v.Color)
	case styled.Link:
		a.Link = v.URL
	case styled.BulletList:
		a.BulletList = true
		a.Indent = styled.ParagraphIndent
	case styled.Blockquote:
		a.Blockquote = true
		a.Indent = styled.ParagraphIndent
	}
}

func (e *Engine) clear(a *styled.Attributes, kind styled.Kind) {
	switch kind {
	case styled.Bold:
		a.Bold = false
		e.ResolveFont(a)
	case styled.Italic:
		a.Italic = false
		e.ResolveFont(a)
	case styled.Underline:
		a.Underline = false
	case styled.Strikethrough:
		a.Strikethrough = false
	case styled.Highlight:
		a.Highlight = styled.Mark{}
	case styled.Link:
		a.Link = ""
	case styled.BulletList:
		a.BulletList = false
	case styled.Blockquote:
		a.Blockquote = false
	}
	if kind.IsParagraph() && !a.BulletList && !a.Blockquote {
		a.Indent = 0
	}
}

func (e *Engine) applyParagraph(t *styled.Text, kind styled.Kind, r Range) {
	for _, l := range t.LinesIn(r.Start, r.End) {
		if l.Empty() || lineCarries(t, l, kind) {
			continue
		}
		t.Update(l.Start, l.Full(), func(a *styled.Attributes) { e.set(a, kind, Value{}) })
	}
}

func (e *Engine) removeParagraph(t *styled.Text, kind styled.Kind, r Range) {
	for _, l := range t.LinesIn(r.Start, r.End) {
		if l.Empty() {
			continue
		}
		t.Update(l.Start, l.Full(), func(a *styled.Attributes) { e.clear(a, kind) })
	}
}

// lineCarries reports whether the line's first character, which may be its
// line break, carries kind.
func lineCarries(t *styled.Text, l styled.Line, kind styled.Kind) bool {
	if l.Empty() {
		return false
	}
	return t.At(l.Start).Has(kind)
}
