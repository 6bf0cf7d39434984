// Package notehtml converts between the HTML dialect written by the Android
// client and styled.Text.
//
// The dialect is small: b/strong, i/em, u, del/s/strike, mark with a
// background-color style, a with href, ul/li, blockquote and br. Parsing
// never fails loudly. Input the XML tokenizer rejects yields an empty text,
// and unusable colors or links fall back to defaults. Serialize(Parse(h)) may
// differ from h, but a second round trip is always a fixed point.
package notehtml

import (
	"fmt"
	"strings"

	"github.com/zjrosen/marginalia/internal/format"
	"github.com/zjrosen/marginalia/internal/styled"
)

// Nesting decides how a line that is both a bullet and a quote is written.
// The styled form cannot tell which element was outermost originally.
type Nesting int

const (
	// BulletThenQuote writes <ul><li><blockquote>…</blockquote></li></ul>.
	BulletThenQuote Nesting = iota
	// QuoteThenBullet writes <blockquote><ul><li>…</li></ul></blockquote>.
	QuoteThenBullet
)

func (n Nesting) String() string {
	switch n {
	case BulletThenQuote:
		return "bullet_then_quote"
	case QuoteThenBullet:
		return "quote_then_bullet"
	default:
		return "unknown"
	}
}

// ParseNesting parses a Nesting name as used in configuration.
func ParseNesting(s string) (Nesting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bullet_then_quote":
		return BulletThenQuote, nil
	case "quote_then_bullet":
		return QuoteThenBullet, nil
	default:
		return 0, fmt.Errorf("nesting must be bullet_then_quote or quote_then_bullet, got %q", s)
	}
}

// Codec parses and serializes note HTML.
type Codec struct {
	engine  *format.Engine
	nesting Nesting
}

// Option configures a Codec.
type Option func(*Codec)

// WithNesting selects the combined bullet/quote nesting.
func WithNesting(n Nesting) Option {
	return func(c *Codec) { c.nesting = n }
}

// New creates a codec. A nil engine means format.New().
func New(engine *format.Engine, opts ...Option) *Codec {
	if engine == nil {
		engine = format.New()
	}
	c := &Codec{engine: engine}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the format engine the codec resolves styles with.
func (c *Codec) Engine() *format.Engine { return c.engine }

// Nesting returns the configured combined nesting.
func (c *Codec) Nesting() Nesting { return c.nesting }

// Normalize round-trips html through the codec.
func (c *Codec) Normalize(html string) string {
	return c.Serialize(c.Parse(html))
}

var defaultCodec = New(nil)

// Parse parses html with the default codec.
func Parse(html string) *styled.Text { return defaultCodec.Parse(html) }

// Serialize serializes t with the default codec.
func Serialize(t *styled.Text) string { return defaultCodec.Serialize(t) }

// Normalize round-trips html through the default codec.
func Normalize(html string) string { return defaultCodec.Normalize(html) }
