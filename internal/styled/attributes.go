package styled

import (
	"strings"

	"github.com/zjrosen/marginalia/internal/fonts"
	"github.com/zjrosen/marginalia/internal/highlight"
)

// ParagraphIndent is the head indent, in points, given to bullet and quote lines.
const ParagraphIndent = 24.0

// Kind identifies one of the supported formats.
type Kind int

const (
	Bold Kind = iota
	Italic
	Underline
	Strikethrough
	Highlight
	Link
	BulletList
	Blockquote
)

// Kinds lists every format in tag-open order.
var Kinds = []Kind{Bold, Italic, Underline, Strikethrough, Highlight, Link, BulletList, Blockquote}

var kindNames = map[Kind]string{
	Bold:          "bold",
	Italic:        "italic",
	Underline:     "underline",
	Strikethrough: "strikethrough",
	Highlight:     "highlight",
	Link:          "link",
	BulletList:    "bulletList",
	Blockquote:    "blockquote",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// IsParagraph reports whether k applies to whole lines.
func (k Kind) IsParagraph() bool {
	return k == BulletList || k == Blockquote
}

// ParseKind looks a kind up by name, ignoring case. "bullet" and "quote"
// are accepted as short forms.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "bullet":
		return BulletList, true
	case "quote":
		return Blockquote, true
	}
	for k, n := range kindNames {
		if strings.ToLower(n) == s {
			return k, true
		}
	}
	return 0, false
}

// Mark is a highlight. Display is the color shown in the current mode;
// Light is the light-mode value as it arrived on the wire, zero when it was
// not retained. The zero Mark means no highlight.
type Mark struct {
	Display highlight.ARGB
	Light   highlight.ARGB
}

// IsZero reports whether the mark is absent.
func (m Mark) IsZero() bool { return m.Display == 0 }

// Stored returns the light-mode color to persist.
func (m Mark) Stored() highlight.ARGB {
	if m.Light != 0 {
		return m.Light
	}
	return highlight.LightColor(m.Display)
}

// Attributes is the full attribute set of a character. It is comparable so
// that runs can be coalesced with ==.
type Attributes struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Highlight     Mark
	Link          string

	BulletList bool
	Blockquote bool
	Indent     float64

	// ObliqueItalicFallback is set when Italic is rendered through Font.Skew.
	ObliqueItalicFallback bool
	Font                  fonts.Face
}

// Has reports whether the attribute for k is present.
func (a Attributes) Has(k Kind) bool {
	switch k {
	case Bold:
		return a.Bold
	case Italic:
		return a.Italic
	case Underline:
		return a.Underline
	case Strikethrough:
		return a.Strikethrough
	case Highlight:
		return !a.Highlight.IsZero()
	case Link:
		return a.Link != ""
	case BulletList:
		return a.BulletList
	case Blockquote:
		return a.Blockquote
	}
	return false
}

// Character returns the wire-visible character formats only. Two characters
// with equal Character() values serialize identically.
func (a Attributes) Character() Attributes {
	return Attributes{
		Bold:          a.Bold,
		Italic:        a.Italic,
		Underline:     a.Underline,
		Strikethrough: a.Strikethrough,
		Highlight:     a.Highlight,
		Link:          a.Link,
	}
}

// Paragraph returns the line-level part of a.
func (a Attributes) Paragraph() Attributes {
	return Attributes{BulletList: a.BulletList, Blockquote: a.Blockquote, Indent: a.Indent}
}
