package notehtml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/zjrosen/marginalia/internal/format"
	"github.com/zjrosen/marginalia/internal/highlight"
	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/styled"
)

type tag int

const (
	tagUnknown tag = iota
	tagBold
	tagItalic
	tagUnderline
	tagStrike
	tagMark
	tagLink
	tagList
	tagItem
	tagQuote
)

var tagNames = map[string]tag{
	"b":          tagBold,
	"strong":     tagBold,
	"i":          tagItalic,
	"em":         tagItalic,
	"u":          tagUnderline,
	"del":        tagStrike,
	"s":          tagStrike,
	"strike":     tagStrike,
	"mark":       tagMark,
	"a":          tagLink,
	"ul":         tagList,
	"li":         tagItem,
	"blockquote": tagQuote,
}

func lookupTag(name xml.Name) tag {
	return tagNames[strings.ToLower(name.Local)]
}

func (t tag) block() bool { return t == tagItem || t == tagQuote }

const zwjPrefix = "&zwj;"

var breaks = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

// tagContext is one open element: its tag, the attributes text inside it
// receives and the buffer offset it opened at.
type tagContext struct {
	tag   tag
	attrs styled.Attributes
	start int
}

type parser struct {
	codec   *Codec
	out     *styled.Text
	stack   []tagContext
	pending strings.Builder
	// blockEnd is the buffer length right after the last line break a
	// closing block element produced, or -1.
	blockEnd int
}

// Parse converts note HTML into styled text.
func (c *Codec) Parse(html string) *styled.Text {
	src := strings.TrimPrefix(html, zwjPrefix)
	src = breaks.Replace(src)
	src = "<root>" + src + "</root>"
	src = strings.ReplaceAll(src, "&nbsp;", "\u00a0")

	d := xml.NewDecoder(strings.NewReader(src))
	d.Strict = true
	d.Entity = xml.HTMLEntity

	p := &parser{
		codec:    c,
		out:      &styled.Text{},
		stack:    []tagContext{{attrs: c.engine.Base()}},
		blockEnd: -1,
	}
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Debug(log.CatParse, "malformed note html", "len", len(html), "error", err)
			return &styled.Text{}
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			p.open(tok)
		case xml.EndElement:
			p.close()
		case xml.CharData:
			p.pending.Write(tok)
		}
	}
	p.flush()
	return p.out
}

// layoutSpace is the whitespace that only formats the HTML source. U+00A0
// from &nbsp; is content.
const layoutSpace = " \t\r\n"

func (p *parser) top() tagContext { return p.stack[len(p.stack)-1] }

// flush moves pending text into the buffer under the innermost attributes.
// Whitespace sitting directly inside a <ul> is layout, not content.
func (p *parser) flush() {
	if p.pending.Len() == 0 {
		return
	}
	s := p.pending.String()
	p.pending.Reset()
	top := p.top()
	if top.tag == tagList && strings.Trim(s, layoutSpace) == "" {
		return
	}
	p.out.Append(s, top.attrs)
}

func (p *parser) endsWithBreak() bool {
	n := p.out.Len()
	return n > 0 && p.out.RuneAt(n-1) == '\n'
}

func (p *parser) open(el xml.StartElement) {
	p.flush()
	parent := p.top()
	t := lookupTag(el.Name)

	if t.block() && p.out.Len() > 0 && !p.endsWithBreak() {
		p.out.Append("\n", parent.attrs)
	}

	attrs := parent.attrs
	engine := p.codec.engine
	switch t {
	case tagBold:
		attrs.Bold = true
		engine.ResolveFont(&attrs)
	case tagItalic:
		attrs.Italic = true
		engine.ResolveFont(&attrs)
	case tagUnderline:
		attrs.Underline = true
	case tagStrike:
		attrs.Strikethrough = true
	case tagMark:
		attrs.Highlight = engine.Mark(markColor(el))
	case tagLink:
		href := attr(el, "href")
		if format.ValidLink(href) {
			attrs.Link = href
		} else {
			log.Debug(log.CatParse, "dropping invalid link", "href", href)
		}
	case tagItem:
		attrs.BulletList = true
		attrs.Indent = styled.ParagraphIndent
	case tagQuote:
		attrs.Blockquote = true
		attrs.Indent = styled.ParagraphIndent
	}

	p.stack = append(p.stack, tagContext{tag: t, attrs: attrs, start: p.out.Len()})
}

func (p *parser) close() {
	p.flush()
	if len(p.stack) == 1 {
		return
	}
	ctx := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	if !ctx.tag.block() {
		return
	}

	n := p.out.Len()
	if n != p.blockEnd || n == ctx.start {
		p.out.Append("\n", ctx.attrs)
	}
	p.blockEnd = p.out.Len()
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

// markColor reads background-color out of a mark's inline style.
func markColor(el xml.StartElement) highlight.ARGB {
	for _, decl := range strings.Split(attr(el, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "background-color") {
			continue
		}
		if c, ok := highlight.ParseCSSValue(value); ok {
			return c
		}
		log.Debug(log.CatParse, "unusable highlight color", "value", value)
		break
	}
	return highlight.DefaultHighlight
}
