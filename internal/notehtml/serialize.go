package notehtml

import (
	"slices"
	"strconv"
	"strings"

	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/styled"
)

type lineMode int

const (
	modePlain lineMode = iota
	modeBullet
	modeQuote
	modeBoth
)

func modeOf(t *styled.Text, l styled.Line) lineMode {
	if l.Empty() {
		return modePlain
	}
	a := t.At(l.Start)
	switch {
	case a.BulletList && a.Blockquote:
		return modeBoth
	case a.BulletList:
		return modeBullet
	case a.Blockquote:
		return modeQuote
	default:
		return modePlain
	}
}

// Serialize converts styled text into note HTML. An empty text yields "".
func (c *Codec) Serialize(t *styled.Text) string {
	if t == nil || t.Len() == 0 {
		return ""
	}

	w := &writer{text: t, runs: t.Runs()}
	lines := t.Lines()
	for i := 0; i < len(lines); {
		mode := modeOf(t, lines[i])
		if mode == modePlain {
			w.content(lines[i])
			if lines[i].Newline {
				w.b.WriteString("<br>")
			}
			i++
			continue
		}

		j := i + 1
		for j < len(lines) && modeOf(t, lines[j]) == mode {
			j++
		}
		c.group(w, mode, lines[i:j])
		if lines[j-1].Newline {
			w.b.WriteString("<br>")
		}
		i = j
	}

	out := tidy(w.b.String())
	log.Debug(log.CatSerialize, "serialized note", "chars", t.Len(), "lines", len(lines), "bytes", len(out))
	return out
}

func (c *Codec) group(w *writer, mode lineMode, lines []styled.Line) {
	switch {
	case mode == modeBullet:
		w.b.WriteString("<ul>")
		for _, l := range lines {
			w.b.WriteString("<li>")
			w.content(l)
			w.b.WriteString("</li>")
		}
		w.b.WriteString("</ul>")
	case mode == modeQuote:
		w.b.WriteString("<blockquote>")
		for i, l := range lines {
			if i > 0 {
				w.b.WriteString("<br>")
			}
			w.content(l)
		}
		w.b.WriteString("</blockquote>")
	case c.nesting == QuoteThenBullet:
		w.b.WriteString("<blockquote><ul>")
		for _, l := range lines {
			w.b.WriteString("<li>")
			w.content(l)
			w.b.WriteString("</li>")
		}
		w.b.WriteString("</ul></blockquote>")
	default:
		w.b.WriteString("<ul>")
		for _, l := range lines {
			w.b.WriteString("<li><blockquote>")
			w.content(l)
			w.b.WriteString("</blockquote></li>")
		}
		w.b.WriteString("</ul>")
	}
}

var tidier = strings.NewReplacer("</ul><br>", "</ul>", "</blockquote><br>", "</blockquote>")

// tidy drops the <br> right after a block element; the block already ends
// the line.
func tidy(html string) string {
	return tidier.Replace(html)
}

// openTag is an inline element in open order: b, i, u, del, mark, a.
type openTag struct {
	name  string
	attrs string
}

func (o openTag) open() string {
	if o.attrs == "" {
		return "<" + o.name + ">"
	}
	return "<" + o.name + " " + o.attrs + ">"
}

func (o openTag) close() string { return "</" + o.name + ">" }

func inlineTags(a styled.Attributes) []openTag {
	tags := make([]openTag, 0, 6)
	if a.Bold {
		tags = append(tags, openTag{name: "b"})
	}
	if a.Italic {
		tags = append(tags, openTag{name: "i"})
	}
	if a.Underline {
		tags = append(tags, openTag{name: "u"})
	}
	if a.Strikethrough {
		tags = append(tags, openTag{name: "del"})
	}
	if !a.Highlight.IsZero() {
		n := a.Highlight.Stored().AndroidInt()
		tags = append(tags, openTag{name: "mark", attrs: `style="background-color:` + strconv.FormatInt(int64(n), 10) + `"`})
	}
	if a.Link != "" {
		tags = append(tags, openTag{name: "a", attrs: `href="` + escapeAttr(a.Link) + `"`})
	}
	return tags
}

type writer struct {
	text *styled.Text
	runs []styled.Run
	// next is the first run that may still reach the line being written.
	// Lines are written in order, so it only moves forward.
	next int
	b    strings.Builder
	open []openTag
}

// content writes the characters of one line. Runs that map to the same
// inline tags are written as one segment; everything is closed at the end of
// the line.
func (w *writer) content(l styled.Line) {
	segStart := -1
	var segTags []openTag
	for w.next < len(w.runs) && w.runs[w.next].End <= l.Start {
		w.next++
	}
	for i := w.next; i < len(w.runs) && w.runs[i].Start < l.End; i++ {
		run := w.runs[i]
		s, e := max(run.Start, l.Start), min(run.End, l.End)
		if s >= e {
			continue
		}
		tags := inlineTags(run.Attrs)
		if segStart >= 0 && slices.Equal(tags, segTags) {
			continue
		}
		if segStart >= 0 {
			w.transition(segTags)
			w.escapeText(segStart, s)
		}
		segStart, segTags = s, tags
	}
	if segStart >= 0 {
		w.transition(segTags)
		w.escapeText(segStart, l.End)
	}
	w.transition(nil)
}

// transition keeps the longest shared prefix of open tags and reopens the rest.
func (w *writer) transition(want []openTag) {
	keep := 0
	for keep < len(w.open) && keep < len(want) && w.open[keep] == want[keep] {
		keep++
	}
	for i := len(w.open) - 1; i >= keep; i-- {
		w.b.WriteString(w.open[i].close())
	}
	w.open = w.open[:keep]
	for _, t := range want[keep:] {
		w.b.WriteString(t.open())
		w.open = append(w.open, t)
	}
}

func (w *writer) escapeText(start, end int) {
	for i := start; i < end; i++ {
		r := w.text.RuneAt(i)
		if r == ' ' {
			j := i
			for j < end && w.text.RuneAt(j) == ' ' {
				j++
			}
			w.b.WriteString(strings.Repeat("&nbsp;", j-i-1))
			w.b.WriteByte(' ')
			i = j - 1
			continue
		}
		writeEscaped(&w.b, r)
	}
}

func writeEscaped(b *strings.Builder, r rune) {
	switch {
	case r == '<':
		b.WriteString("&lt;")
	case r == '>':
		b.WriteString("&gt;")
	case r == '&':
		b.WriteString("&amp;")
	case r == '\u00a0':
		b.WriteString("&nbsp;")
	case !xmlChar(r):
	case r < 0x20 || r > 0x7e:
		writeCharRef(b, r)
	default:
		b.WriteRune(r)
	}
}

func escapeAttr(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString("&quot;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case r == '&':
			b.WriteString("&amp;")
		case !xmlChar(r):
		case r < 0x20 || r > 0x7e:
			writeCharRef(&b, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeCharRef(b *strings.Builder, r rune) {
	b.WriteString("&#")
	b.WriteString(strconv.Itoa(int(r)))
	b.WriteByte(';')
}

// xmlChar reports whether r may appear in an XML 1.0 document.
func xmlChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
