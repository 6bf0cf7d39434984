// Package export converts styled notes into Markdown and plain text, and
// renders the Markdown for a terminal.
package export

import (
	"strings"

	"github.com/zjrosen/marginalia/internal/styled"
)

type block int

const (
	blockBreak block = iota - 1
	blockPlain
	blockBullet
	blockQuote
	blockBoth
)

func blockOf(a styled.Attributes) block {
	switch {
	case a.BulletList && a.Blockquote:
		return blockBoth
	case a.BulletList:
		return blockBullet
	case a.Blockquote:
		return blockQuote
	default:
		return blockPlain
	}
}

type group struct {
	kind  block
	lines []string
}

// Markdown converts t to CommonMark with the ==highlight== and ~~strike~~
// extensions. Underline has no Markdown form and is dropped. Blank lines
// separate paragraphs; consecutive plain or quoted lines are joined with
// hard breaks.
func Markdown(t *styled.Text) string {
	if t == nil || t.Len() == 0 {
		return ""
	}
	var groups []group
	for _, l := range t.Lines() {
		if l.Start == l.End {
			// A blank line closes the current block.
			if n := len(groups); n > 0 && groups[n-1].kind != blockBreak {
				groups = append(groups, group{kind: blockBreak})
			}
			continue
		}
		kind := blockOf(t.At(l.Start))
		body := escapeLineStart(inline(t, l))
		if n := len(groups); n > 0 && groups[n-1].kind == kind {
			groups[n-1].lines = append(groups[n-1].lines, body)
			continue
		}
		groups = append(groups, group{kind: kind, lines: []string{body}})
	}

	var parts []string
	for _, g := range groups {
		if g.kind != blockBreak {
			parts = append(parts, g.render())
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func (g group) render() string {
	var b strings.Builder
	for i, l := range g.lines {
		if i > 0 {
			switch g.kind {
			case blockPlain, blockQuote:
				b.WriteString("  \n")
			default:
				b.WriteByte('\n')
			}
		}
		switch g.kind {
		case blockBullet:
			b.WriteString("- ")
		case blockQuote:
			b.WriteString("> ")
		case blockBoth:
			b.WriteString("- > ")
		}
		b.WriteString(l)
	}
	return b.String()
}

// marker is one inline Markdown construct in nesting order.
type marker struct {
	open  string
	close string
}

func markers(a styled.Attributes) []marker {
	var ms []marker
	if a.Link != "" {
		ms = append(ms, marker{open: "[", close: "](" + escapeURL(a.Link) + ")"})
	}
	if a.Bold {
		ms = append(ms, marker{open: "**", close: "**"})
	}
	if a.Italic {
		ms = append(ms, marker{open: "*", close: "*"})
	}
	if a.Strikethrough {
		ms = append(ms, marker{open: "~~", close: "~~"})
	}
	if !a.Highlight.IsZero() {
		ms = append(ms, marker{open: "==", close: "=="})
	}
	return ms
}

type inlineWriter struct {
	b       strings.Builder
	open    []marker
	pending string
}

// inline writes the characters of one line. Spaces at the edge of a styled
// segment are moved outside its delimiters so they still flank.
func inline(t *styled.Text, l styled.Line) string {
	w := &inlineWriter{}
	for run := range t.RunsIn(l.Start, l.End) {
		text := escapeText(t.Substring(run.Start, run.End))
		trimmed := strings.TrimLeft(text, " ")
		core := strings.TrimRight(trimmed, " ")
		if core == "" {
			w.pending += text
			continue
		}
		lead := text[:len(text)-len(trimmed)]
		w.pending += lead
		w.transition(markers(run.Attrs))
		w.b.WriteString(core)
		w.pending = text[len(lead)+len(core):]
	}
	w.transition(nil)
	w.b.WriteString(w.pending)
	return w.b.String()
}

func (w *inlineWriter) transition(want []marker) {
	keep := 0
	for keep < len(w.open) && keep < len(want) && w.open[keep] == want[keep] {
		keep++
	}
	for i := len(w.open) - 1; i >= keep; i-- {
		w.b.WriteString(w.open[i].close)
	}
	w.open = w.open[:keep]
	w.b.WriteString(w.pending)
	w.pending = ""
	for _, m := range want[keep:] {
		w.b.WriteString(m.open)
		w.open = append(w.open, m)
	}
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"=", `\=`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
	"<", `\<`,
	" ", " ",
)

func escapeText(s string) string { return textEscaper.Replace(s) }

var urlEscaper = strings.NewReplacer("(", "%28", ")", "%29", " ", "%20")

func escapeURL(s string) string { return urlEscaper.Replace(s) }

// escapeLineStart keeps a leading character from starting a block construct.
func escapeLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '-', '+':
		return `\` + s
	}
	return s
}
