package format

import (
	"github.com/zjrosen/marginalia/internal/styled"
)

// Editor is a single editing session over one text: the text, the current
// selection and the attributes newly typed characters receive.
type Editor struct {
	engine *Engine
	text   *styled.Text
	sel    Range
	typing styled.Attributes
}

// NewEditor starts a session with the cursor at the end of t.
func NewEditor(engine *Engine, t *styled.Text) *Editor {
	if t == nil {
		t = &styled.Text{}
	}
	ed := &Editor{engine: engine, text: t}
	ed.Select(Cursor(t.Len()))
	return ed
}

// Text returns the text being edited.
func (ed *Editor) Text() *styled.Text { return ed.text }

// Selection returns the current selection.
func (ed *Editor) Selection() Range { return ed.sel }

// TypingAttributes returns the attributes the next inserted text receives.
func (ed *Editor) TypingAttributes() styled.Attributes { return ed.typing }

// Select moves the selection, clamped to the text, and recomputes the typing
// attributes. A character format survives at a cursor only when it spans the
// cursor, so typing right after a formatted run starts plain.
func (ed *Editor) Select(r Range) {
	n := ed.text.Len()
	r.Start = max(0, min(r.Start, n))
	r.End = max(r.Start, min(r.End, n))
	ed.sel = r
	ed.resetTyping()
}

func (ed *Editor) resetTyping() {
	attrs := ed.engine.Base()

	if ed.sel.Collapsed() {
		p := ed.sel.Start
		for _, k := range styled.Kinds {
			if k.IsParagraph() || !ed.engine.Contains(ed.text, k, ed.sel) {
				continue
			}
			copyKind(&attrs, ed.text.At(p-1), k)
		}
	} else {
		attrs = ed.text.At(ed.sel.Start).Character()
		attrs.Font = ed.engine.Base().Font
	}

	line := ed.text.LineAt(ed.sel.Start)
	var para styled.Attributes
	switch {
	case !line.Empty():
		para = ed.text.At(line.Start).Paragraph()
	case line.Start > 0:
		para = ed.text.At(line.Start - 1).Paragraph()
	}
	attrs.BulletList = para.BulletList
	attrs.Blockquote = para.Blockquote
	attrs.Indent = para.Indent

	ed.engine.ResolveFont(&attrs)
	ed.typing = attrs
}

// Insert replaces the selection with s and leaves the cursor after it.
// Typing attributes carry over so consecutive inserts share them.
func (ed *Editor) Insert(s string) {
	if !ed.sel.Collapsed() {
		ed.text.Delete(ed.sel.Start, ed.sel.End)
	}
	before := ed.text.Len()
	ed.text.Insert(ed.sel.Start, s, ed.typing)
	pos := ed.sel.Start + (ed.text.Len() - before)
	ed.sel = Cursor(pos)
	if s == "" {
		ed.resetTyping()
	}
}

// DeleteBackward removes the selection, or the character before the cursor.
func (ed *Editor) DeleteBackward() {
	r := ed.sel
	if r.Collapsed() {
		if r.Start == 0 {
			return
		}
		r.Start--
	}
	ed.text.Delete(r.Start, r.End)
	ed.Select(Cursor(r.Start))
}

// Apply adds kind to the selection. With a collapsed selection, character
// formats only change the typing attributes.
func (ed *Editor) Apply(kind styled.Kind, v Value) {
	if ed.sel.Collapsed() && !kind.IsParagraph() {
		if kind == styled.Link && !ValidLink(v.URL) {
			return
		}
		ed.engine.set(&ed.typing, kind, v)
		return
	}
	ed.engine.Apply(ed.text, kind, ed.sel, v)
	ed.resetTyping()
}

// Remove clears kind from the selection.
func (ed *Editor) Remove(kind styled.Kind) {
	if ed.sel.Collapsed() && !kind.IsParagraph() {
		ed.engine.clear(&ed.typing, kind)
		return
	}
	ed.engine.Remove(ed.text, kind, ed.sel)
	ed.resetTyping()
}

// Toggle flips kind on the selection.
func (ed *Editor) Toggle(kind styled.Kind, v Value) {
	if ed.Contains(kind) {
		ed.Remove(kind)
		return
	}
	ed.Apply(kind, v)
}

// Contains reports whether the selection carries kind. For a collapsed
// selection and a character format this is the typing state.
func (ed *Editor) Contains(kind styled.Kind) bool {
	if ed.sel.Collapsed() && !kind.IsParagraph() {
		return ed.typing.Has(kind)
	}
	return ed.engine.Contains(ed.text, kind, ed.sel)
}

func copyKind(dst *styled.Attributes, src styled.Attributes, k styled.Kind) {
	switch k {
	case styled.Bold:
		dst.Bold = src.Bold
	case styled.Italic:
		dst.Italic = src.Italic
	case styled.Underline:
		dst.Underline = src.Underline
	case styled.Strikethrough:
		dst.Strikethrough = src.Strikethrough
	case styled.Highlight:
		dst.Highlight = src.Highlight
	case styled.Link:
		dst.Link = src.Link
	}
}
