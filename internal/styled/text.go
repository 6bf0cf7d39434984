// Package styled implements the styled-text value shared by the HTML codec
// and the format engine.
//
// A Text is a rune buffer plus a list of attribute runs. Runs are kept
// normalized at all times: they cover the whole buffer, never overlap, are
// never empty, and adjacent runs always differ. Offsets count Unicode
// scalars, not bytes.
//
// A Text is not safe for concurrent use. Hand a Clone to another goroutine
// instead of sharing one.
package styled

import (
	"iter"
	"slices"
	"strings"
)

// Run is a half-open range of characters sharing one attribute set.
type Run struct {
	Start int
	End   int
	Attrs Attributes
}

// Len returns the number of characters covered by the run.
func (r Run) Len() int { return r.End - r.Start }

// Text is a mutable styled string.
type Text struct {
	runes []rune
	runs  []Run
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// New returns a text holding s with attrs applied throughout. Carriage
// returns are folded into single newlines.
func New(s string, attrs Attributes) *Text {
	t := &Text{}
	t.Append(s, attrs)
	return t
}

// String returns the plain text.
func (t *Text) String() string { return string(t.runes) }

// Len returns the number of characters.
func (t *Text) Len() int { return len(t.runes) }

// RuneAt returns the character at i.
func (t *Text) RuneAt(i int) rune { return t.runes[i] }

// Runs returns a copy of the attribute runs.
func (t *Text) Runs() []Run { return slices.Clone(t.runs) }

// NumRuns returns the number of attribute runs.
func (t *Text) NumRuns() int { return len(t.runs) }

// At returns the attributes of the character at i. Out-of-range offsets
// yield zero attributes.
func (t *Text) At(i int) Attributes {
	if i < 0 || i >= len(t.runes) {
		return Attributes{}
	}
	return t.runs[t.runIndex(i)].Attrs
}

// runIndex returns the index of the first run ending after pos.
func (t *Text) runIndex(pos int) int {
	idx, _ := slices.BinarySearchFunc(t.runs, pos, func(r Run, pos int) int {
		switch {
		case r.End <= pos:
			return -1
		case r.Start > pos:
			return 1
		default:
			return 0
		}
	})
	return idx
}

// RunsIn yields the runs intersecting [start, end), clipped to the range.
// The runs are visited in place; the cost is O(log runs) plus the runs
// yielded.
func (t *Text) RunsIn(start, end int) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		if !t.InBounds(start, end) || start == end {
			return
		}
		for i := t.runIndex(start); i < len(t.runs) && t.runs[i].Start < end; i++ {
			r := t.runs[i]
			r.Start, r.End = max(r.Start, start), min(r.End, end)
			if !yield(r) {
				return
			}
		}
	}
}

// Substring returns the plain text of [start, end). An invalid range yields
// "".
func (t *Text) Substring(start, end int) string {
	if !t.InBounds(start, end) {
		return ""
	}
	return string(t.runes[start:end])
}

// InBounds reports whether [start, end) is a valid range of t.
func (t *Text) InBounds(start, end int) bool {
	return start >= 0 && start <= end && end <= len(t.runes)
}

// Clone returns an independent copy.
func (t *Text) Clone() *Text {
	return &Text{runes: slices.Clone(t.runes), runs: slices.Clone(t.runs)}
}

// Equal reports whether both texts hold the same characters and attributes.
func (t *Text) Equal(o *Text) bool {
	return slices.Equal(t.runes, o.runes) && slices.Equal(t.runs, o.runs)
}

// Slice returns a copy of [start, end). An invalid range yields an empty text.
func (t *Text) Slice(start, end int) *Text {
	out := &Text{}
	if !t.InBounds(start, end) || start == end {
		return out
	}
	out.runes = slices.Clone(t.runes[start:end])
	for r := range t.RunsIn(start, end) {
		out.runs = append(out.runs, Run{Start: r.Start - start, End: r.End - start, Attrs: r.Attrs})
	}
	return out
}

// Update calls fn on the attributes of every run within [start, end),
// splitting runs at the range edges first.
func (t *Text) Update(start, end int, fn func(*Attributes)) {
	if !t.InBounds(start, end) || start == end {
		return
	}
	t.splitAt(start)
	t.splitAt(end)
	for i := t.runIndex(start); i < len(t.runs) && t.runs[i].Start < end; i++ {
		fn(&t.runs[i].Attrs)
	}
	t.coalesce()
}

// Set replaces the attributes of [start, end).
func (t *Text) Set(start, end int, attrs Attributes) {
	t.Update(start, end, func(a *Attributes) { *a = attrs })
}

// Append adds s to the end of the text. It extends the last run when attrs
// match it, so building a text left to right costs time linear in its size.
func (t *Text) Append(s string, attrs Attributes) {
	start := len(t.runes)
	for _, r := range newlines.Replace(s) {
		t.runes = append(t.runes, r)
	}
	end := len(t.runes)
	if end == start {
		return
	}
	if n := len(t.runs); n > 0 && t.runs[n-1].Attrs == attrs {
		t.runs[n-1].End = end
		return
	}
	t.runs = append(t.runs, Run{Start: start, End: end, Attrs: attrs})
}

// AppendText adds a copy of o to the end of the text.
func (t *Text) AppendText(o *Text) {
	n := len(t.runes)
	t.runes = append(t.runes, o.runes...)
	for _, r := range o.runs {
		if k := len(t.runs); k > 0 && t.runs[k-1].End == r.Start+n && t.runs[k-1].Attrs == r.Attrs {
			t.runs[k-1].End = r.End + n
			continue
		}
		t.runs = append(t.runs, Run{Start: r.Start + n, End: r.End + n, Attrs: r.Attrs})
	}
}

// Insert places s at pos with the given attributes.
func (t *Text) Insert(pos int, s string, attrs Attributes) {
	if pos < 0 || pos > len(t.runes) {
		return
	}
	rs := []rune(newlines.Replace(s))
	n := len(rs)
	if n == 0 {
		return
	}
	if pos == len(t.runes) {
		t.Append(string(rs), attrs)
		return
	}

	t.splitAt(pos)
	t.runes = slices.Insert(t.runes, pos, rs...)

	idx := len(t.runs)
	for i := range t.runs {
		if t.runs[i].Start >= pos {
			if idx == len(t.runs) {
				idx = i
			}
			t.runs[i].Start += n
			t.runs[i].End += n
		}
	}
	t.runs = slices.Insert(t.runs, idx, Run{Start: pos, End: pos + n, Attrs: attrs})
	t.coalesce()
}

// Delete removes [start, end).
func (t *Text) Delete(start, end int) {
	if !t.InBounds(start, end) || start == end {
		return
	}
	t.splitAt(start)
	t.splitAt(end)
	n := end - start

	out := t.runs[:0]
	for _, r := range t.runs {
		switch {
		case r.End <= start:
			out = append(out, r)
		case r.Start >= end:
			r.Start -= n
			r.End -= n
			out = append(out, r)
		}
	}
	t.runs = out
	t.runes = slices.Delete(t.runes, start, end)
	t.coalesce()
}

// Replace swaps [start, end) for s carrying attrs.
func (t *Text) Replace(start, end int, s string, attrs Attributes) {
	if !t.InBounds(start, end) {
		return
	}
	t.Delete(start, end)
	t.Insert(start, s, attrs)
}

// splitAt makes pos a run boundary.
func (t *Text) splitAt(pos int) {
	if pos <= 0 || pos >= len(t.runes) {
		return
	}
	i := t.runIndex(pos)
	if r := t.runs[i]; r.Start < pos {
		t.runs = slices.Insert(t.runs, i+1, Run{Start: pos, End: r.End, Attrs: r.Attrs})
		t.runs[i].End = pos
	}
}

func (t *Text) coalesce() {
	out := t.runs[:0]
	for _, r := range t.runs {
		if r.Start >= r.End {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == r.Start && out[n-1].Attrs == r.Attrs {
			out[n-1].End = r.End
			continue
		}
		out = append(out, r)
	}
	t.runs = out
}
