package format

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/marginalia/internal/styled"
)

func TestEditor_TypingAfterRunStartsPlain(t *testing.T) {
	e := New()
	txt := newText(e, "ab")
	e.Apply(txt, styled.Bold, Range{0, 2}, Value{})

	ed := NewEditor(e, txt)
	require.Equal(t, Cursor(2), ed.Selection())
	require.False(t, ed.TypingAttributes().Bold)

	ed.Insert("c")
	require.Equal(t, "abc", txt.String())
	require.False(t, txt.At(2).Bold)

	ed.Select(Cursor(1))
	require.True(t, ed.TypingAttributes().Bold)
	ed.Insert("x")
	require.True(t, txt.At(1).Bold)
}

func TestEditor_ToggleAtCursorChangesTypingOnly(t *testing.T) {
	e := New()
	ed := NewEditor(e, newText(e, "hi "))

	ed.Toggle(styled.Bold, Value{})
	require.True(t, ed.Contains(styled.Bold))
	require.Equal(t, "hi ", ed.Text().String())
	require.False(t, ed.Text().At(2).Bold)

	ed.Insert("you")
	for i := 3; i < 6; i++ {
		require.True(t, ed.Text().At(i).Bold)
	}

	ed.Toggle(styled.Bold, Value{})
	ed.Insert("!")
	require.False(t, ed.Text().At(6).Bold)
}

func TestEditor_SelectionToggle(t *testing.T) {
	e := New()
	ed := NewEditor(e, newText(e, "hello world"))
	ed.Select(Range{0, 5})

	ed.Toggle(styled.Underline, Value{})
	require.True(t, ed.Contains(styled.Underline))
	require.True(t, ed.Text().At(4).Underline)
	require.False(t, ed.Text().At(5).Underline)

	ed.Toggle(styled.Underline, Value{})
	require.False(t, ed.Text().At(0).Underline)
}

func TestEditor_ParagraphFollowsLine(t *testing.T) {
	e := New()
	ed := NewEditor(e, newText(e, "item"))
	ed.Apply(styled.BulletList, Value{})
	require.True(t, ed.TypingAttributes().BulletList)

	ed.Insert("\nnext")
	require.Equal(t, "item\nnext", ed.Text().String())
	require.True(t, e.Contains(ed.Text(), styled.BulletList, Range{0, ed.Text().Len()}))
}

func TestEditor_NewLineAfterBulletContinuesList(t *testing.T) {
	e := New()
	txt := newText(e, "item\n")
	e.Apply(txt, styled.BulletList, Range{0, 1}, Value{})

	ed := NewEditor(e, txt)
	require.True(t, ed.TypingAttributes().BulletList)
}

func TestEditor_DeleteBackward(t *testing.T) {
	e := New()
	ed := NewEditor(e, newText(e, "abc"))
	ed.DeleteBackward()
	require.Equal(t, "ab", ed.Text().String())
	require.Equal(t, Cursor(2), ed.Selection())

	ed.Select(Range{0, 2})
	ed.DeleteBackward()
	require.Equal(t, "", ed.Text().String())
	ed.DeleteBackward()
	require.Equal(t, Cursor(0), ed.Selection())
}

func TestEditor_SelectClamps(t *testing.T) {
	e := New()
	ed := NewEditor(e, newText(e, "abc"))
	ed.Select(Range{-4, 10})
	require.Equal(t, Range{0, 3}, ed.Selection())
	ed.Select(Range{2, 1})
	require.Equal(t, Cursor(2), ed.Selection())
}

func TestEditor_InvalidLinkAtCursorIgnored(t *testing.T) {
	e := New()
	ed := NewEditor(e, newText(e, ""))
	ed.Apply(styled.Link, Value{URL: "not a url"})
	require.False(t, ed.Contains(styled.Link))
	ed.Apply(styled.Link, Value{URL: "https://example.com"})
	require.True(t, ed.Contains(styled.Link))
}

func TestEditor_TypingResetIsIdempotent(t *testing.T) {
	e := New()
	rapid.Check(t, func(t *rapid.T) {
		txt := newText(e, rapid.StringMatching(`[ab\n]{0,10}`).Draw(t, "text"))
		n := txt.Len()
		for i := 0; i < 3; i++ {
			s := rapid.IntRange(0, n).Draw(t, "s")
			end := rapid.IntRange(s, n).Draw(t, "e")
			kind := rapid.SampledFrom(styled.Kinds).Draw(t, "kind")
			e.Apply(txt, kind, Range{s, end}, Value{URL: "https://example.com"})
		}

		ed := NewEditor(e, txt)
		pos := rapid.IntRange(0, n).Draw(t, "pos")
		ed.Select(Cursor(pos))
		first := ed.TypingAttributes()
		ed.Select(Cursor(pos))
		if ed.TypingAttributes() != first {
			t.Fatalf("typing attributes changed on reselect at %d", pos)
		}
		for _, k := range styled.Kinds {
			if k.IsParagraph() {
				continue
			}
			if first.Has(k) != e.Contains(txt, k, Cursor(pos)) {
				t.Fatalf("typing %s = %v at %d disagrees with Contains", k, first.Has(k), pos)
			}
		}
	})
}
