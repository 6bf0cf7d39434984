package cmd

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// tokenize splits note HTML into tags, entities, words and whitespace runs.
func tokenize(s string) []string {
	var tokens []string
	for len(s) > 0 {
		n := tokenLen(s)
		tokens = append(tokens, s[:n])
		s = s[n:]
	}
	return tokens
}

func tokenLen(s string) int {
	switch s[0] {
	case '<':
		if i := strings.IndexByte(s, '>'); i >= 0 {
			return i + 1
		}
		return len(s)
	case '&':
		if i := strings.IndexByte(s, ';'); i > 0 && !strings.ContainsAny(s[1:i], " <&") {
			return i + 1
		}
		return 1
	}
	space := s[0] == ' ' || s[0] == '\n' || s[0] == '\t'
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '<' || c == '&' || (c == ' ' || c == '\n' || c == '\t') != space {
			return i
		}
	}
	return len(s)
}

// tokenDiff diffs a and b token by token. Each distinct token is mapped to
// one rune so the character differ works on whole tokens.
func tokenDiff(a, b string) []diffmatchpatch.Diff {
	index := make(map[string]rune)
	var table []string
	encode := func(s string) []rune {
		toks := tokenize(s)
		out := make([]rune, len(toks))
		for i, t := range toks {
			r, ok := index[t]
			if !ok {
				r = rune(len(table))
				index[t] = r
				table = append(table, t)
			}
			out[i] = r
		}
		return out
	}
	ra, rb := encode(a), encode(b)

	dmp := diffmatchpatch.New()
	if len(table) >= 0xD800 {
		// Too many distinct tokens to map below the surrogate range.
		return dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))
	}
	diffs := dmp.DiffMainRunes(ra, rb, false)
	for i := range diffs {
		var sb strings.Builder
		for _, r := range diffs[i].Text {
			sb.WriteString(table[r])
		}
		diffs[i].Text = sb.String()
	}
	return diffs
}

// wordDiff renders the changes from a to b inline, [-removed-]{+added+}.
func wordDiff(a, b string) string {
	var sb strings.Builder
	for _, d := range tokenDiff(a, b) {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		}
	}
	return sb.String()
}
