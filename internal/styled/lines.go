package styled

// Line is one logical line. [Start, End) excludes the line break; Newline
// reports whether a '\n' follows at End.
type Line struct {
	Start   int
	End     int
	Newline bool
}

// Full returns the end offset including the line break.
func (l Line) Full() int {
	if l.Newline {
		return l.End + 1
	}
	return l.End
}

// Empty reports whether the line has no characters at all, not even a break.
func (l Line) Empty() bool { return l.Full() == l.Start }

// Lines splits the text on '\n'. A text with n breaks has n+1 lines, the last
// of which may be empty.
func (t *Text) Lines() []Line {
	lines := make([]Line, 0, 8)
	start := 0
	for i, r := range t.runes {
		if r == '\n' {
			lines = append(lines, Line{Start: start, End: i, Newline: true})
			start = i + 1
		}
	}
	return append(lines, Line{Start: start, End: len(t.runes)})
}

// LineAt returns the line containing pos. A position directly after a break
// belongs to the following line.
func (t *Text) LineAt(pos int) Line {
	pos = max(0, min(pos, len(t.runes)))
	start := pos
	for start > 0 && t.runes[start-1] != '\n' {
		start--
	}
	end := pos
	for end < len(t.runes) && t.runes[end] != '\n' {
		end++
	}
	return Line{Start: start, End: end, Newline: end < len(t.runes)}
}

// LinesIn returns the lines intersecting [start, end). An empty range selects
// the line containing start.
func (t *Text) LinesIn(start, end int) []Line {
	if start == end {
		return []Line{t.LineAt(start)}
	}
	var out []Line
	for l := t.LineAt(start); l.Start < end; l = t.LineAt(l.Full()) {
		if start < l.Full() {
			out = append(out, l)
		}
		if !l.Newline {
			break
		}
	}
	return out
}
