package export

import (
	"strings"

	"github.com/zjrosen/marginalia/internal/styled"
)

// Text converts t to plain text. Bullets and quotes keep a line marker; all
// character formats are dropped.
func Text(t *styled.Text) string {
	if t == nil || t.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range t.Lines() {
		if l.Start < l.End {
			switch blockOf(t.At(l.Start)) {
			case blockBullet:
				b.WriteString("• ")
			case blockQuote:
				b.WriteString("> ")
			case blockBoth:
				b.WriteString("• > ")
			}
			b.WriteString(t.Slice(l.Start, l.End).String())
		}
		if l.Newline {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
