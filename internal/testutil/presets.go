package testutil

// Wire HTML samples in the shapes the Android client produces.
const (
	HTMLInline     = `<b>Bold</b> and <i>italic</i> and <mark style="background-color:-399457">marked</mark>`
	HTMLList       = `<ul><li>First</li><li>Second</li></ul>`
	HTMLQuote      = `<blockquote>Quoted<br>twice</blockquote>`
	HTMLLink       = `<a href="https://example.com/a?b=1&amp;c=2">link</a>`
	HTMLSentinel   = `&zwj;<u>z</u>`
	HTMLMalformed  = `<b>unclosed`
	HTMLDenormal   = `<strong>x</strong><br/><s>y</s>`
	HTMLNormalized = `<b>x</b><br><del>y</del>`
)

// WithStandardNotes adds three notes across two books. "n-denormal" holds
// HTML that normalizes to something else; the others are fixed points.
func (b *Builder) WithStandardNotes() *Builder {
	return b.
		WithNote("n-inline", Book("Walden"), Content(HTMLInline), Idea(HTMLQuote)).
		WithNote("n-list", Book("Walden"), Content(HTMLList)).
		WithNote("n-denormal", Book("Dune"), Content(HTMLDenormal), Idea(HTMLSentinel))
}
