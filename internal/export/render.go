package export

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes document margins from the standard styles.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Styles accepted by NewRenderer.
var Styles = []string{"dark", "light", "notty", "ascii"}

// Renderer renders exported Markdown for a terminal.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewRenderer creates a Markdown renderer wrapping at width. style is one of
// Styles; empty means "dark". A fixed style avoids querying the terminal for
// its background.
func NewRenderer(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	if !slices.Contains(Styles, style) {
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int { return r.width }

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
