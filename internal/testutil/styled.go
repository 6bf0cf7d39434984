package testutil

import (
	"github.com/zjrosen/marginalia/internal/format"
	"github.com/zjrosen/marginalia/internal/highlight"
	"github.com/zjrosen/marginalia/internal/styled"
)

// StyledBuilder appends text pieces with attributes resolved by an engine.
type StyledBuilder struct {
	engine *format.Engine
	text   *styled.Text
}

// NewStyled starts an empty text. A nil engine means format.New().
func NewStyled(engine *format.Engine) *StyledBuilder {
	if engine == nil {
		engine = format.New()
	}
	return &StyledBuilder{engine: engine, text: &styled.Text{}}
}

// Plain appends s with the base attributes.
func (b *StyledBuilder) Plain(s string) *StyledBuilder {
	b.text.Append(s, b.engine.Base())
	return b
}

// With appends s carrying the given character kinds.
func (b *StyledBuilder) With(s string, kinds ...styled.Kind) *StyledBuilder {
	start := b.text.Len()
	b.Plain(s)
	for _, k := range kinds {
		b.engine.Apply(b.text, k, format.Range{Start: start, End: b.text.Len()}, format.Value{})
	}
	return b
}

// Marked appends s highlighted with the light color c.
func (b *StyledBuilder) Marked(s string, c highlight.ARGB) *StyledBuilder {
	start := b.text.Len()
	b.Plain(s)
	b.engine.Apply(b.text, styled.Highlight, format.Range{Start: start, End: b.text.Len()}, format.Value{Color: c})
	return b
}

// Link appends s linking to url.
func (b *StyledBuilder) Link(s, url string) *StyledBuilder {
	start := b.text.Len()
	b.Plain(s)
	b.engine.Apply(b.text, styled.Link, format.Range{Start: start, End: b.text.Len()}, format.Value{URL: url})
	return b
}

// Line appends one line with the given paragraph kind and a newline.
func (b *StyledBuilder) Line(s string, kind styled.Kind) *StyledBuilder {
	start := b.text.Len()
	b.Plain(s + "\n")
	b.engine.Apply(b.text, kind, format.Range{Start: start, End: start + 1}, format.Value{})
	return b
}

// Build returns the built text. The builder must not be used afterwards.
func (b *StyledBuilder) Build() *styled.Text {
	return b.text
}
