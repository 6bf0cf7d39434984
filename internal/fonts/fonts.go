// Package fonts resolves bold and italic requests against the traits a font
// family really provides.
//
// Many CJK faces ship without an italic style. Asking them for italic
// silently yields the upright face, so the resolver detects the missing trait
// and substitutes a synthetic oblique skew instead.
package fonts

import (
	"strings"
)

// ObliqueSkew is the shear angle, in degrees, used for synthetic italics.
const ObliqueSkew = 12.0

// Traits is a bitmask of font style traits.
type Traits uint8

const (
	Bold Traits = 1 << iota
	Italic
)

// Has reports whether every trait in o is set.
func (t Traits) Has(o Traits) bool { return t&o == o }

func (t Traits) String() string {
	switch t {
	case 0:
		return "regular"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Bold | Italic:
		return "bold-italic"
	default:
		return "unknown"
	}
}

// ParseTraits parses trait names such as "bold" and "italic".
func ParseTraits(names []string) (Traits, bool) {
	var t Traits
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "bold":
			t |= Bold
		case "italic":
			t |= Italic
		default:
			return 0, false
		}
	}
	return t, true
}

// Face is a resolved font descriptor. Skew is non-zero only for synthetic
// italics.
type Face struct {
	Family string
	Size   float64
	Traits Traits
	Skew   float64
}

// Catalog reports which traits a family can actually render.
type Catalog interface {
	Available(family string) Traits
}

// StaticCatalog is a Catalog backed by a fixed table. Families missing from
// the table are assumed to have true bold and italic faces.
type StaticCatalog map[string]Traits

// Available implements Catalog.
func (c StaticCatalog) Available(family string) Traits {
	if t, ok := c[strings.ToLower(family)]; ok {
		return t
	}
	return Bold | Italic
}

// With returns a copy of c with the given overrides applied.
func (c StaticCatalog) With(overrides map[string]Traits) StaticCatalog {
	out := make(StaticCatalog, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	return out
}

var cjkFamilies = []string{
	"PingFang SC", "PingFang TC", "PingFang HK",
	"Hiragino Sans", "Hiragino Sans GB", "Hiragino Mincho ProN",
	"Noto Sans CJK SC", "Noto Sans CJK TC", "Noto Sans CJK JP", "Noto Sans CJK KR",
	"Noto Serif CJK SC", "Noto Serif CJK TC", "Noto Serif CJK JP", "Noto Serif CJK KR",
	"Songti SC", "Songti TC", "Heiti SC", "Heiti TC",
	"Source Han Sans", "Source Han Serif",
	"Apple SD Gothic Neo",
}

// DefaultCatalog lists the common CJK system families as bold-only.
func DefaultCatalog() StaticCatalog {
	c := make(StaticCatalog, len(cjkFamilies))
	for _, f := range cjkFamilies {
		c[strings.ToLower(f)] = Bold
	}
	return c
}

// Resolver applies bold/italic requests to a face.
type Resolver struct {
	catalog Catalog
	base    Face
}

// NewResolver creates a resolver for the given base face. A nil catalog
// means DefaultCatalog.
func NewResolver(catalog Catalog, base Face) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	base.Traits = 0
	base.Skew = 0
	return &Resolver{catalog: catalog, base: base}
}

// Base returns the plain face new text starts with.
func (r *Resolver) Base() Face { return r.base }

// Resolve requests the given traits on cur's family and size. When italic is
// requested but the family cannot provide it, the returned face carries
// ObliqueSkew and oblique is true. Resolving without italic always clears the
// skew.
func (r *Resolver) Resolve(cur Face, bold, italic bool) (Face, bool) {
	if cur.Family == "" {
		cur.Family = r.base.Family
	}
	if cur.Size == 0 {
		cur.Size = r.base.Size
	}

	var want Traits
	if bold {
		want |= Bold
	}
	if italic {
		want |= Italic
	}

	got := want & r.catalog.Available(cur.Family)
	out := Face{Family: cur.Family, Size: cur.Size, Traits: got}
	if italic && !got.Has(Italic) {
		out.Skew = ObliqueSkew
		return out, true
	}
	return out, false
}
