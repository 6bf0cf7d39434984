// Package highlight holds the fixed highlight palette shared by the HTML
// codec and the format engine.
//
// Stored colors are always light-mode values. The dark-mode counterpart is
// only ever a display concern, so callers convert on the way in (DisplayColor)
// and back on the way out (LightColor).
package highlight

import (
	"fmt"
	"strconv"
	"strings"
)

// ARGB is a 32-bit alpha/red/green/blue color.
type ARGB uint32

// DefaultHighlight is used when a highlight carries no usable color.
const DefaultHighlight ARGB = 0xFFF9E79F

// Entry pairs a light-mode highlight color with its dark-mode counterpart.
type Entry struct {
	Light ARGB
	Dark  ARGB
}

var palette = [...]Entry{
	{Light: 0xFFF9E79F, Dark: 0xFF7D6608}, // yellow
	{Light: 0xFFFAD7A0, Dark: 0xFF7E5109}, // orange
	{Light: 0xFFF5B7B1, Dark: 0xFF78281F}, // red
	{Light: 0xFFF8C8DC, Dark: 0xFF7B2450}, // pink
	{Light: 0xFFD7BDE2, Dark: 0xFF4A235A}, // purple
	{Light: 0xFFC5CAE9, Dark: 0xFF283593}, // indigo
	{Light: 0xFFAED6F1, Dark: 0xFF1B4F72}, // blue
	{Light: 0xFFA3E4D7, Dark: 0xFF0E6251}, // teal
	{Light: 0xFFABEBC6, Dark: 0xFF186A3B}, // green
	{Light: 0xFFD5F5E3, Dark: 0xFF1D8348}, // mint
	{Light: 0xFFE8DAEF, Dark: 0xFF5B2C6F}, // lavender
	{Light: 0xFFE5E7E9, Dark: 0xFF424949}, // gray
	{Light: 0xFFEDBB99, Dark: 0xFF6E2C00}, // brown
}

var (
	lightToDark = make(map[ARGB]ARGB, len(palette))
	darkToLight = make(map[ARGB]ARGB, len(palette))
)

func init() {
	for _, e := range palette {
		lightToDark[e.Light] = e.Dark
		darkToLight[e.Dark] = e.Light
	}
}

// Palette returns the highlight entries in display order.
func Palette() []Entry {
	out := make([]Entry, len(palette))
	copy(out, palette[:])
	return out
}

// DisplayColor returns the color to show for a stored light-mode value.
// Values outside the palette are returned unchanged.
func DisplayColor(light ARGB, dark bool) ARGB {
	if !dark {
		return light
	}
	if d, ok := lightToDark[light]; ok {
		return d
	}
	return light
}

// LightColor maps a displayed color back to its light-mode value.
// Values outside the palette are returned unchanged.
func LightColor(display ARGB) ARGB {
	if l, ok := darkToLight[display]; ok {
		return l
	}
	return display
}

// AndroidInt reinterprets the color as the signed integer the Android
// client writes into style attributes.
func (c ARGB) AndroidInt() int32 {
	return int32(c) //nolint:gosec // G115: two's-complement reinterpretation is the point
}

// FromAndroidInt is the inverse of ARGB.AndroidInt.
func FromAndroidInt(v int32) ARGB {
	return ARGB(uint32(v)) //nolint:gosec // G115: two's-complement reinterpretation is the point
}

// Opaque returns c with its alpha byte forced to 0xFF when it is zero.
func (c ARGB) Opaque() ARGB {
	if c>>24 == 0 {
		return c | 0xFF000000
	}
	return c
}

// Hex formats the RGB part as #RRGGBB.
func (c ARGB) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

func (c ARGB) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseCSSValue decodes a background-color value. It accepts a decimal
// integer (signed Android form or unsigned) and #RRGGBB or #AARRGGBB hex.
// A decoded color with zero alpha is made opaque.
func ParseCSSValue(s string) (ARGB, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		switch len(hex) {
		case 6, 8:
		default:
			return 0, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, false
		}
		c := ARGB(v)
		if len(hex) == 6 {
			c |= 0xFF000000
		}
		return c.Opaque(), true
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	switch {
	case v >= -1<<31 && v < 0:
		return FromAndroidInt(int32(v)).Opaque(), true
	case v >= 0 && v <= 1<<32-1:
		return ARGB(uint32(v)).Opaque(), true
	default:
		return 0, false
	}
}
