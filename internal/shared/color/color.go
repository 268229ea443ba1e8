package color

import (
	"fmt"
	"math"
	"strings"
)

// PaletteSize is the fixed number of slots in a theme palette.
const PaletteSize = 16

// Color is a 6-hex-digit RGB value in "#rrggbb" form.
type Color string

// Parse validates and normalizes a hex color string.
// Accepts "#rrggbb" or "rrggbb", upper or lower case.
func Parse(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return "", fmt.Errorf("invalid color %q: expected 6 hex digits", s)
	}
	for _, r := range raw {
		if !isHexDigit(r) {
			return "", fmt.Errorf("invalid color %q: non-hex digit %q", s, r)
		}
	}
	return Color("#" + strings.ToLower(raw)), nil
}

// MustParse parses a hex color and panics on failure. For constants and tests.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Valid reports whether the color is a well-formed "#rrggbb" value.
func (c Color) Valid() bool {
	_, err := Parse(string(c))
	return err == nil
}

// RGB returns the 8-bit red, green and blue components.
func (c Color) RGB() (r, g, b uint8) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	return hexByte(s[0], s[1]), hexByte(s[2], s[3]), hexByte(s[4], s[5])
}

// Luminance returns the WCAG relative luminance in [0,1].
func (c Color) Luminance() float64 {
	r, g, b := c.RGB()
	return 0.2126*channel(r) + 0.7152*channel(g) + 0.0722*channel(b)
}

// IsDark reports whether the color reads as dark (luminance below 0.5).
func (c Color) IsDark() bool {
	return c.Luminance() < 0.5
}

func channel(v uint8) float64 {
	f := float64(v) / 255.0
	if f <= 0.03928 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}

func hexByte(hi, lo byte) uint8 {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
