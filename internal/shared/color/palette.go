package color

import (
	"errors"
	"fmt"
)

// ErrPaletteSize reports a palette write with the wrong number of slots.
var ErrPaletteSize = errors.New("palette must contain exactly 16 colors")

// Palette is the fixed, ordered set of 16 base colors of a theme.
type Palette [PaletteSize]Color

// LockMask marks palette slots protected from bulk overwrite.
type LockMask [PaletteSize]bool

// NewPalette builds a palette from a slice, enforcing the length-16
// invariant and per-slot hex validity.
func NewPalette(colors []Color) (Palette, error) {
	var p Palette
	if len(colors) != PaletteSize {
		return p, fmt.Errorf("%w: got %d colors", ErrPaletteSize, len(colors))
	}
	for i, c := range colors {
		normalized, err := Parse(string(c))
		if err != nil {
			return p, fmt.Errorf("slot %d: %w", i, err)
		}
		p[i] = normalized
	}
	return p, nil
}

// ParsePalette builds a palette from raw hex strings.
func ParsePalette(raw []string) (Palette, error) {
	colors := make([]Color, len(raw))
	for i, s := range raw {
		colors[i] = Color(s)
	}
	return NewPalette(colors)
}

// Slice returns the palette as a fresh slice.
func (p Palette) Slice() []Color {
	out := make([]Color, PaletteSize)
	copy(out, p[:])
	return out
}

// Strings returns the palette as plain hex strings.
func (p Palette) Strings() []string {
	out := make([]string, PaletteSize)
	for i, c := range p {
		out[i] = string(c)
	}
	return out
}

// MergeLocked overlays incoming onto p, keeping p's value wherever the
// mask locks a slot. Used when a bulk re-extraction must not clobber
// colors the user pinned.
func (p Palette) MergeLocked(incoming Palette, locks LockMask) Palette {
	out := incoming
	for i, locked := range locks {
		if locked {
			out[i] = p[i]
		}
	}
	return out
}

// Count returns the number of locked slots.
func (m LockMask) Count() int {
	n := 0
	for _, locked := range m {
		if locked {
			n++
		}
	}
	return n
}
