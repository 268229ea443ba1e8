package color

import "fmt"

// ANSI color names in terminal order, slots 1-6 plus black and white.
var ansiNames = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Roles maps semantic names (background, foreground, indexed and named
// terminal colors) to concrete values. It is always derived from a
// palette via BuildRoles, never mutated independently.
type Roles map[string]Color

// BuildRoles derives the full semantic role mapping from a palette.
// Pure: identical palettes yield identical role maps.
func BuildRoles(p Palette) Roles {
	roles := make(Roles, 2+PaletteSize+2*len(ansiNames))

	roles["background"] = p[0]
	roles["foreground"] = p[15]

	for i, c := range p {
		roles[fmt.Sprintf("color%d", i)] = c
	}

	// Named ANSI colors map onto the first 8 slots, bright variants
	// onto the second 8.
	for i, name := range ansiNames {
		roles[name] = p[i]
		roles["bright_"+name] = p[i+8]
	}

	return roles
}

// Equal reports whether two role maps are identical.
func (r Roles) Equal(other Roles) bool {
	if len(r) != len(other) {
		return false
	}
	for name, c := range r {
		if other[name] != c {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the role map.
func (r Roles) Clone() Roles {
	out := make(Roles, len(r))
	for name, c := range r {
		out[name] = c
	}
	return out
}
