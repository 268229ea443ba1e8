// Package color defines the palette primitives shared across the theme
// engine: hex color parsing, the fixed 16-slot palette with its lock
// mask, and the pure derivation of semantic color roles.
//
// Everything here is stateless. Role derivation is a deterministic
// function of the palette so that derived values can always be thrown
// away and recomputed.
package color
