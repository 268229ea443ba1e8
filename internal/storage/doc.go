// Package storage persists themes. The library keeps named blueprints
// as JSON files under one directory with an in-memory cache; the
// Base16 codec imports and exports palettes in the interchange YAML
// format used by other theming tools.
package storage
