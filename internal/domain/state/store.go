package state

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
)

// Store is the canonical, single-owner record of the current theme.
// It has no internal locking: one logical owner mutates it and change
// notifications are dispatched inline on the mutating call. Callers that
// need serialization (transport goroutines) arrange it outside.
type Store struct {
	log *logging.Logger
	bus *events.Bus

	// muted suppresses notifications during a Silent transaction.
	muted bool

	palette     color.Palette
	locks       color.LockMask
	roles       color.Roles
	wallpaper   Wallpaper
	adjustments Adjustments
	overrides   Overrides
	lightMode   bool
	neovimTheme string
}

// defaultPalette is the built-in dark scheme used before the first
// extraction.
var defaultPalette = color.Palette{
	"#1a1a1a", "#cc6666", "#b5bd68", "#f0c674",
	"#81a2be", "#b294bb", "#8abeb7", "#c5c8c6",
	"#666666", "#d54e53", "#b9ca4a", "#e7c547",
	"#7aa6da", "#c397d8", "#70c0b1", "#eaeaea",
}

// New creates a store with default values.
func New(bus *events.Bus, log *logging.Logger) *Store {
	s := &Store{
		log: log.Component("state"),
		bus: bus,
	}
	s.applyDefaults()
	return s
}

func (s *Store) applyDefaults() {
	s.palette = defaultPalette
	s.locks = color.LockMask{}
	s.roles = color.BuildRoles(s.palette)
	s.wallpaper = Wallpaper{}
	s.adjustments = DefaultAdjustments()
	s.overrides = Overrides{}
	s.lightMode = false
	s.neovimTheme = ""
}

// Silent runs fn with change notifications suppressed. State written
// inside fn is fully updated, derived roles included, but nothing is
// emitted. This is the re-entrancy guard for components that originated
// a change and write it back to the shared store: without it their own
// change handler would fire again in a feedback loop.
func (s *Store) Silent(fn func(*Store)) {
	prev := s.muted
	s.muted = true
	fn(s)
	s.muted = prev
}

func (s *Store) emit(t events.Type, payload interface{}) {
	if s.muted {
		return
	}
	s.bus.Emit(events.Event{Type: t, Payload: payload})
}

// Palette returns the current 16-color palette.
func (s *Store) Palette() color.Palette { return s.palette }

// Locks returns the current lock mask.
func (s *Store) Locks() color.LockMask { return s.locks }

// Roles returns the semantic role mapping derived from the palette.
func (s *Store) Roles() color.Roles { return s.roles.Clone() }

// Wallpaper returns the current wallpaper reference.
func (s *Store) Wallpaper() Wallpaper { return s.wallpaper }

// Adjustments returns the current slider record.
func (s *Store) Adjustments() Adjustments { return s.adjustments }

// Overrides returns a copy of the per-application overrides.
func (s *Store) Overrides() Overrides { return s.overrides.clone() }

// LightMode reports whether light mode is active.
func (s *Store) LightMode() bool { return s.lightMode }

// NeovimTheme returns the selected neovim config name.
func (s *Store) NeovimTheme() string { return s.neovimTheme }

// SetPalette replaces all 16 slots and recomputes the derived roles.
// A slice of the wrong length (or with malformed colors) is rejected and
// the store is left untouched; this is a validation failure, never fatal.
func (s *Store) SetPalette(colors []color.Color) error {
	p, err := color.NewPalette(colors)
	if err != nil {
		s.log.Warn("rejected palette write", zap.Int("len", len(colors)), zap.Error(err))
		return err
	}

	s.palette = p
	s.roles = color.BuildRoles(p)
	s.emit(events.PaletteChanged, s.palette.Strings())
	s.emit(events.ColorRolesChanged, s.roles.Clone())
	return nil
}

// SetColor updates a single palette slot. An out-of-range index is a
// no-op; a valid write recomputes roles and always notifies.
func (s *Store) SetColor(index int, c color.Color) error {
	if index < 0 || index >= color.PaletteSize {
		s.log.Warn("color index out of range", zap.Int("index", index))
		return nil
	}
	normalized, err := color.Parse(string(c))
	if err != nil {
		s.log.Warn("rejected color write", zap.Int("index", index), zap.Error(err))
		return err
	}

	s.palette[index] = normalized
	s.roles = color.BuildRoles(s.palette)
	s.emit(events.PaletteChanged, s.palette.Strings())
	s.emit(events.ColorRolesChanged, s.roles.Clone())
	return nil
}

// SetLock marks a palette slot as protected from bulk overwrite.
// Out-of-range indices are ignored.
func (s *Store) SetLock(index int, locked bool) {
	if index < 0 || index >= color.PaletteSize {
		return
	}
	s.locks[index] = locked
}

// SetWallpaper replaces the wallpaper reference. Always notifies, even
// when the path is unchanged: callers rely on this for a forced refresh.
func (s *Store) SetWallpaper(path string, meta *Wallpaper) {
	w := Wallpaper{Path: path}
	if meta != nil {
		w.URL = meta.URL
		w.Source = meta.Source
	}
	s.wallpaper = w
	s.log.Debug("wallpaper set", zap.String("wallpaper", w.describe()))
	s.emit(events.WallpaperChanged, s.wallpaper)
}

// SetLightMode toggles the light mode flag and notifies.
func (s *Store) SetLightMode(light bool) {
	s.lightMode = light
	s.emit(events.LightModeChanged, s.lightMode)
}

// SetNeovimTheme selects the neovim config and notifies.
func (s *Store) SetNeovimTheme(name string) {
	s.neovimTheme = name
	s.emit(events.NeovimThemeChanged, s.neovimTheme)
}

// SetAdjustments merges a partial update into the slider record.
func (s *Store) SetAdjustments(patch AdjustmentsPatch) {
	s.adjustments = s.adjustments.merge(patch)
	s.emit(events.AdjustmentsChanged, s.adjustments)
}

// ResetAdjustments restores every slider to its neutral value.
func (s *Store) ResetAdjustments() {
	s.adjustments = DefaultAdjustments()
	s.emit(events.AdjustmentsChanged, s.adjustments)
}

// SetAppOverrides replaces the whole override map.
func (s *Store) SetAppOverrides(overrides Overrides) {
	if overrides == nil {
		overrides = Overrides{}
	}
	s.overrides = overrides.clone()
	s.emit(events.AppOverridesChanged, s.overrides.clone())
}

// SetAppOverride sets the color-variable overrides for one application.
func (s *Store) SetAppOverride(app string, vars map[string]color.Color) {
	cloned := make(map[string]color.Color, len(vars))
	for k, v := range vars {
		cloned[k] = v
	}
	s.overrides[app] = cloned
	s.emit(events.AppOverridesChanged, s.overrides.clone())
}

// RemoveAppOverride drops one application's overrides. Notifies even if
// the entry was absent.
func (s *Store) RemoveAppOverride(app string) {
	delete(s.overrides, app)
	s.emit(events.AppOverridesChanged, s.overrides.clone())
}

// ResetAppOverrides clears all overrides.
func (s *Store) ResetAppOverrides() {
	s.overrides = Overrides{}
	s.emit(events.AppOverridesChanged, s.overrides.clone())
}

// Snapshot captures the current state for the undo stack.
func (s *Store) Snapshot(label string) Snapshot {
	return Snapshot{
		Label:       label,
		Palette:     s.palette,
		Roles:       s.roles.Clone(),
		Adjustments: s.adjustments,
		LightMode:   s.lightMode,
		NeovimTheme: s.neovimTheme,
	}
}

// ApplySnapshot writes a snapshot back onto the store, emitting the
// normal change notifications. The caller (the undo stack) holds its
// restore guard so that these notifications are not recorded again.
func (s *Store) ApplySnapshot(snap Snapshot) {
	s.palette = snap.Palette
	s.roles = color.BuildRoles(snap.Palette)
	s.adjustments = snap.Adjustments
	s.lightMode = snap.LightMode
	s.neovimTheme = snap.NeovimTheme

	s.emit(events.PaletteChanged, s.palette.Strings())
	s.emit(events.ColorRolesChanged, s.roles.Clone())
	s.emit(events.AdjustmentsChanged, s.adjustments)
	s.emit(events.LightModeChanged, s.lightMode)
	s.emit(events.NeovimThemeChanged, s.neovimTheme)
}

// Reset restores every field to its default and emits a single reset
// notification. Consumers must treat it as "re-read everything".
func (s *Store) Reset() {
	s.applyDefaults()
	s.emit(events.StateReset, nil)
}

// describe is used in log lines for the current wallpaper.
func (w Wallpaper) describe() string {
	if w.Source != "" {
		return fmt.Sprintf("%s (%s)", w.Path, w.Source)
	}
	return w.Path
}
