package state

import (
	"time"

	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/shared/color"
)

// Blueprint is the serialized, persisted form of the full theme state.
type Blueprint struct {
	Palette     BlueprintPalette  `json:"palette"`
	Adjustments *Adjustments      `json:"adjustments,omitempty"`
	Overrides   Overrides         `json:"appOverrides,omitempty"`
	Settings    BlueprintSettings `json:"settings"`
	Timestamp   time.Time         `json:"timestamp"`
}

// BlueprintPalette groups the palette-adjacent fields of a blueprint.
type BlueprintPalette struct {
	Colors          []string `json:"colors"`
	Wallpaper       string   `json:"wallpaper,omitempty"`
	WallpaperURL    string   `json:"wallpaperUrl,omitempty"`
	WallpaperSource string   `json:"wallpaperSource,omitempty"`
	LightMode       bool     `json:"lightMode"`
	LockedColors    []bool   `json:"lockedColors,omitempty"`
}

// BlueprintSettings carries non-palette persisted settings.
type BlueprintSettings struct {
	SelectedNeovimConfig string `json:"selectedNeovimConfig,omitempty"`
}

// Blueprint serializes the full state for persistence. The lock mask is
// written out even though Restore does not read it back.
func (s *Store) Blueprint() *Blueprint {
	adjustments := s.adjustments
	locks := make([]bool, color.PaletteSize)
	copy(locks, s.locks[:])

	return &Blueprint{
		Palette: BlueprintPalette{
			Colors:          s.palette.Strings(),
			Wallpaper:       s.wallpaper.Path,
			WallpaperURL:    s.wallpaper.URL,
			WallpaperSource: s.wallpaper.Source,
			LightMode:       s.lightMode,
			LockedColors:    locks,
		},
		Adjustments: &adjustments,
		Overrides:   s.overrides.clone(),
		Settings: BlueprintSettings{
			SelectedNeovimConfig: s.neovimTheme,
		},
		Timestamp: time.Now(),
	}
}

// Restore applies a blueprint onto the store.
//
// Restored: palette, wallpaper reference, mode flags, adjustments
// (defaults when absent), app overrides (empty when absent). The lock
// mask is deliberately NOT restored, per project convention; locks are
// an editing-session concept. Malformed fields are skipped with their
// defaults kept so a partially damaged blueprint still loads.
//
// Afterwards the full set of change notifications fires so dependents
// resynchronize unconditionally, bypassing any dirty-check.
func (s *Store) Restore(bp *Blueprint) {
	if p, err := color.ParsePalette(bp.Palette.Colors); err != nil {
		s.log.Warn("blueprint palette skipped", zap.Error(err))
	} else {
		s.palette = p
	}
	s.roles = color.BuildRoles(s.palette)

	s.wallpaper = Wallpaper{
		Path:   bp.Palette.Wallpaper,
		URL:    bp.Palette.WallpaperURL,
		Source: bp.Palette.WallpaperSource,
	}
	s.lightMode = bp.Palette.LightMode
	s.neovimTheme = bp.Settings.SelectedNeovimConfig

	if bp.Adjustments != nil {
		s.adjustments = *bp.Adjustments
	} else {
		s.adjustments = DefaultAdjustments()
	}

	if bp.Overrides != nil {
		s.overrides = bp.Overrides.clone()
	} else {
		s.overrides = Overrides{}
	}

	s.emit(events.PaletteChanged, s.palette.Strings())
	s.emit(events.ColorRolesChanged, s.roles.Clone())
	s.emit(events.WallpaperChanged, s.wallpaper)
	s.emit(events.LightModeChanged, s.lightMode)
	s.emit(events.AdjustmentsChanged, s.adjustments)
	s.emit(events.AppOverridesChanged, s.overrides.clone())
	s.emit(events.NeovimThemeChanged, s.neovimTheme)
}
