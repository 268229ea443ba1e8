package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
)

func newTestStore() (*Store, *events.Bus) {
	bus := events.NewBus()
	return New(bus, logging.NewNop()), bus
}

func testPalette(c color.Color) []color.Color {
	colors := make([]color.Color, color.PaletteSize)
	for i := range colors {
		colors[i] = c
	}
	return colors
}

func recordTypes(bus *events.Bus) *[]events.Type {
	var got []events.Type
	bus.Subscribe(func(ev events.Event) { got = append(got, ev.Type) })
	return &got
}

func TestSetPaletteRoundTrip(t *testing.T) {
	s, _ := newTestStore()

	colors := testPalette("#336699")
	require.NoError(t, s.SetPalette(colors))
	assert.Equal(t, colors, s.Palette().Slice())
}

func TestSetPaletteWrongLengthRejected(t *testing.T) {
	s, bus := newTestStore()
	before := s.Palette()
	got := recordTypes(bus)

	err := s.SetPalette(testPalette("#ffffff")[:10])
	assert.ErrorIs(t, err, color.ErrPaletteSize)
	assert.Equal(t, before, s.Palette(), "store must be left unchanged")
	assert.Empty(t, *got, "no notification on rejected write")
}

func TestSetPaletteNotifies(t *testing.T) {
	s, bus := newTestStore()
	got := recordTypes(bus)

	require.NoError(t, s.SetPalette(testPalette("#102030")))
	assert.Equal(t, []events.Type{events.PaletteChanged, events.ColorRolesChanged}, *got)
}

func TestRolesFollowPalette(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.SetPalette(testPalette("#abcdef")))
	roles := s.Roles()
	assert.Equal(t, color.Color("#abcdef"), roles["background"])
	assert.Equal(t, color.Color("#abcdef"), roles["foreground"])

	require.NoError(t, s.SetColor(0, "#000000"))
	assert.Equal(t, color.Color("#000000"), s.Roles()["background"])
}

func TestSetColorOutOfRangeIsNoop(t *testing.T) {
	s, bus := newTestStore()
	before := s.Palette()
	got := recordTypes(bus)

	require.NoError(t, s.SetColor(-1, "#ffffff"))
	require.NoError(t, s.SetColor(16, "#ffffff"))

	assert.Equal(t, before, s.Palette())
	assert.Empty(t, *got)
}

func TestSetWallpaperAlwaysNotifies(t *testing.T) {
	s, bus := newTestStore()
	got := recordTypes(bus)

	s.SetWallpaper("/a/b.png", nil)
	s.SetWallpaper("/a/b.png", nil) // unchanged path still notifies
	assert.Equal(t, []events.Type{events.WallpaperChanged, events.WallpaperChanged}, *got)

	s.SetWallpaper("/a/c.png", &Wallpaper{URL: "https://example.com/c", Source: "wallhaven"})
	w := s.Wallpaper()
	assert.Equal(t, "/a/c.png", w.Path)
	assert.Equal(t, "wallhaven", w.Source)
}

func TestSilentSuppressesNotifications(t *testing.T) {
	s, bus := newTestStore()
	got := recordTypes(bus)

	s.Silent(func(st *Store) {
		require.NoError(t, st.SetPalette(testPalette("#445566")))
		st.SetWallpaper("/quiet.png", nil)
	})

	assert.Empty(t, *got, "silent writes emit nothing")
	assert.Equal(t, color.Color("#445566"), s.Palette()[0], "state still updated")
	assert.Equal(t, color.Color("#445566"), s.Roles()["background"], "roles still recomputed")

	// Notifications resume after the transaction.
	s.SetWallpaper("/loud.png", nil)
	assert.Equal(t, []events.Type{events.WallpaperChanged}, *got)
}

func TestAdjustmentsMergeAndReset(t *testing.T) {
	s, bus := newTestStore()
	got := recordTypes(bus)

	v := 0.4
	s.SetAdjustments(AdjustmentsPatch{Vibrance: &v})

	adj := s.Adjustments()
	assert.Equal(t, 0.4, adj.Vibrance)
	assert.Equal(t, 1.0, adj.Gamma, "untouched sliders keep neutral values")

	s.ResetAdjustments()
	assert.Equal(t, DefaultAdjustments(), s.Adjustments())
	assert.Equal(t, []events.Type{events.AdjustmentsChanged, events.AdjustmentsChanged}, *got)
}

func TestAppOverrides(t *testing.T) {
	s, _ := newTestStore()

	s.SetAppOverride("kitty", map[string]color.Color{"background": "#101010"})
	s.SetAppOverride("rofi", map[string]color.Color{"accent": "#ff00ff"})
	assert.Len(t, s.Overrides(), 2)

	s.RemoveAppOverride("kitty")
	overrides := s.Overrides()
	assert.Len(t, overrides, 1)
	assert.Equal(t, color.Color("#ff00ff"), overrides["rofi"]["accent"])

	s.ResetAppOverrides()
	assert.Empty(t, s.Overrides())
}

func TestOverridesGetterReturnsCopy(t *testing.T) {
	s, _ := newTestStore()
	s.SetAppOverride("kitty", map[string]color.Color{"background": "#101010"})

	got := s.Overrides()
	got["kitty"]["background"] = "#ffffff"
	assert.Equal(t, color.Color("#101010"), s.Overrides()["kitty"]["background"])
}

func TestLockedMergeScenario(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.SetPalette(testPalette("#000000")))
	require.NoError(t, s.SetColor(5, "#ff00ff"))
	s.SetLock(5, true)

	incoming, err := color.NewPalette(testPalette("#ffffff"))
	require.NoError(t, err)

	merged := s.Palette().MergeLocked(incoming, s.Locks())
	require.NoError(t, s.SetPalette(merged.Slice()))

	for i, c := range s.Palette() {
		if i == 5 {
			assert.Equal(t, color.Color("#ff00ff"), c)
		} else {
			assert.Equal(t, color.Color("#ffffff"), c)
		}
	}
}

func TestReset(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.SetPalette(testPalette("#123456")))
	s.SetWallpaper("/w.png", nil)
	s.SetLightMode(true)

	got := recordTypes(bus)
	s.Reset()

	assert.Equal(t, []events.Type{events.StateReset}, *got, "reset emits exactly one notification")
	assert.Equal(t, defaultPalette, s.Palette())
	assert.Equal(t, Wallpaper{}, s.Wallpaper())
	assert.False(t, s.LightMode())
}

func TestSnapshotApply(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.SetPalette(testPalette("#111111")))
	s.SetLightMode(true)
	snap := s.Snapshot("before edit")

	require.NoError(t, s.SetPalette(testPalette("#222222")))
	s.SetLightMode(false)

	s.ApplySnapshot(snap)
	assert.Equal(t, color.Color("#111111"), s.Palette()[0])
	assert.True(t, s.LightMode())
	assert.Equal(t, color.Color("#111111"), s.Roles()["background"])
}
