package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
)

func testBlueprint(t *testing.T) *state.Blueprint {
	t.Helper()
	bus := events.NewBus()
	s := state.New(bus, logging.NewNop())
	colors := make([]color.Color, color.PaletteSize)
	for i := range colors {
		colors[i] = color.Color(fmt.Sprintf("#10%02x30", i))
	}
	require.NoError(t, s.SetPalette(colors))
	s.SetWallpaper("/walls/dunes.png", nil)
	return s.Blueprint()
}

func TestLibrarySaveLoadRoundTrip(t *testing.T) {
	lib := NewLibrary(t.TempDir(), logging.NewNop())

	saved, err := lib.Save("Dunes", testBlueprint(t))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	loaded, err := lib.Load(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dunes", loaded.Name)
	assert.Equal(t, saved.Blueprint.Palette.Colors, loaded.Blueprint.Palette.Colors)
}

func TestLibrarySurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	lib := NewLibrary(dir, logging.NewNop())
	saved, err := lib.Save("Persisted", testBlueprint(t))
	require.NoError(t, err)

	reopened := NewLibrary(dir, logging.NewNop())
	loaded, err := reopened.Load(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", loaded.Name)
	assert.Equal(t, "/walls/dunes.png", loaded.Blueprint.Palette.Wallpaper)
}

func TestLibraryListNewestFirst(t *testing.T) {
	lib := NewLibrary(t.TempDir(), logging.NewNop())

	first, err := lib.Save("first", testBlueprint(t))
	require.NoError(t, err)
	_, err = lib.Update(first.ID, testBlueprint(t))
	require.NoError(t, err)
	second, err := lib.Save("second", testBlueprint(t))
	require.NoError(t, err)
	_, err = lib.Update(second.ID, testBlueprint(t))
	require.NoError(t, err)

	metas, err := lib.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "second", metas[0].Name)
}

func TestLibraryDelete(t *testing.T) {
	lib := NewLibrary(t.TempDir(), logging.NewNop())
	saved, err := lib.Save("Doomed", testBlueprint(t))
	require.NoError(t, err)

	require.NoError(t, lib.Delete(saved.ID))
	_, err = lib.Load(saved.ID)
	assert.Error(t, err)
	assert.Error(t, lib.Delete(saved.ID), "second delete reports not found")
}

func TestLibraryRejectsEmptyName(t *testing.T) {
	lib := NewLibrary(t.TempDir(), logging.NewNop())
	_, err := lib.Save("  ", testBlueprint(t))
	assert.Error(t, err)
}

func TestBase16RoundTrip(t *testing.T) {
	colors := make([]color.Color, color.PaletteSize)
	for i := range colors {
		colors[i] = color.Color(fmt.Sprintf("#a0%02xc0", i))
	}
	p, err := color.NewPalette(colors)
	require.NoError(t, err)

	data, err := ExportBase16("Test Scheme", p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "#", "base16 colors carry no hash prefix")

	got, name, err := ImportBase16(data)
	require.NoError(t, err)
	assert.Equal(t, "Test Scheme", name)
	assert.Equal(t, p, got)
}

func TestImportBase16Malformed(t *testing.T) {
	_, _, err := ImportBase16([]byte("scheme: broken\nbase00: zzzzzz\n"))
	assert.Error(t, err)

	_, _, err = ImportBase16([]byte("{not yaml"))
	assert.Error(t, err)
}
