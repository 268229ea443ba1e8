package history

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

func recorderFixture(t *testing.T) (*Recorder, *state.Store) {
	t.Helper()
	bus := events.NewBus()
	store := state.New(bus, logging.NewNop())
	r := NewRecorder(store, bus, 0, logging.NewNop())
	t.Cleanup(r.Close)
	return r, store
}

func flatPalette(c color.Color) []color.Color {
	colors := make([]color.Color, color.PaletteSize)
	for i := range colors {
		colors[i] = c
	}
	return colors
}

func TestRecorderUndoRedo(t *testing.T) {
	r, store := recorderFixture(t)

	require.NoError(t, store.SetPalette(flatPalette("#111111")))
	require.NoError(t, store.SetPalette(flatPalette("#222222")))
	assert.Equal(t, 3, r.Depth(), "initial seed plus two actions")

	assert.True(t, r.Undo())
	assert.Equal(t, color.Color("#111111"), store.Palette()[0])

	assert.True(t, r.Redo())
	assert.Equal(t, color.Color("#222222"), store.Palette()[0])
}

func TestUndoDoesNotRecordItself(t *testing.T) {
	r, store := recorderFixture(t)

	require.NoError(t, store.SetPalette(flatPalette("#111111")))
	depth := r.Depth()

	require.True(t, r.Undo())
	assert.Equal(t, depth, r.Depth(), "applying a snapshot must not push a new one")
}

func TestUndoAtBottomIsNoop(t *testing.T) {
	r, store := recorderFixture(t)

	assert.False(t, r.Undo(), "only the seed snapshot exists")
	require.NoError(t, store.SetPalette(flatPalette("#111111")))
	assert.True(t, r.Undo())
	assert.False(t, r.Undo())
	assert.False(t, r.CanUndo())
	assert.True(t, r.CanRedo())
}

func TestNewActionTruncatesRedoTail(t *testing.T) {
	r, store := recorderFixture(t)

	require.NoError(t, store.SetPalette(flatPalette("#111111")))
	require.NoError(t, store.SetPalette(flatPalette("#222222")))
	require.True(t, r.Undo())
	require.True(t, r.CanRedo())

	require.NoError(t, store.SetPalette(flatPalette("#333333")))
	assert.False(t, r.CanRedo())
}

func TestBatchCostsOneUndoStep(t *testing.T) {
	r, store := recorderFixture(t)

	r.Batch("load theme", func() {
		require.NoError(t, store.SetPalette(flatPalette("#aaaaaa")))
		store.SetWallpaper("/w.png", nil)
		store.SetLightMode(true)
	})
	assert.Equal(t, 2, r.Depth(), "seed plus one batched action")

	require.True(t, r.Undo())
	assert.NotEqual(t, color.Color("#aaaaaa"), store.Palette()[0])
}

func TestResetClearsHistory(t *testing.T) {
	r, store := recorderFixture(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SetPalette(flatPalette(color.Color(fmt.Sprintf("#11111%d", i)))))
	}
	require.True(t, r.CanUndo())

	store.Reset()
	assert.False(t, r.CanUndo())
	assert.Equal(t, 1, r.Depth())
}
