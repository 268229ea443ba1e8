package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
)

type stubExtractor struct {
	fail map[string]error
	hook func(path string)
}

func (f *stubExtractor) Extract(_ context.Context, path string, _ batch.Mode, _ bool) (color.Palette, error) {
	if f.hook != nil {
		f.hook(path)
	}
	if err, ok := f.fail[path]; ok {
		return color.Palette{}, err
	}
	var p color.Palette
	for i := range p {
		p[i] = color.Color(fmt.Sprintf("#00%02x00", i))
	}
	return p, nil
}

type harness struct {
	bus        *events.Bus
	store      *state.Store
	queue      *batch.Queue
	controller *Controller
	phases     chan Phase
}

func newHarness(t *testing.T, ex batch.Extractor) *harness {
	t.Helper()
	bus := events.NewBus()
	store := state.New(bus, logging.NewNop())
	queue := batch.NewQueue(ex, bus, logging.NewNop())

	phases := make(chan Phase, 16)
	bus.Subscribe(func(ev events.Event) {
		phases <- Phase(ev.Payload.(string))
	}, events.PhaseChanged)

	c := New(store, queue, bus, logging.NewNop(), Options{PauseSet: true})
	t.Cleanup(c.Close)
	return &harness{bus: bus, store: store, queue: queue, controller: c, phases: phases}
}

func (h *harness) waitPhase(t *testing.T, want Phase) {
	t.Helper()
	for {
		select {
		case p := <-h.phases:
			if p == want {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for phase %s", want)
		}
	}
}

func (h *harness) runToComparing(t *testing.T, paths ...string) {
	t.Helper()
	require.NoError(t, h.controller.EnterSelection())
	for _, p := range paths {
		require.True(t, h.controller.ToggleSelection(p))
	}
	require.NoError(t, h.controller.StartProcessing(context.Background(), batch.Options{Mode: batch.ModeAuto}))
	h.waitPhase(t, PhaseComparing)
}

func TestSelectionCapEnforced(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	require.NoError(t, h.controller.EnterSelection())

	for i := 0; i < DefaultSelectionLimit; i++ {
		assert.True(t, h.controller.AddSelection(fmt.Sprintf("/w/%d.png", i)))
	}
	assert.False(t, h.controller.AddSelection("/w/extra.png"), "11th distinct add is rejected")
	assert.Len(t, h.controller.Selection(), DefaultSelectionLimit)

	// Duplicate add leaves the count unchanged.
	assert.False(t, h.controller.AddSelection("/w/0.png"))
	assert.Len(t, h.controller.Selection(), DefaultSelectionLimit)
}

func TestToggleSelection(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	require.NoError(t, h.controller.EnterSelection())

	assert.True(t, h.controller.ToggleSelection("/a.png"))
	assert.False(t, h.controller.ToggleSelection("/a.png"), "second toggle removes")
	assert.Empty(t, h.controller.Selection())
}

func TestEnterSelectionClearsStaleSelection(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	require.NoError(t, h.controller.EnterSelection())
	h.controller.ToggleSelection("/a.png")
	require.NoError(t, h.controller.ExitSelection())

	require.NoError(t, h.controller.EnterSelection())
	assert.Empty(t, h.controller.Selection())
}

func TestFullRunReachesComparing(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	h.runToComparing(t, "/1.png", "/2.png")

	assert.Equal(t, PhaseComparing, h.controller.Phase())
	results := h.controller.Results()
	require.Len(t, results, 2)
	assert.Equal(t, batch.StatusCompleted, results[0].Status)
}

func TestStartProcessingGuards(t *testing.T) {
	h := newHarness(t, &stubExtractor{})

	err := h.controller.StartProcessing(context.Background(), batch.Options{})
	assert.ErrorIs(t, err, ErrPhase)

	require.NoError(t, h.controller.EnterSelection())
	err = h.controller.StartProcessing(context.Background(), batch.Options{})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestPreviewIsSilentAndRespectsLocks(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	require.NoError(t, h.store.SetColor(5, "#ff00ff"))
	h.store.SetLock(5, true)

	h.runToComparing(t, "/1.png")

	var mutations []events.Type
	h.bus.Subscribe(func(ev events.Event) {
		mutations = append(mutations, ev.Type)
	}, events.PaletteChanged, events.WallpaperChanged)

	require.NoError(t, h.controller.SetPreview(0))

	assert.Empty(t, mutations, "preview writes are silent")
	assert.Equal(t, 0, h.controller.PreviewIndex())
	assert.Equal(t, color.Color("#ff00ff"), h.store.Palette()[5], "locked slot survives preview")
	assert.Equal(t, "/1.png", h.store.Wallpaper().Path)
}

func TestApplyCommitsWithNotifications(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	h.runToComparing(t, "/1.png")
	require.NoError(t, h.controller.SetPreview(0))

	var mutations []events.Type
	h.bus.Subscribe(func(ev events.Event) {
		mutations = append(mutations, ev.Type)
	}, events.PaletteChanged)

	require.NoError(t, h.controller.Apply())
	assert.NotEmpty(t, mutations, "apply is a real, notifying write")
	assert.Equal(t, PhaseIdle, h.controller.Phase())
	assert.Empty(t, h.controller.Results())
}

func TestDiscardRestoresOriginal(t *testing.T) {
	h := newHarness(t, &stubExtractor{})
	require.NoError(t, h.store.SetColor(0, "#123456"))
	h.store.SetWallpaper("/orig.png", nil)

	h.runToComparing(t, "/1.png")
	require.NoError(t, h.controller.SetPreview(0))
	assert.NotEqual(t, color.Color("#123456"), h.store.Palette()[0])
	assert.Equal(t, "/1.png", h.store.Wallpaper().Path)

	require.NoError(t, h.controller.Discard())
	assert.Equal(t, color.Color("#123456"), h.store.Palette()[0])
	assert.Equal(t, "/orig.png", h.store.Wallpaper().Path)
	assert.Equal(t, PhaseIdle, h.controller.Phase())
}

func TestCancelWithPartialResultsLandsInComparing(t *testing.T) {
	h := newHarness(t, nil)
	ex := &stubExtractor{hook: func(path string) {
		if path == "/2.png" {
			h.controller.Cancel()
		}
	}}
	h.queue = batch.NewQueue(ex, h.bus, logging.NewNop())
	h.controller.queue = h.queue

	require.NoError(t, h.controller.EnterSelection())
	h.controller.ToggleSelection("/1.png")
	h.controller.ToggleSelection("/2.png")
	h.controller.ToggleSelection("/3.png")
	require.NoError(t, h.controller.StartProcessing(context.Background(), batch.Options{}))

	h.waitPhase(t, PhaseComparing)
	results := h.controller.Results()
	require.Len(t, results, 3)
	assert.Equal(t, batch.StatusCompleted, results[1].Status)
	assert.Equal(t, batch.StatusPending, results[2].Status)
}

func TestCancelWithNoResultsReturnsToIdle(t *testing.T) {
	h := newHarness(t, nil)
	ex := &stubExtractor{
		fail: map[string]error{"/1.png": errors.New("boom")},
		hook: func(path string) {
			if path == "/1.png" {
				h.controller.Cancel()
			}
		},
	}
	h.queue = batch.NewQueue(ex, h.bus, logging.NewNop())
	h.controller.queue = h.queue

	require.NoError(t, h.controller.EnterSelection())
	h.controller.ToggleSelection("/1.png")
	h.controller.ToggleSelection("/2.png")
	require.NoError(t, h.controller.StartProcessing(context.Background(), batch.Options{}))

	h.waitPhase(t, PhaseIdle)
	assert.Empty(t, h.controller.Results())
}
