package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
	"github.com/hueweave/hueweave/internal/shared/color"
)

// Phase is one state of the batch workflow machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelecting  Phase = "selecting"
	PhaseProcessing Phase = "processing"
	PhaseComparing  Phase = "comparing"
)

// DefaultSelectionLimit caps how many wallpapers one batch run accepts.
const DefaultSelectionLimit = 10

// DefaultCompletionPause is the user-visible beat between the last item
// finishing and the comparison view appearing.
const DefaultCompletionPause = 600 * time.Millisecond

var (
	// ErrPhase reports an operation invoked outside its legal phase.
	ErrPhase = errors.New("operation not valid in current workflow phase")
	// ErrEmptySelection reports StartProcessing with nothing selected.
	ErrEmptySelection = errors.New("selection is empty")
)

// Options tunes the controller. Zero values fall back to defaults,
// except CompletionPause where an explicit zero is honored (tests).
type Options struct {
	SelectionLimit  int
	CompletionPause time.Duration
	PauseSet        bool
}

// Controller drives the batch theming workflow: idle, selecting
// wallpapers, processing them through the extraction queue, then
// comparing results. It owns the capacity-bounded selection set and
// bridges queue results into the store as non-committing previews.
//
// The controller serializes its own access with a mutex; the store and
// history stay single-owner behind it.
type Controller struct {
	log     *logging.Logger
	bus     *events.Bus
	store   *state.Store
	queue   *batch.Queue
	metrics *monitoring.Metrics

	limit int
	pause time.Duration

	mu           sync.Mutex
	phase        Phase
	selection    []string
	results      []batch.Item
	previewIndex int
	original     *state.Snapshot
	originalWall state.Wallpaper
	unsub        func()
}

// New creates a controller in the idle phase.
func New(store *state.Store, queue *batch.Queue, bus *events.Bus, log *logging.Logger, opts Options) *Controller {
	limit := opts.SelectionLimit
	if limit <= 0 {
		limit = DefaultSelectionLimit
	}
	pause := opts.CompletionPause
	if pause == 0 && !opts.PauseSet {
		pause = DefaultCompletionPause
	}

	c := &Controller{
		log:          log.Component("workflow"),
		bus:          bus,
		store:        store,
		queue:        queue,
		limit:        limit,
		pause:        pause,
		phase:        PhaseIdle,
		previewIndex: -1,
	}
	c.unsub = bus.Subscribe(c.onQueueEvent, events.ProcessingCompleted, events.ProcessingCancelled)
	return c
}

// WithMetrics adds metrics tracking to the controller.
func (c *Controller) WithMetrics(m *monitoring.Metrics) *Controller {
	c.metrics = m
	return c
}

// Close detaches the controller from the event bus.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
	}
}

// Phase returns the current workflow phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Selection returns a copy of the current selection, in toggle order.
func (c *Controller) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.selection))
	copy(out, c.selection)
	return out
}

// Results returns the comparison set, the item list of the last run.
func (c *Controller) Results() []batch.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]batch.Item, len(c.results))
	copy(out, c.results)
	return out
}

// PreviewIndex returns the previewed result index, -1 for none.
func (c *Controller) PreviewIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewIndex
}

// EnterSelection moves idle to selecting, clearing any stale selection.
func (c *Controller) EnterSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseIdle {
		return ErrPhase
	}
	c.selection = nil
	c.setPhase(PhaseSelecting)
	c.emitSelection()
	return nil
}

// ExitSelection abandons selection mode and returns to idle.
func (c *Controller) ExitSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseSelecting {
		return ErrPhase
	}
	c.selection = nil
	c.setPhase(PhaseIdle)
	return nil
}

// ToggleSelection adds the wallpaper if absent and under the cap,
// removes it if present. Returns the resulting membership.
func (c *Controller) ToggleSelection(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, p := range c.selection {
		if p == path {
			c.selection = append(c.selection[:i], c.selection[i+1:]...)
			c.emitSelection()
			return false
		}
	}
	if len(c.selection) >= c.limit {
		return false
	}
	c.selection = append(c.selection, path)
	c.emitSelection()
	return true
}

// AddSelection adds the wallpaper if absent and under the cap. Returns
// false, with the selection unchanged, when at capacity or duplicate.
func (c *Controller) AddSelection(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.selection {
		if p == path {
			return false
		}
	}
	if len(c.selection) >= c.limit {
		return false
	}
	c.selection = append(c.selection, path)
	c.emitSelection()
	return true
}

// StartProcessing hands the selection to the queue and begins the run
// in the background. Valid only in the selecting phase.
func (c *Controller) StartProcessing(ctx context.Context, opts batch.Options) error {
	c.mu.Lock()
	if c.phase != PhaseSelecting {
		c.mu.Unlock()
		return ErrPhase
	}
	if len(c.selection) == 0 {
		c.mu.Unlock()
		return ErrEmptySelection
	}

	if err := c.queue.Reset(); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.queue.Add(c.selection); err != nil {
		c.mu.Unlock()
		return err
	}

	// Capture the edit-in-progress state so previews can be discarded
	// without losing it.
	snap := c.store.Snapshot("before batch preview")
	c.original = &snap
	c.originalWall = c.store.Wallpaper()
	c.results = nil
	c.previewIndex = -1
	c.setPhase(PhaseProcessing)
	count := len(c.selection)
	c.mu.Unlock()

	c.log.Info("starting batch run", zap.Int("items", count))
	go func() {
		if err := c.queue.Process(ctx, opts); err != nil {
			c.log.Error("batch run failed to start", zap.Error(err))
		}
	}()
	return nil
}

// Cancel requests cooperative cancellation of the running batch.
func (c *Controller) Cancel() {
	c.queue.Cancel()
}

// SetPreview points the comparison view at one result and writes its
// palette and wallpaper into the store silently, so the UI shows the
// candidate without creating an undo entry. Locked slots survive the
// preview. Valid only while comparing; failed items cannot be previewed.
func (c *Controller) SetPreview(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseComparing {
		return ErrPhase
	}
	if index < 0 || index >= len(c.results) {
		return errors.New("preview index out of range")
	}
	item := c.results[index]
	if item.Status != batch.StatusCompleted {
		return errors.New("cannot preview a failed item")
	}

	palette, err := color.ParsePalette(item.Colors)
	if err != nil {
		return err
	}
	merged := c.store.Palette().MergeLocked(palette, c.store.Locks())

	c.store.Silent(func(s *state.Store) {
		if err := s.SetPalette(merged.Slice()); err != nil {
			c.log.Warn("preview write rejected", zap.Error(err))
		}
		s.SetWallpaper(item.Path, nil)
	})

	c.previewIndex = index
	c.bus.Emit(events.Event{Type: events.PreviewChanged, Payload: index})
	return nil
}

// Apply commits the previewed result as a real mutation, with change
// notifications firing so it lands in the undo history, then returns
// to idle.
func (c *Controller) Apply() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseComparing {
		return ErrPhase
	}
	if c.previewIndex < 0 {
		return errors.New("nothing previewed")
	}
	item := c.results[c.previewIndex]

	palette, err := color.ParsePalette(item.Colors)
	if err != nil {
		return err
	}
	merged := c.store.Palette().MergeLocked(palette, c.store.Locks())

	if err := c.store.SetPalette(merged.Slice()); err != nil {
		return err
	}
	c.store.SetWallpaper(item.Path, nil)

	c.log.Info("batch result applied", zap.Int("index", c.previewIndex), zap.String("path", item.Path))
	c.finishLocked()
	return nil
}

// Discard abandons the comparison set, restores the pre-batch state and
// returns to idle.
func (c *Controller) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseComparing {
		return ErrPhase
	}
	if c.original != nil && c.previewIndex >= 0 {
		snap := *c.original
		wall := c.originalWall
		c.store.Silent(func(s *state.Store) {
			s.ApplySnapshot(snap)
			s.SetWallpaper(wall.Path, &wall)
		})
	}
	c.finishLocked()
	return nil
}

func (c *Controller) finishLocked() {
	c.results = nil
	c.previewIndex = -1
	c.original = nil
	c.originalWall = state.Wallpaper{}
	c.setPhase(PhaseIdle)
}

// onQueueEvent handles run termination from the queue.
func (c *Controller) onQueueEvent(ev events.Event) {
	switch ev.Type {
	case events.ProcessingCompleted:
		if c.pause > 0 {
			time.Sleep(c.pause)
		}
		c.mu.Lock()
		if c.phase == PhaseProcessing {
			c.results = c.queue.Results()
			c.setPhase(PhaseComparing)
		}
		c.mu.Unlock()

	case events.ProcessingCancelled:
		c.mu.Lock()
		if c.phase != PhaseProcessing {
			c.mu.Unlock()
			return
		}
		results := c.queue.Results()
		partial := false
		for _, item := range results {
			if item.Status == batch.StatusCompleted {
				partial = true
				break
			}
		}
		if partial {
			c.results = results
			c.setPhase(PhaseComparing)
		} else {
			c.results = nil
			c.original = nil
			c.setPhase(PhaseIdle)
		}
		c.mu.Unlock()
	}
}

// setPhase transitions and notifies. Callers hold c.mu.
func (c *Controller) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	c.log.Debug("phase transition", zap.String("from", string(c.phase)), zap.String("to", string(p)))
	c.phase = p
	if c.metrics != nil {
		c.metrics.SetWorkflowPhase(string(p))
	}
	c.bus.Emit(events.Event{Type: events.PhaseChanged, Payload: string(p)})
}

// emitSelection notifies the current selection count. Callers hold c.mu.
func (c *Controller) emitSelection() {
	c.bus.Emit(events.Event{Type: events.SelectionChanged, Payload: len(c.selection)})
}
