package history

import (
	"sync"

	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
)

// mutationEvents are the store notifications that represent one
// undoable user action each. Derived notifications (color roles) and
// the reset notification stay out; silent writes never reach the bus
// at all.
var mutationEvents = []events.Type{
	events.PaletteChanged,
	events.WallpaperChanged,
	events.AdjustmentsChanged,
	events.LightModeChanged,
	events.AppOverridesChanged,
	events.NeovimThemeChanged,
}

// Recorder snapshots the store on every mutating user action and
// replays snapshots for undo/redo.
//
// Applying a snapshot fires the store's notifications back into
// onMutation on the same goroutine, so the restoring flag is checked
// there and the mutex is never held across an apply. Pushes observed
// during a restore are dropped; navigating history never records
// itself.
type Recorder struct {
	log     *logging.Logger
	stack   *Stack[state.Snapshot]
	store   *state.Store
	metrics *monitoring.Metrics

	mu        sync.Mutex
	suspended bool
	restoring bool
	unsub     func()
}

// NewRecorder wires a recorder onto the bus and seeds the stack with
// the store's current state, so the first real action is undoable.
func NewRecorder(store *state.Store, bus *events.Bus, limit int, log *logging.Logger) *Recorder {
	r := &Recorder{
		log:   log.Component("history"),
		stack: New[state.Snapshot](limit),
		store: store,
	}
	r.stack.Push(store.Snapshot("initial"))
	r.unsub = bus.Subscribe(r.onMutation, mutationEvents...)
	bus.Subscribe(r.onReset, events.StateReset)
	return r
}

// WithMetrics adds metrics tracking to the recorder.
func (r *Recorder) WithMetrics(m *monitoring.Metrics) *Recorder {
	r.metrics = m
	return r
}

// Close detaches the recorder from the event bus.
func (r *Recorder) Close() {
	if r.unsub != nil {
		r.unsub()
	}
}

// Undo steps back one snapshot and applies it to the store. Returns
// false at the oldest entry.
func (r *Recorder) Undo() bool {
	return r.navigate(func() bool {
		return r.stack.Undo(func(s state.Snapshot) {
			r.store.ApplySnapshot(s)
		})
	})
}

// Redo steps forward one snapshot and applies it to the store. Returns
// false at the newest entry.
func (r *Recorder) Redo() bool {
	return r.navigate(func() bool {
		return r.stack.Redo(func(s state.Snapshot) {
			r.store.ApplySnapshot(s)
		})
	})
}

// navigate runs one undo/redo step with the restoring flag raised, so
// the notifications the apply fires are not recorded. The mutex is
// released before the step runs; onMutation re-enters on the same
// goroutine.
func (r *Recorder) navigate(step func() bool) bool {
	r.mu.Lock()
	if r.restoring {
		r.mu.Unlock()
		return false
	}
	r.restoring = true
	r.mu.Unlock()

	ok := step()

	r.mu.Lock()
	r.restoring = false
	r.mu.Unlock()

	r.observeDepth()
	return ok
}

// CanUndo reports whether an older snapshot exists.
func (r *Recorder) CanUndo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack.CanUndo()
}

// CanRedo reports whether a newer snapshot exists.
func (r *Recorder) CanRedo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack.CanRedo()
}

// Depth returns the number of recorded snapshots.
func (r *Recorder) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack.Len()
}

// Batch runs fn with event-driven recording suspended, then records
// the result as a single action. Used for compound mutations such as
// loading a saved theme, which fire the full notification set but must
// cost one undo step.
func (r *Recorder) Batch(label string, fn func()) {
	r.mu.Lock()
	r.suspended = true
	r.mu.Unlock()

	fn()

	r.mu.Lock()
	r.suspended = false
	r.stack.Push(r.store.Snapshot(label))
	r.mu.Unlock()

	r.observeDepth()
}

func (r *Recorder) onMutation(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.suspended || r.restoring {
		return
	}
	r.stack.Push(r.store.Snapshot(string(ev.Type)))
	if r.metrics != nil {
		r.metrics.SetUndoDepth(r.stack.Len())
	}
}

// onReset drops all history and re-seeds from the fresh defaults.
func (r *Recorder) onReset(events.Event) {
	r.mu.Lock()
	r.stack.Clear()
	r.stack.Push(r.store.Snapshot("initial"))
	r.mu.Unlock()

	r.observeDepth()
	r.log.Debug("history cleared on state reset")
}

func (r *Recorder) observeDepth() {
	if r.metrics != nil {
		r.metrics.SetUndoDepth(r.Depth())
	}
}
