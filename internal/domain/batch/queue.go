package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
	"github.com/hueweave/hueweave/internal/shared/color"
)

var (
	// ErrAlreadyRunning reports a Process call while a run is in flight.
	ErrAlreadyRunning = errors.New("batch queue is already processing")
	// ErrRunning reports queue mutation while a run is in flight.
	ErrRunning = errors.New("batch queue cannot be modified while processing")
)

// Mode selects the extractor's color strategy.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeVibrant Mode = "vibrant"
	ModeMuted   Mode = "muted"
)

// Status is the lifecycle state of a batch item. Transitions are
// strictly monotonic: pending, processing, then exactly one of
// completed or failed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Item is one unit of work: a wallpaper to extract a palette from.
type Item struct {
	Index  int      `json:"index"`
	Path   string   `json:"path"`
	Status Status   `json:"status"`
	Colors []string `json:"colors,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// ItemEvent is the payload of item lifecycle notifications.
type ItemEvent struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

// Extractor is the external palette extraction collaborator. It is
// opaque to the queue; typically a subprocess call.
type Extractor interface {
	Extract(ctx context.Context, wallpaperPath string, mode Mode, light bool) (color.Palette, error)
}

// Options configures one processing run.
type Options struct {
	Mode  Mode
	Light bool
}

// Queue runs palette extraction over a list of wallpapers, strictly one
// item at a time in index order. One heavyweight extraction subprocess
// at a time is a deliberate admission-control policy.
//
// Cancellation is cooperative: the context is checked only at the
// boundary between items, so an item already dispatched runs to
// completion and no later item starts.
type Queue struct {
	log       *logging.Logger
	bus       *events.Bus
	extractor Extractor
	metrics   *monitoring.Metrics

	mu      sync.Mutex
	items   []Item
	running bool
	cancel  context.CancelFunc
}

// NewQueue creates an empty queue around an extraction collaborator.
func NewQueue(extractor Extractor, bus *events.Bus, log *logging.Logger) *Queue {
	return &Queue{
		log:       log.Component("batch"),
		bus:       bus,
		extractor: extractor,
	}
}

// WithMetrics adds metrics tracking to the queue.
func (q *Queue) WithMetrics(m *monitoring.Metrics) *Queue {
	q.metrics = m
	return q
}

// Add appends wallpapers to the queue. Rejected while processing.
func (q *Queue) Add(paths []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return ErrRunning
	}
	for _, p := range paths {
		q.items = append(q.items, Item{Index: len(q.items), Path: p, Status: StatusPending})
	}
	return nil
}

// Reset clears all items and results. Rejected while processing.
func (q *Queue) Reset() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return ErrRunning
	}
	q.items = nil
	return nil
}

// Processing reports whether a run is in flight.
func (q *Queue) Processing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Results returns a copy of the current item list, including partial
// results after cancellation.
func (q *Queue) Results() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Cancel requests cooperative cancellation of the current run. The item
// in flight still finishes and emits its terminal event; no item after
// the flag is observed is started.
func (q *Queue) Cancel() {
	q.mu.Lock()
	cancel := q.cancel
	q.mu.Unlock()

	if cancel != nil {
		q.log.Info("cancellation requested")
		cancel()
	}
}

// Process runs extraction over every queued item in index order,
// emitting item-started and exactly one terminal event per item, then
// exactly one of processing-completed or processing-cancelled. A failed
// item never halts the run. Blocks until the run ends; callers that
// need it in the background start their own goroutine.
func (q *Queue) Process(ctx context.Context, opts Options) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	q.running = true
	q.cancel = cancel
	count := len(q.items)
	q.mu.Unlock()

	defer func() {
		cancel()
		q.mu.Lock()
		q.running = false
		q.cancel = nil
		q.mu.Unlock()
	}()

	runID := uuid.New().String()
	start := time.Now()
	q.log.Info("processing queue",
		zap.String("run_id", runID),
		zap.Int("items", count),
		zap.String("mode", string(opts.Mode)))

	cancelled := false
	for i := 0; i < count; i++ {
		// Cooperative cancellation, checked only between items.
		if runCtx.Err() != nil {
			cancelled = true
			break
		}

		q.setStatus(i, StatusProcessing, nil, "")
		q.bus.Emit(events.Event{Type: events.ItemStarted, Payload: ItemEvent{Index: i, Path: q.path(i)}})

		// No timeout here: a hung extractor stalls the queue. Known gap,
		// kept until a product decision on timeout policy.
		palette, err := q.extractor.Extract(runCtx, q.path(i), opts.Mode, opts.Light)
		if err != nil {
			q.setStatus(i, StatusFailed, nil, err.Error())
			q.recordItem(StatusFailed)
			q.log.Warn("item failed", zap.Int("index", i), zap.String("path", q.path(i)), zap.Error(err))
			q.bus.Emit(events.Event{Type: events.ItemFailed, Payload: ItemEvent{Index: i, Path: q.path(i), Error: err.Error()}})
			continue
		}

		q.setStatus(i, StatusCompleted, &palette, "")
		q.recordItem(StatusCompleted)
		q.bus.Emit(events.Event{Type: events.ItemCompleted, Payload: ItemEvent{Index: i, Path: q.path(i)}})
	}

	if cancelled {
		q.log.Info("processing cancelled", zap.String("run_id", runID))
		q.bus.Emit(events.Event{Type: events.ProcessingCancelled})
		return nil
	}

	if q.metrics != nil {
		q.metrics.ObserveBatchRun(time.Since(start))
	}
	q.log.Info("processing completed",
		zap.String("run_id", runID),
		zap.Duration("elapsed", time.Since(start)))
	q.bus.Emit(events.Event{Type: events.ProcessingCompleted, Payload: q.Results()})
	return nil
}

func (q *Queue) path(i int) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items[i].Path
}

func (q *Queue) setStatus(i int, status Status, palette *color.Palette, errMsg string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items[i].Status = status
	q.items[i].Error = errMsg
	if palette != nil {
		q.items[i].Colors = palette.Strings()
	}
}

func (q *Queue) recordItem(status Status) {
	if q.metrics != nil {
		q.metrics.RecordBatchItem(string(status))
	}
}
