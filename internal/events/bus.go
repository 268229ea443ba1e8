package events

import "sync"

// Type identifies a notification kind on the wire and in process.
type Type string

// Store notifications.
const (
	PaletteChanged      Type = "palette-changed"
	WallpaperChanged    Type = "wallpaper-changed"
	AdjustmentsChanged  Type = "adjustments-changed"
	LightModeChanged    Type = "light-mode-changed"
	ColorRolesChanged   Type = "color-roles-changed"
	AppOverridesChanged Type = "app-overrides-changed"
	NeovimThemeChanged  Type = "neovim-theme-changed"
	StateReset          Type = "state-reset"
)

// Batch pipeline and workflow notifications.
const (
	ItemStarted         Type = "item-started"
	ItemCompleted       Type = "item-completed"
	ItemFailed          Type = "item-failed"
	ProcessingCompleted Type = "processing-completed"
	ProcessingCancelled Type = "processing-cancelled"
	SelectionChanged    Type = "selection-changed"
	PhaseChanged        Type = "phase-changed"
	PreviewChanged      Type = "preview-changed"
)

// Event is a typed notification with an optional payload.
type Event struct {
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Handler receives events synchronously on the emitter's goroutine.
type Handler func(Event)

// Bus is a synchronous, ordered publish/subscribe hub. Dispatch happens
// inline on the caller's goroutine in subscription order; the bus starts
// no goroutines of its own. The mutex only guards the subscriber list,
// which may be modified from transport goroutines.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id      int
	types   map[Type]bool // nil means all types
	handler Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for the given types (all types when none
// are given) and returns an unsubscribe function.
func (b *Bus) Subscribe(handler Handler, types ...Type) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscription{id: b.nextID, handler: handler}
	if len(types) > 0 {
		sub.types = make(map[Type]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	b.subs = append(b.subs, sub)

	id := sub.id
	return func() { b.unsubscribe(id) }
}

// Emit dispatches the event to every matching subscriber, in
// subscription order, before returning.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.types == nil || sub.types[ev.Type] {
			sub.handler(ev)
		}
	}
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of registered handlers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
