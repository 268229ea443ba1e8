package history

// DefaultLimit is the default maximum depth of the undo stack.
const DefaultLimit = 50

// Stack is an array-backed undo/redo stack over immutable snapshots.
// It knows nothing about what a snapshot contains.
//
// Pushing truncates any redo tail and evicts the oldest entry once the
// limit is exceeded. Undo and Redo hand the target snapshot to an apply
// callback while a restore guard is held: a Push issued from inside the
// callback is dropped. Applying a snapshot back onto the store re-enters
// the same notification path that normally records history; without the
// guard every undo would record itself as a new action and corrupt the
// stack.
//
// Not safe for concurrent use; the owner serializes access.
type Stack[T any] struct {
	entries   []T
	index     int // position of the current entry, -1 when empty
	limit     int
	restoring bool
}

// New creates a stack with the given depth limit (DefaultLimit if <= 0).
func New[T any](limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{index: -1, limit: limit}
}

// Push records a snapshot as the new current entry. No-op while a
// restore is in progress. Any redo tail is discarded; the oldest entry
// is evicted once the stack exceeds its limit.
func (s *Stack[T]) Push(snapshot T) {
	if s.restoring {
		return
	}

	// Truncate redo history.
	s.entries = s.entries[:s.index+1]
	s.entries = append(s.entries, snapshot)
	s.index++

	if len(s.entries) > s.limit {
		s.entries = s.entries[1:]
		s.index--
	}
}

// Undo steps back one entry and applies it via fn while the restore
// guard is held. Returns false without calling fn when already at the
// oldest entry.
func (s *Stack[T]) Undo(fn func(T)) bool {
	if !s.CanUndo() {
		return false
	}

	s.restoring = true
	s.index--
	fn(s.entries[s.index])
	s.restoring = false
	return true
}

// Redo steps forward one entry, symmetric to Undo.
func (s *Stack[T]) Redo(fn func(T)) bool {
	if !s.CanRedo() {
		return false
	}

	s.restoring = true
	s.index++
	fn(s.entries[s.index])
	s.restoring = false
	return true
}

// CanUndo reports whether an older entry exists.
func (s *Stack[T]) CanUndo() bool {
	return s.index > 0
}

// CanRedo reports whether a newer entry exists.
func (s *Stack[T]) CanRedo() bool {
	return s.index < len(s.entries)-1
}

// Restoring reports whether an undo/redo apply is in progress.
func (s *Stack[T]) Restoring() bool {
	return s.restoring
}

// Len returns the number of stored snapshots.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}

// Index returns the position of the current entry, -1 when empty.
func (s *Stack[T]) Index() int {
	return s.index
}

// Clear empties the stack.
func (s *Stack[T]) Clear() {
	s.entries = nil
	s.index = -1
}
