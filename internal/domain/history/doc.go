// Package history implements the undo/redo snapshot stack.
//
// The stack is generic and store-agnostic: it holds opaque snapshot
// values and only manages ordering, capacity and the restore re-entrancy
// guard. The composition root decides what a snapshot captures and how
// it is applied back.
package history
