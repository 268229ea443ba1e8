// Package state implements the canonical theme store: the 16-color
// palette with its lock mask, derived color roles, wallpaper reference,
// adjustment sliders, per-application overrides and mode flags.
//
// The store is single-owner and lock-free. Change notifications are
// dispatched synchronously through the event bus on the mutating call;
// the Silent transaction suppresses them for write-backs from the
// component that originated a change. Validation failures (wrong palette
// length, malformed colors) are rejected locally and logged, never
// escalated.
package state
