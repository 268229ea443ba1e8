// Package http exposes the theming core over REST: the current state
// and its setters, undo/redo, the batch workflow, the wallpaper
// library and the saved-theme library. Handlers translate transport
// concerns only; all semantics live in the domain packages.
package http
