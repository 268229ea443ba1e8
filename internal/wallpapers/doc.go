// Package wallpapers discovers image files for the selection grid. The
// scanner walks the configured directories concurrently, matches a
// glob pattern, and confirms each candidate by content sniffing.
package wallpapers
