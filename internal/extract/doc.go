// Package extract bridges the theming core to the external palette
// extraction binary. The runner shells out per wallpaper and parses the
// 16-color output; the fetcher caches remote wallpapers locally so the
// binary always receives a file path.
//
// Extraction runs carry no per-item deadline. Cancelling the batch run
// kills the subprocess through its context; absent that, a hung
// extractor stalls the queue.
package extract
