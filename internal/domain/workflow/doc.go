// Package workflow drives the batch theming state machine: idle,
// selecting wallpapers, processing them through the extraction queue,
// and comparing results. It enforces the selection capacity, bridges
// queue results into the store as silent preview writes, and decides
// where cancellation lands (comparing when partial results exist,
// otherwise idle).
package workflow
