// Package batch runs palette extraction over a set of wallpapers,
// strictly one item at a time. Each item emits a started notification
// and exactly one terminal notification; the run itself ends with
// exactly one of processing-completed or processing-cancelled.
// Cancellation is cooperative and observed only between items, so the
// item in flight always runs to completion and its partial results are
// retained.
package batch
