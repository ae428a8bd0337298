// Package progress turns sync events into the progress snapshot observers
// render from.
//
// [Apply] is the pure transition function. [Reducer] wraps it with a bounded
// FIFO queue and a single drain goroutine, so events from one network read
// are applied strictly one after another. The optional pacing delay only
// pauses the drain loop between two events; it never changes the resulting
// snapshot.
package progress
