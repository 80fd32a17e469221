// Package orchestrator runs generation passes over the dirty sections of a
// scene.
//
// # Passes
//
// A pass deep-copies the snapshot, captures the dirty set and runs one task
// per section, at most Config.Workers at a time, under a context that Abort
// cancels. Tasks do not cancel each other: a failing section is recorded and
// the rest still finish. Only one pass runs at a time; a second call while
// one is in flight returns ErrPassInFlight and changes nothing.
//
// # Outcomes
//
//   - complete: the block is stored and the dirty flag cleared, unless the
//     section was marked dirty again while the pass ran.
//   - error: the error is recorded next to the stale block; the flag stays.
//   - aborted: the abort was seen before or right after generation; neither
//     the registry nor the flag is touched.
//
// # Observers
//
// Status transitions are delivered to OnStatusUpdate callbacks and to
// Subscribe channels. Callbacks run on the task goroutines, so they must be
// safe for concurrent use; a panicking callback is logged and dropped.
package orchestrator
