// Package audit provides async dispatch of guard-decision and revocation events to
// pluggable sinks.
//
// # Delivery model
//
// The [Dispatcher] forwards events through a buffered channel on a single
// goroutine. Emit never blocks the request path when DropIfFull is set; drops
// are counted and surfaced via Dropped. Close drains the buffer before
// returning.
//
// # What this package must NOT do
//
//   - Make guard decisions or mutate session state.
//   - Export types that bypass the root goGuard aliases.
package audit
