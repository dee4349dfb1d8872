// Package rate provides the Redis-backed fixed-window counter primitive behind the
// guard chain's rate-limit stage.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. The request
// that lands on an empty key starts the new window, so the boundary-crossing
// request is counted against the fresh window, not the stale one. Key prefix:
//   - grl: — per scope+identity request budget
//
// # What this package must NOT do
//
//   - Implement per-route policy (scope labels are opaque strings here).
//   - Be imported outside the goGuard module.
package rate
