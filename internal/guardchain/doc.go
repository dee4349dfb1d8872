// Package guardchain implements the ordered guard pipeline: an immutable sequence of
// checks composed at route-registration time, each of which can short-circuit the
// request with a terminal rejection.
//
// # Execution model
//
// A [Chain] runs its guards strictly sequentially. Guard i+1 sees exactly the
// [Request] value guard i returned, so resolved state (session, user, parsed
// input) is threaded explicitly rather than attached to a shared request
// object. No guard is ever skipped or reordered at runtime.
//
// # Architecture boundaries
//
// This package is transport-free. Guards and chains are plain values testable
// without an HTTP layer; the httpapi package adapts them to routes.
//
// # What this package must NOT do
//
//   - Import goGuard, session, or httpapi (no upward imports).
//   - Perform I/O itself — guards own their dependencies.
//   - Retry or recover a rejected guard.
package guardchain
