// Package goGuard provides a request-authorization pipeline for session-management
// operations: an ordered guard chain (rate limit, session resolution, identity load,
// role authorization, input validation) composed per route group, backed by
// Redis-backed session storage and fixed-window rate limiting.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goGuard is the public surface. It exposes [Engine], [Builder], [Config], guard
// factories, and value types (SessionInfo, GuardRequest, etc.). All internal
// coordination — flow orchestration, chain execution, rate limiting, audit
// dispatch — lives under internal/ and is never exported directly.
//
// # Guard ordering
//
// Authorization narrows progressively: the rate limiter runs before any
// store lookup, session resolution before identity or role checks, and input
// validation last, after authorization. An unauthenticated caller therefore
// always sees ErrUnauthenticated, never ErrForbidden or a validation error,
// and cannot probe for resource existence.
//
// # What this package must NOT do
//
//   - Issue or verify login credentials (authentication happens upstream;
//     goGuard only resolves already-issued session credentials).
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
package goGuard
