// Package session provides Redis-backed session persistence and compact binary session
// encoding for the guard-chain hot path.
//
// # Binary encoding
//
// Sessions are stored in Redis as a compact binary blob with a leading schema
// version byte. The revoked flag and last-seen timestamp sit at fixed offsets
// so the store's Lua scripts can flip or refresh them in place without a full
// decode round-trip.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Session] model. It does NOT
// resolve transport credentials, evaluate roles, or run guards — those
// responsibilities belong to the Engine.
//
// # What this package must NOT do
//
//   - Import goGuard or httpapi (no upward imports).
//   - Perform application-level authorization decisions.
//   - Store plaintext credentials; the token index is keyed by SHA-256.
package session
