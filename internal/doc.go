// Package internal contains helper utilities that are intentionally private to goGuard,
// including secure credential-token generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - flows — pure-function orchestrators for the session operations
//   - guardchain — the ordered guard pipeline composer
//   - rate — the Redis-backed fixed-window rate limit primitive
//
// # What this package must NOT do
//
//   - Export types that appear in the public goGuard API.
//   - Be imported by any package outside the goGuard module.
package internal
