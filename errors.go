package goGuard

import "errors"

var (
	// ErrRateLimitExceeded is an exported constant or variable used by the guard engine.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrUnauthenticated is an exported constant or variable used by the guard engine.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is an exported constant or variable used by the guard engine.
	ErrForbidden = errors.New("forbidden")
	// ErrValidationFailed is an exported constant or variable used by the guard engine.
	ErrValidationFailed = errors.New("validation failed")
	// ErrSessionNotFound is an exported constant or variable used by the guard engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUserNotFound is an exported constant or variable used by the guard engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable is an exported constant or variable used by the guard engine.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the guard engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
