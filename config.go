package goGuard

import (
	"errors"
	"time"
)

// Config defines a public type used by goGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	RateLimit RateLimitConfig
	Session   SessionConfig
	Resolver  ResolverConfig
	Listing   ListingConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by goGuard APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	// Scope labels this route group's budget so it stays separate from
	// other groups sharing the same limiter backend.
	Scope     string
	Threshold int
	Window    time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goGuard APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	// TTL bounds a session's lifetime in Redis. Revoked sessions keep
	// their remaining TTL so admin listings can still show them.
	TTL time.Duration
	// TouchOnResolve refreshes LastSeenAt on every successful resolution.
	TouchOnResolve bool
}

/*
====================================
RESOLVER CONFIG
====================================
*/

// CredentialMode selects how the transport credential maps to a session.
type CredentialMode int

const (
	// CredentialOpaque resolves the raw token through the hashed token index.
	CredentialOpaque CredentialMode = iota
	// CredentialJWT verifies an HS256-signed token carrying the session ID
	// in its "sid" claim, then loads the session by ID.
	CredentialJWT
)

// ResolverConfig defines a public type used by goGuard APIs.
//
// ResolverConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResolverConfig struct {
	Mode CredentialMode
	// HMACKey signs and verifies CredentialJWT tokens. Required in that
	// mode, ignored otherwise.
	HMACKey []byte
}

/*
====================================
LISTING CONFIG
====================================
*/

// ListingConfig controls whether listings include already-revoked sessions.
// Defaults: self-service listings hide them, the admin listing shows them
// (with the revoked flag) until the record's TTL expires.
type ListingConfig struct {
	SelfIncludesRevoked  bool
	AdminIncludesRevoked bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goGuard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goGuard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: 100 requests per
// 15-minute window under the "sessions" scope, 30-day session TTL, opaque
// credentials, audit and metrics enabled.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		RateLimit: RateLimitConfig{
			Scope:     "sessions",
			Threshold: 100,
			Window:    15 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix:    "gs",
			TTL:            30 * 24 * time.Hour,
			TouchOnResolve: true,
		},
		Resolver: ResolverConfig{
			Mode: CredentialOpaque,
		},
		Listing: ListingConfig{
			SelfIncludesRevoked:  false,
			AdminIncludesRevoked: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Resolver.HMACKey = cloneBytes(cfg.Resolver.HMACKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate checks the configuration for internally inconsistent or unusable
// values. Build calls it; callers holding a hand-built Config may call it
// directly.
func (c *Config) Validate() error {
	if c.RateLimit.Scope == "" {
		return errors.New("rate limit scope required")
	}
	if c.RateLimit.Threshold <= 0 {
		return errors.New("rate limit threshold must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Resolver.Mode != CredentialOpaque && c.Resolver.Mode != CredentialJWT {
		return errors.New("invalid credential mode")
	}
	if c.Resolver.Mode == CredentialJWT && len(c.Resolver.HMACKey) < 32 {
		return errors.New("CredentialJWT requires an HMAC key of at least 32 bytes")
	}
	return nil
}
