package goGuard

import (
	"errors"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/flows"
	"github.com/MrEthical07/goGuard/internal/rate"
	"github.com/MrEthical07/goGuard/session"
)

// Builder defines a public type used by goGuard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userProvider UserProvider
	auditSink    AuditSink

	built bool
}

// New returns a [Builder] seeded with [DefaultConfig]. Construction is
// allocation-only; no I/O happens until [Builder.Build].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration with a clone of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the session store and the rate
// limiter. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the user lookup used by the identity and role
// guards. Required.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the sink receiving audit events. Optional; without it
// events go to a [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the resolve-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and dependencies, wires the stores and
// guards, and composes the four route-group chains. A builder can be used
// once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		sessionStore: session.NewStore(b.redis, cfg.Session.RedisPrefix),
		rateLimiter: rate.New(b.redis, rate.Config{
			Threshold: cfg.RateLimit.Threshold,
			Window:    cfg.RateLimit.Window,
		}),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
		userProvider: b.userProvider,
	}

	engine.sessionDeps = flows.SessionDeps{
		Store:               engine.sessionStore,
		IncludeRevokedSelf:  cfg.Listing.SelfIncludesRevoked,
		IncludeRevokedAdmin: cfg.Listing.AdminIncludesRevoked,
		NotFound:            ErrSessionNotFound,
		Forbidden:           ErrForbidden,
		IsMissing:           isMissingRecord,
	}

	engine.buildChains()

	b.built = true
	return engine, nil
}

func isMissingRecord(err error) bool {
	return errors.Is(err, redis.Nil)
}
