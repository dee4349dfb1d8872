package goGuard

import (
	"context"
	"time"

	internalaudit "github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/flows"
	"github.com/MrEthical07/goGuard/internal/rate"
	"github.com/MrEthical07/goGuard/session"
)

// Engine defines a public type used by goGuard APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	sessionStore *session.Store
	rateLimiter  *rate.Limiter
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
	userProvider UserProvider

	sessionDeps flows.SessionDeps

	selfListChain    *Chain
	selfDeleteChain  *Chain
	adminListChain   *Chain
	adminDeleteChain *Chain
}

func timeNow() time.Time { return time.Now() }

// Close drains and stops the audit dispatcher. The engine must not be used
// after Close returns.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped under
// backpressure since the engine was built.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time deep copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// SelfListChain is the composed pipeline for GET /me:
// rate-limit → has-session → get-me → list own sessions.
func (e *Engine) SelfListChain() *Chain { return e.selfListChain }

// SelfDeleteChain is the composed pipeline for DELETE /me/:id:
// rate-limit → has-session → validate(id) → delete own session.
func (e *Engine) SelfDeleteChain() *Chain { return e.selfDeleteChain }

// AdminListChain is the composed pipeline for GET /:
// rate-limit → has-session → has-role:admin → list all sessions.
func (e *Engine) AdminListChain() *Chain { return e.adminListChain }

// AdminDeleteChain is the composed pipeline for DELETE /:id:
// rate-limit → has-session → has-role:admin → validate(id) → delete session.
func (e *Engine) AdminDeleteChain() *Chain { return e.adminDeleteChain }

// buildChains composes the four route-group pipelines once, at Build time.
// Ordering is part of the contract: authentication precedes role checks,
// and validation runs last so authorization failures win over malformed
// input.
func (e *Engine) buildChains() {
	scope := e.config.RateLimit.Scope

	e.selfListChain = NewChain("sessions.self.list",
		[]Guard{e.RateLimitGuard(scope), e.SessionGuard(), e.IdentityGuard()},
		func(ctx context.Context, req GuardRequest) (any, error) {
			return e.ListOwnSessions(ctx, req.User.ID)
		},
	)

	e.selfDeleteChain = NewChain("sessions.self.delete",
		[]Guard{e.RateLimitGuard(scope), e.SessionGuard(), e.ValidationGuard(DeleteSessionSchema)},
		func(ctx context.Context, req GuardRequest) (any, error) {
			return nil, e.DeleteOwnSession(ctx, req.UserID, req.Input["id"])
		},
	)

	e.adminListChain = NewChain("sessions.admin.list",
		[]Guard{e.RateLimitGuard(scope), e.SessionGuard(), e.RequireRole("admin")},
		func(ctx context.Context, req GuardRequest) (any, error) {
			return e.ListAllSessions(ctx)
		},
	)

	e.adminDeleteChain = NewChain("sessions.admin.delete",
		[]Guard{e.RateLimitGuard(scope), e.SessionGuard(), e.RequireRole("admin"), e.ValidationGuard(DeleteSessionSchema)},
		func(ctx context.Context, req GuardRequest) (any, error) {
			return nil, e.DeleteAnySession(ctx, req.UserID, req.Input["id"])
		},
	)
}
