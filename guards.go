package goGuard

import (
	"context"
	"errors"
	"fmt"

	internalaudit "github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/guardchain"
	"github.com/MrEthical07/goGuard/internal/rate"
)

// RateLimitGuard returns the first guard of every chain: a fixed-window
// request budget for (scope, caller identity). The identity is the resolved
// user when a later run reuses the chain after authentication, otherwise the
// client IP. Rejections surface [ErrRateLimitExceeded].
func (e *Engine) RateLimitGuard(scope string) Guard {
	return GuardFunc{
		GuardName: "rate-limit",
		Fn: func(ctx context.Context, req GuardRequest) (GuardRequest, error) {
			identity := req.UserID
			if identity == "" {
				identity = req.ClientIP
			}
			if identity == "" {
				identity = clientIPFromContext(ctx)
			}
			if identity == "" {
				identity = "anonymous"
			}

			if err := e.rateLimiter.Allow(ctx, scope, identity); err != nil {
				if errors.Is(err, rate.ErrRateLimited) {
					e.metricInc(MetricRateLimitHit)
					e.auditReject(ctx, internalaudit.EventRateLimited, req, err)
					return req, ErrRateLimitExceeded
				}
				return req, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
			return req, nil
		},
	}
}

// SessionGuard resolves the transport credential into a session context. It
// enriches the request with the session and owning user identifiers; every
// downstream guard and operation consumes them. Absent, expired, and revoked
// credentials all reject with [ErrUnauthenticated].
func (e *Engine) SessionGuard() Guard {
	return GuardFunc{
		GuardName: "has-session",
		Fn: func(ctx context.Context, req GuardRequest) (GuardRequest, error) {
			sess, err := e.resolveCredential(ctx, req.Credential)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					e.metricInc(MetricUnauthenticated)
					e.auditReject(ctx, internalaudit.EventUnauthenticated, req, err)
				}
				return req, err
			}

			req.SessionID = sess.SessionID
			req.UserID = sess.UserID
			return req, nil
		},
	}
}

// IdentityGuard loads the full user entity for the session's owning user.
// Used on the self-service branch, where the terminal operation needs the
// resolved identity rather than just its ID.
func (e *Engine) IdentityGuard() Guard {
	return GuardFunc{
		GuardName: "get-me",
		Fn: func(ctx context.Context, req GuardRequest) (GuardRequest, error) {
			if req.UserID == "" {
				return req, ErrUnauthenticated
			}

			record, err := e.userProvider.GetUserByID(ctx, req.UserID)
			if err != nil {
				return req, fmt.Errorf("%w: %v", ErrUserNotFound, err)
			}

			req.User = &guardchain.User{ID: record.UserID, Roles: record.Roles}
			return req, nil
		},
	}
}

// RequireRole returns a guard enforcing exact membership of role in the
// caller's role set. Role requirements are data: the same factory serves any
// role name. The guard loads the user lazily when no identity stage ran
// before it, and it must never run before authentication — an
// unauthenticated request rejects with [ErrUnauthenticated], not
// [ErrForbidden], so role-gated routes leak nothing to anonymous callers.
func (e *Engine) RequireRole(role string) Guard {
	return GuardFunc{
		GuardName: "has-role:" + role,
		Fn: func(ctx context.Context, req GuardRequest) (GuardRequest, error) {
			if req.UserID == "" {
				return req, ErrUnauthenticated
			}

			user := req.User
			if user == nil {
				record, err := e.userProvider.GetUserByID(ctx, req.UserID)
				if err != nil {
					return req, fmt.Errorf("%w: %v", ErrUserNotFound, err)
				}
				u := guardchain.User{ID: record.UserID, Roles: record.Roles}
				user = &u
				req.User = user
			}

			for _, r := range user.Roles {
				if r == role {
					return req, nil
				}
			}

			e.metricInc(MetricForbidden)
			e.auditReject(ctx, internalaudit.EventForbidden, req, ErrForbidden)
			return req, ErrForbidden
		},
	}
}

// ValidationGuard checks the request's path parameters against schema. It
// runs after authorization, so authorization failures win over malformed
// input, and a malformed id is rejected before any store lookup for it.
func (e *Engine) ValidationGuard(schema Schema) Guard {
	return GuardFunc{
		GuardName: "validate",
		Fn: func(ctx context.Context, req GuardRequest) (GuardRequest, error) {
			parsed, err := schema.Validate(req.Params)
			if err != nil {
				e.metricInc(MetricValidationFailed)
				e.auditReject(ctx, internalaudit.EventValidationFailed, req, err)
				return req, err
			}

			req.Input = parsed
			return req, nil
		},
	}
}

func (e *Engine) auditReject(ctx context.Context, eventType string, req GuardRequest, cause error) {
	if e == nil || e.audit == nil {
		return
	}

	ip := req.ClientIP
	if ip == "" {
		ip = clientIPFromContext(ctx)
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp: timeNow(),
		EventType: eventType,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		IP:        ip,
		Success:   false,
		Error:     cause.Error(),
	})
}
