package goGuard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goGuard/internal"
	internalaudit "github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/flows"
	"github.com/MrEthical07/goGuard/session"
)

// IssueSession creates a session record for userID and returns its transport
// credential. This is the integration point for the host's login flow:
// goGuard does not verify credentials, it only records the session the host
// decided to grant.
func (e *Engine) IssueSession(ctx context.Context, userID string) (*IssuedSession, error) {
	if e == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}
	if userID == "" {
		return nil, errors.New("userID required")
	}

	token, err := internal.NewSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	sess := &session.Session{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if err := e.sessionStore.Save(ctx, sess, token, e.config.Session.TTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	credential, err := e.mintCredential(sess.SessionID, token)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricSessionIssued)
	e.auditSession(ctx, internalaudit.EventSessionIssued, sess.UserID, sess.SessionID, true, "")

	return &IssuedSession{
		SessionInfo: toSessionInfo(sess),
		Token:       credential,
	}, nil
}

// ListOwnSessions returns userID's sessions, ordered by creation time and
// strictly scoped to that user. Zero sessions yields an empty slice, not an
// error.
func (e *Engine) ListOwnSessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	if e == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}

	sessions, err := flows.RunListOwn(ctx, userID, e.sessionDeps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricListSelf)
	return toSessionInfos(sessions), nil
}

// ListAllSessions returns every session in the system with no ownership
// filter. Admin scope; callers must have passed the role guard.
func (e *Engine) ListAllSessions(ctx context.Context) ([]SessionInfo, error) {
	if e == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}

	sessions, err := flows.RunListAll(ctx, e.sessionDeps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricListAll)
	return toSessionInfos(sessions), nil
}

// DeleteOwnSession revokes one of userID's own sessions. Ownership is
// re-checked against the stored record: a session owned by someone else is
// [ErrForbidden], a missing or already-revoked one is [ErrSessionNotFound].
func (e *Engine) DeleteOwnSession(ctx context.Context, userID, sessionID string) error {
	if e == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	err := flows.RunDeleteOwn(ctx, userID, sessionID, e.sessionDeps)
	switch {
	case err == nil:
		e.metricInc(MetricSessionRevoked)
		e.auditSession(ctx, internalaudit.EventSessionRevoked, userID, sessionID, true, "")
		return nil
	case errors.Is(err, ErrSessionNotFound):
		e.metricInc(MetricRevokeNotFound)
		return err
	case errors.Is(err, ErrForbidden):
		e.metricInc(MetricForbidden)
		e.auditSession(ctx, internalaudit.EventForbidden, userID, sessionID, false, err.Error())
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// DeleteAnySession revokes any session by ID. Admin scope; no ownership
// check. Repeat deletes report [ErrSessionNotFound] rather than idempotent
// success. actorID identifies the administrator for the audit trail.
func (e *Engine) DeleteAnySession(ctx context.Context, actorID, sessionID string) error {
	if e == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	err := flows.RunDeleteAny(ctx, sessionID, e.sessionDeps)
	switch {
	case err == nil:
		e.metricInc(MetricSessionRevokedAdmin)
		e.auditSession(ctx, internalaudit.EventSessionRevoked, actorID, sessionID, true, "")
		return nil
	case errors.Is(err, ErrSessionNotFound):
		e.metricInc(MetricRevokeNotFound)
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// DeleteAllOwnSessions revokes every session belonging to userID and
// returns how many were transitioned. Not routed by the HTTP surface;
// exposed for host logout-everywhere flows.
func (e *Engine) DeleteAllOwnSessions(ctx context.Context, userID string) (int, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}

	revoked, err := flows.RunDeleteAllOwn(ctx, userID, e.sessionDeps)
	if err != nil {
		return revoked, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.auditSession(ctx, internalaudit.EventRevokeAll, userID, "", true, "")
	return revoked, nil
}

// ActiveSessionCount returns the tracked count of non-revoked sessions.
func (e *Engine) ActiveSessionCount(ctx context.Context) (int, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}
	return e.sessionStore.ActiveCount(ctx)
}

func (e *Engine) auditSession(ctx context.Context, eventType, userID, sessionID string, success bool, errMsg string) {
	if e == nil || e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp: timeNow(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Error:     errMsg,
	})
}

func toSessionInfo(s *session.Session) SessionInfo {
	return SessionInfo{
		SessionID:  s.SessionID,
		UserID:     s.UserID,
		CreatedAt:  time.Unix(s.CreatedAt, 0).UTC(),
		LastSeenAt: time.Unix(s.LastSeenAt, 0).UTC(),
		Revoked:    s.Revoked,
	}
}

func toSessionInfos(sessions []*session.Session) []SessionInfo {
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, toSessionInfo(s))
	}
	return infos
}
