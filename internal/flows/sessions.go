package flows

import (
	"context"

	"github.com/MrEthical07/goGuard/session"
)

// SessionStore is the store surface the session flows depend on.
type SessionStore interface {
	GetReadOnly(ctx context.Context, sessionID string) (*session.Session, error)
	Revoke(ctx context.Context, sessionID string) (session.RevokeStatus, error)
	RevokeAllForUser(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string, includeRevoked bool) ([]*session.Session, error)
	ListAll(ctx context.Context, includeRevoked bool) ([]*session.Session, error)
}

// SessionDeps captures session operation dependencies. NotFound and
// Forbidden are the caller's sentinel errors so flows stay free of root
// imports; IsMissing classifies store lookup errors that mean "no such
// record" (redis.Nil in production).
type SessionDeps struct {
	Store SessionStore

	IncludeRevokedSelf  bool
	IncludeRevokedAdmin bool

	NotFound  error
	Forbidden error
	IsMissing func(error) bool
}

// RunListOwn lists the caller's sessions, strictly scoped to userID. An
// empty population returns an empty slice, not an error.
func RunListOwn(ctx context.Context, userID string, deps SessionDeps) ([]*session.Session, error) {
	return deps.Store.ListByUser(ctx, userID, deps.IncludeRevokedSelf)
}

// RunListAll lists every session in the system with no ownership filter.
func RunListAll(ctx context.Context, deps SessionDeps) ([]*session.Session, error) {
	return deps.Store.ListAll(ctx, deps.IncludeRevokedAdmin)
}

// RunDeleteOwn revokes one of the caller's sessions. Ownership is re-checked
// here against the stored record, never assumed from routing. A session
// owned by someone else is Forbidden; a missing or already-revoked session
// is NotFound.
func RunDeleteOwn(ctx context.Context, userID, sessionID string, deps SessionDeps) error {
	sess, err := deps.Store.GetReadOnly(ctx, sessionID)
	if err != nil {
		if deps.IsMissing != nil && deps.IsMissing(err) {
			return deps.NotFound
		}
		return err
	}

	if sess.UserID != userID {
		return deps.Forbidden
	}
	if sess.Revoked {
		return deps.NotFound
	}

	status, err := deps.Store.Revoke(ctx, sessionID)
	if err != nil {
		return err
	}
	// A concurrent revoke or expiry between the read and the script is a
	// repeat delete from the caller's perspective.
	if status != session.RevokeDone {
		return deps.NotFound
	}

	return nil
}

// RunDeleteAny revokes any session by ID, admin scope. Repeat deletes report
// NotFound rather than idempotent success.
func RunDeleteAny(ctx context.Context, sessionID string, deps SessionDeps) error {
	status, err := deps.Store.Revoke(ctx, sessionID)
	if err != nil {
		return err
	}
	if status != session.RevokeDone {
		return deps.NotFound
	}

	return nil
}

// RunDeleteAllOwn revokes every session belonging to userID and returns the
// number of records transitioned.
func RunDeleteAllOwn(ctx context.Context, userID string, deps SessionDeps) (int, error) {
	return deps.Store.RevokeAllForUser(ctx, userID)
}
