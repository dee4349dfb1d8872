package goGuard

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/guardchain"
)

// UserRecord is the account record returned by [UserProvider]. Roles is the
// authoritative flat role set for authorization decisions at request time;
// goGuard never caches it across requests.
type UserRecord struct {
	UserID     string
	Identifier string
	Roles      []string
}

// HasRole reports exact membership of role in the record's role set. Roles
// are flat labels, not a hierarchy.
func (u UserRecord) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserProvider is the interface callers must implement to integrate goGuard
// with their user database. It covers exactly the lookup the identity and
// role guards need.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
}

// SessionInfo is the caller-facing session projection returned by listing
// and issuance operations.
type SessionInfo struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Revoked    bool      `json:"revoked"`
}

// IssuedSession is returned by [Engine.IssueSession]. Token is the transport
// credential (opaque or signed, per [ResolverConfig.Mode]); it is shown once
// and never persisted in plaintext.
type IssuedSession struct {
	SessionInfo
	Token string
}

// Guard is a single check in a pipeline. See [Engine.RateLimitGuard],
// [Engine.SessionGuard], [Engine.IdentityGuard], [Engine.RequireRole], and
// [Engine.ValidationGuard] for the built-in guard factories.
type Guard = guardchain.Guard

// GuardFunc adapts a named function to the [Guard] interface.
type GuardFunc = guardchain.GuardFunc

// GuardRequest is the value threaded through a guard chain. Guards return
// enriched copies; nothing is attached to an ambient request object.
type GuardRequest = guardchain.Request

// UserContext is the resolved identity carried by a [GuardRequest].
type UserContext = guardchain.User

// Operation is the terminal handler of a chain.
type Operation = guardchain.Operation

// Chain is an immutable ordered guard pipeline. Compose custom chains with
// [NewChain]; the four route-group chains are prebuilt on [Engine].
type Chain = guardchain.Chain

// NewChain composes guards and a terminal operation into an immutable
// [Chain] value. Composition happens at route-registration time; the chain
// cannot be reordered afterwards.
func NewChain(name string, guards []Guard, op Operation) *Chain {
	return guardchain.New(name, guards, op)
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
