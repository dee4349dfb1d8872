package test

import (
	"context"
	"testing"

	goGuard "github.com/MrEthical07/goGuard"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goGuard.New

	var _ *goGuard.Engine
	var _ goGuard.Config
	var _ goGuard.Schema
	var _ goGuard.GuardRequest
	var _ goGuard.SessionInfo
	var _ goGuard.IssuedSession
	var _ goGuard.UserRecord
	var _ goGuard.UserProvider
	var _ goGuard.AuditSink
	var _ goGuard.Guard
	var _ *goGuard.Chain

	var _ error = goGuard.ErrRateLimitExceeded
	var _ error = goGuard.ErrUnauthenticated
	var _ error = goGuard.ErrForbidden
	var _ error = goGuard.ErrValidationFailed
	var _ error = goGuard.ErrSessionNotFound
	var _ error = goGuard.ErrUserNotFound
	var _ error = goGuard.ErrStoreUnavailable

	var _ func(*goGuard.Engine, context.Context, string) (*goGuard.IssuedSession, error) = (*goGuard.Engine).IssueSession
	var _ func(*goGuard.Engine, context.Context, string) ([]goGuard.SessionInfo, error) = (*goGuard.Engine).ListOwnSessions
	var _ func(*goGuard.Engine, context.Context) ([]goGuard.SessionInfo, error) = (*goGuard.Engine).ListAllSessions
	var _ func(*goGuard.Engine, context.Context, string, string) error = (*goGuard.Engine).DeleteOwnSession
	var _ func(*goGuard.Engine, context.Context, string, string) error = (*goGuard.Engine).DeleteAnySession
	var _ func(*goGuard.Engine, context.Context, string) (int, error) = (*goGuard.Engine).DeleteAllOwnSessions
	var _ func(*goGuard.Engine) *goGuard.Chain = (*goGuard.Engine).SelfListChain
	var _ func(*goGuard.Engine) *goGuard.Chain = (*goGuard.Engine).SelfDeleteChain
	var _ func(*goGuard.Engine) *goGuard.Chain = (*goGuard.Engine).AdminListChain
	var _ func(*goGuard.Engine) *goGuard.Chain = (*goGuard.Engine).AdminDeleteChain
}
