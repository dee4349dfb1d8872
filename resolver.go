package goGuard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGuard/session"
)

// resolveCredential maps a transport credential to its active session
// record. Absent, expired, and revoked sessions are indistinguishable to the
// caller: all of them surface ErrUnauthenticated.
func (e *Engine) resolveCredential(ctx context.Context, credential string) (*session.Session, error) {
	if e == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	start := time.Now()

	var (
		sess *session.Session
		err  error
	)
	switch e.config.Resolver.Mode {
	case CredentialJWT:
		sess, err = e.resolveSigned(ctx, credential)
	default:
		sess, err = e.resolveOpaque(ctx, credential)
	}
	if err != nil {
		return nil, err
	}

	if sess.Revoked {
		return nil, ErrUnauthenticated
	}

	if e.config.Session.TouchOnResolve {
		if err := e.sessionStore.Touch(ctx, sess.SessionID, time.Now().Unix()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	e.metricInc(MetricSessionResolved)
	e.metricObserve(MetricResolveLatency, time.Since(start))

	return sess, nil
}

func (e *Engine) resolveOpaque(ctx context.Context, credential string) (*session.Session, error) {
	sess, err := e.sessionStore.FindByToken(ctx, credential)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sess, nil
}

func (e *Engine) resolveSigned(ctx context.Context, credential string) (*session.Session, error) {
	sid, err := e.parseSignedCredential(credential)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	sess, err := e.sessionStore.GetReadOnly(ctx, sid)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sess, nil
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

func (e *Engine) parseSignedCredential(credential string) (string, error) {
	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(credential, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return e.config.Resolver.HMACKey, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", err
	}
	if claims.SID == "" {
		return "", errors.New("missing sid claim")
	}

	return claims.SID, nil
}

// mintCredential produces the transport credential for a freshly issued
// session: the raw opaque token, or an HS256-signed token carrying the
// session ID in CredentialJWT mode.
func (e *Engine) mintCredential(sessionID, token string) (string, error) {
	if e.config.Resolver.Mode != CredentialJWT {
		return token, nil
	}

	now := time.Now()
	claims := sessionClaims{
		SID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.config.Session.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(e.config.Resolver.HMACKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}
