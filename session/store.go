package session

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the session store.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RevokeStatus reports the outcome of a revoke attempt.
type RevokeStatus int

const (
	// RevokeMissing is an exported constant or variable used by the session store.
	RevokeMissing RevokeStatus = iota
	// RevokeAlreadyRevoked is an exported constant or variable used by the session store.
	RevokeAlreadyRevoked
	// RevokeDone is an exported constant or variable used by the session store.
	RevokeDone
)

// revokeScript flips the revoked byte in place. Revocation is monotonic: an
// already-revoked blob is left untouched. The active counter is decremented
// at most once per session and never drops below zero.
const revokeScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return 0
end
if string.byte(data, 2) == 1 then
  return 1
end
local updated = string.sub(data, 1, 1) .. string.char(1) .. string.sub(data, 3)
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
  redis.call("SET", KEYS[1], updated, "PX", ttl)
else
  redis.call("SET", KEYS[1], updated)
end
local count = tonumber(redis.call("GET", KEYS[2]) or "0")
if count > 1 then
  redis.call("DECR", KEYS[2])
elseif count == 1 then
  redis.call("DEL", KEYS[2])
end
return 2
`

var revokeLua = redis.NewScript(revokeScript)

// touchScript rewrites the last-seen timestamp bytes in place. Revoked blobs
// are never touched, so a concurrent revoke cannot be overwritten by a
// read-modify-write from a slower resolver.
const touchScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return 0
end
if string.byte(data, 2) == 1 then
  return -1
end
local updated = string.sub(data, 1, 10) .. ARGV[1] .. string.sub(data, 19)
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
  redis.call("SET", KEYS[1], updated, "PX", ttl)
else
  redis.call("SET", KEYS[1], updated)
end
return 1
`

var touchLua = redis.NewScript(touchScript)

// Store is a Redis-backed session store that handles persistence, the
// credential token index, and atomic in-place revocation.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace for session blobs.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "gs"
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *Store) tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "gt:" + hex.EncodeToString(sum[:])
}

func (s *Store) userKey(userID string) string {
	return "gu:" + userID
}

func (s *Store) indexKey() string {
	return "gi:all"
}

func (s *Store) countKey() string {
	return "gc:active"
}

// Save persists a [Session] and its credential token index with the given TTL.
//
//	Performance: one MULTI/EXEC with 5 commands.
func (s *Store) Save(ctx context.Context, sess *Session, token string, ttl time.Duration) error {
	data, err := Encode(sess)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(sess.SessionID), data, ttl)
		if token != "" {
			pipe.Set(ctx, s.tokenKey(token), sess.SessionID, ttl)
		}
		pipe.SAdd(ctx, s.userKey(sess.UserID), sess.SessionID)
		pipe.SAdd(ctx, s.indexKey(), sess.SessionID)
		pipe.Incr(ctx, s.countKey())
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// FindByToken resolves a raw credential token to its session record. Returns
// redis.Nil when the token is unknown or its session has expired; callers
// must still inspect Session.Revoked.
//
//	Performance: 2 Redis GETs.
func (s *Store) FindByToken(ctx context.Context, token string) (*Session, error) {
	sessionID, err := s.redis.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.GetReadOnly(ctx, sessionID)
}

// GetReadOnly fetches a session without mutating TTL, index, or any Redis state.
func (s *Store) GetReadOnly(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.SessionID = sessionID

	return sess, nil
}

// Touch refreshes the session's last-seen timestamp in place. Missing or
// revoked sessions are left untouched; Touch never resurrects a revoked
// record.
func (s *Store) Touch(ctx context.Context, sessionID string, lastSeen int64) error {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(lastSeen))

	err := touchLua.Run(ctx, s.redis,
		[]string{s.key(sessionID)},
		string(ts[:]),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Revoke flips the session's revoked flag. The transition is one-way and
// atomic; repeat revokes report [RevokeAlreadyRevoked] without side effects.
//
//	Performance: 1 Lua round-trip.
func (s *Store) Revoke(ctx context.Context, sessionID string) (RevokeStatus, error) {
	res, err := revokeLua.Run(ctx, s.redis,
		[]string{s.key(sessionID), s.countKey()},
	).Int64()
	if err != nil {
		return RevokeMissing, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch res {
	case 1:
		return RevokeAlreadyRevoked, nil
	case 2:
		return RevokeDone, nil
	default:
		return RevokeMissing, nil
	}
}

// RevokeAllForUser revokes every tracked session belonging to userID and
// returns how many transitions happened. Sessions saved concurrently with
// the SMEMBERS read may be missed; they expire naturally or are caught by a
// follow-up call.
func (s *Store) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	sessionIDs, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	revoked := 0
	for _, sessionID := range sessionIDs {
		status, err := s.Revoke(ctx, sessionID)
		if err != nil {
			return revoked, err
		}
		if status == RevokeDone {
			revoked++
		}
	}

	return revoked, nil
}

// ListByUser returns userID's sessions ordered by creation time. Index
// members whose blobs have expired are skipped. When includeRevoked is
// false, revoked records are filtered out.
//
//	Performance: SMEMBERS + one pipelined GET batch.
func (s *Store) ListByUser(ctx context.Context, userID string, includeRevoked bool) ([]*Session, error) {
	sessionIDs, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*Session{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.getMany(ctx, sessionIDs, includeRevoked)
}

// ListAll returns every tracked session ordered by creation time. This is an
// admin-only operation and must not be used in request hot paths.
func (s *Store) ListAll(ctx context.Context, includeRevoked bool) ([]*Session, error) {
	sessionIDs, err := s.redis.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*Session{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.getMany(ctx, sessionIDs, includeRevoked)
}

func (s *Store) getMany(ctx context.Context, sessionIDs []string, includeRevoked bool) ([]*Session, error) {
	if len(sessionIDs) == 0 {
		return []*Session{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(sessionIDs))
	for i, sid := range sessionIDs {
		cmds[i] = pipe.Get(ctx, s.key(sid))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sessions := make([]*Session, 0, len(sessionIDs))
	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, cmdErr)
		}

		sess, decErr := Decode(data)
		if decErr != nil {
			return nil, decErr
		}
		sess.SessionID = sessionIDs[i]

		if !includeRevoked && sess.Revoked {
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt != sessions[j].CreatedAt {
			return sessions[i].CreatedAt < sessions[j].CreatedAt
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})

	return sessions, nil
}

// ActiveCount returns the tracked count of non-revoked sessions.
// Missing keys return zero; the counter is clamped to never go negative.
func (s *Store) ActiveCount(ctx context.Context) (int, error) {
	count, err := s.redis.Get(ctx, s.countKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}
