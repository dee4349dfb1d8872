package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStoreTest(t *testing.T) (*Store, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "gs")
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func testSession(sid, userID string) *Session {
	now := time.Now()
	return &Session{
		SessionID:  sid,
		UserID:     userID,
		CreatedAt:  now.Unix(),
		LastSeenAt: now.Unix(),
	}
}

func TestSaveAndFindByToken(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("sid-1", "u-1")
	if err := store.Save(ctx, sess, "tok-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.FindByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find by token: %v", err)
	}
	if got.SessionID != "sid-1" || got.UserID != "u-1" {
		t.Fatalf("resolved %q/%q, want sid-1/u-1", got.SessionID, got.UserID)
	}

	if _, err := store.FindByToken(ctx, "tok-unknown"); !errors.Is(err, redis.Nil) {
		t.Fatalf("unknown token: expected redis.Nil, got %v", err)
	}
}

func TestFindByTokenAfterBlobExpiry(t *testing.T) {
	store, mr, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("sid-exp", "u-1")
	if err := store.Save(ctx, sess, "tok-exp", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.FindByToken(ctx, "tok-exp"); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil after expiry, got %v", err)
	}
}

func TestGetReadOnlyMissing(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()

	if _, err := store.GetReadOnly(context.Background(), "nope"); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil, got %v", err)
	}
}

func TestRevokeTransitions(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	status, err := store.Revoke(ctx, "missing")
	if err != nil {
		t.Fatalf("revoke missing: %v", err)
	}
	if status != RevokeMissing {
		t.Fatalf("expected RevokeMissing, got %d", status)
	}

	sess := testSession("sid-r", "u-1")
	if err := store.Save(ctx, sess, "tok-r", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	status, err = store.Revoke(ctx, "sid-r")
	if err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if status != RevokeDone {
		t.Fatalf("expected RevokeDone, got %d", status)
	}

	status, err = store.Revoke(ctx, "sid-r")
	if err != nil {
		t.Fatalf("repeat revoke: %v", err)
	}
	if status != RevokeAlreadyRevoked {
		t.Fatalf("expected RevokeAlreadyRevoked, got %d", status)
	}

	got, err := store.GetReadOnly(ctx, "sid-r")
	if err != nil {
		t.Fatalf("get after revoke: %v", err)
	}
	if !got.Revoked {
		t.Fatal("revoked flag must be set after revoke")
	}
	if got.UserID != "u-1" || got.CreatedAt != sess.CreatedAt {
		t.Fatal("revoke must not disturb other fields")
	}
}

func TestRevokePreservesTTL(t *testing.T) {
	store, mr, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("sid-ttl", "u-1")
	if err := store.Save(ctx, sess, "tok-ttl", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Revoke(ctx, "sid-ttl"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Revoked record remains readable until its original TTL expires.
	if _, err := store.GetReadOnly(ctx, "sid-ttl"); err != nil {
		t.Fatalf("get revoked before expiry: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.GetReadOnly(ctx, "sid-ttl"); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil after expiry, got %v", err)
	}
}

func TestTouchUpdatesLastSeenOnly(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("sid-t", "u-1")
	if err := store.Save(ctx, sess, "tok-t", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	newSeen := sess.LastSeenAt + 500
	if err := store.Touch(ctx, "sid-t", newSeen); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, err := store.GetReadOnly(ctx, "sid-t")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastSeenAt != newSeen {
		t.Fatalf("lastSeen = %d, want %d", got.LastSeenAt, newSeen)
	}
	if got.CreatedAt != sess.CreatedAt || got.UserID != sess.UserID || got.Revoked {
		t.Fatal("touch must not disturb other fields")
	}
}

func TestTouchNeverResurrectsRevokedSession(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("sid-z", "u-1")
	if err := store.Save(ctx, sess, "tok-z", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Revoke(ctx, "sid-z"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if err := store.Touch(ctx, "sid-z", sess.LastSeenAt+999); err != nil {
		t.Fatalf("touch revoked: %v", err)
	}

	got, err := store.GetReadOnly(ctx, "sid-z")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Revoked {
		t.Fatal("touch must never clear the revoked flag")
	}
	if got.LastSeenAt != sess.LastSeenAt {
		t.Fatalf("touch must not update a revoked session, lastSeen = %d", got.LastSeenAt)
	}
}

func TestListByUserFiltersAndOrders(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	base := time.Now().Unix()
	for i := 0; i < 3; i++ {
		sess := testSession(fmt.Sprintf("sid-a%d", i), "u-a")
		sess.CreatedAt = base + int64(3-i)
		if err := store.Save(ctx, sess, fmt.Sprintf("tok-a%d", i), time.Hour); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	other := testSession("sid-b0", "u-b")
	if err := store.Save(ctx, other, "tok-b0", time.Hour); err != nil {
		t.Fatalf("save other: %v", err)
	}

	if _, err := store.Revoke(ctx, "sid-a1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	active, err := store.ListByUser(ctx, "u-a", false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(active))
	}
	for _, s := range active {
		if s.UserID != "u-a" {
			t.Fatalf("cross-user leak: got session for %q", s.UserID)
		}
		if s.Revoked {
			t.Fatal("active listing must filter revoked sessions")
		}
	}
	if active[0].CreatedAt > active[1].CreatedAt {
		t.Fatal("listing must be ordered by creation time")
	}

	all, err := store.ListByUser(ctx, "u-a", true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions including revoked, got %d", len(all))
	}

	none, err := store.ListByUser(ctx, "u-nobody", false)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty slice, got %d", len(none))
	}
}

func TestListAllSpansUsers(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sess := testSession(fmt.Sprintf("sid-%d", i), fmt.Sprintf("u-%d", i))
		if err := store.Save(ctx, sess, fmt.Sprintf("tok-%d", i), time.Hour); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := store.ListAll(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
}

func TestRevokeAllForUser(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sess := testSession(fmt.Sprintf("sid-%d", i), "u-1")
		if err := store.Save(ctx, sess, fmt.Sprintf("tok-%d", i), time.Hour); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if _, err := store.Revoke(ctx, "sid-0"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	n, err := store.RevokeAllForUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 new revocations, got %d", n)
	}

	active, err := store.ListByUser(ctx, "u-1", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active sessions, got %d", len(active))
	}
}

func TestActiveCountNeverNegative(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("sid-c", "u-1")
	if err := store.Save(ctx, sess, "tok-c", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := store.Revoke(ctx, "sid-c"); err != nil {
			t.Fatalf("repeat revoke %d: %v", i, err)
		}
	}

	count, err := store.ActiveCount(ctx)
	if err != nil {
		t.Fatalf("active count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected count 0, got %d", count)
	}
}

func TestActiveCountNeverNegativeUnderConcurrentRevokes(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	const (
		sessionsN = 24
		workers   = 16
		rounds    = 100
	)

	for i := 0; i < sessionsN; i++ {
		sess := testSession(fmt.Sprintf("sid-%d", i), "u-1")
		if err := store.Save(ctx, sess, fmt.Sprintf("tok-%d", i), time.Hour); err != nil {
			t.Fatalf("save session %d failed: %v", i, err)
		}
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(workerID int) {
			defer wg.Done()
			<-start

			for r := 0; r < rounds; r++ {
				sid := fmt.Sprintf("sid-%d", (workerID+r)%sessionsN)

				switch (workerID + r) % 3 {
				case 0:
					if _, err := store.Revoke(ctx, sid); err != nil {
						t.Errorf("revoke failed: %v", err)
					}
				case 1:
					if err := store.Touch(ctx, sid, time.Now().Unix()); err != nil {
						t.Errorf("touch failed: %v", err)
					}
				default:
					if _, err := store.RevokeAllForUser(ctx, "u-1"); err != nil {
						t.Errorf("revoke-all failed: %v", err)
					}
				}
			}
		}(w)
	}

	close(start)
	wg.Wait()

	count, err := store.ActiveCount(ctx)
	if err != nil {
		t.Fatalf("ActiveCount failed: %v", err)
	}
	if count < 0 {
		t.Fatalf("counter must never be negative, got %d", count)
	}
}
