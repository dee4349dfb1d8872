package session

// Session is one authenticated login record. A session is either active or
// revoked; Revoked is a one-way transition, and once flipped the record is
// never mutated again other than expiring out of Redis.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	SessionID string
	UserID    string

	CreatedAt  int64
	LastSeenAt int64

	Revoked bool
}

// Active reports whether the session may still authenticate requests at the
// given Unix time. Expiry is enforced by the Redis TTL; nowUnix only matters
// for records read back before Redis reaps them.
func (s *Session) Active() bool {
	return s != nil && !s.Revoked
}
