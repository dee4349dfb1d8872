package session

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const sessionFormatVersionCurrent = 1

// Fixed blob offsets (0-based). The store's Lua scripts patch these bytes in
// place, so they must never move within a schema version.
const (
	offsetRevoked    = 1
	offsetCreatedAt  = 2
	offsetLastSeenAt = 10
	offsetUserIDLen  = 18
	minBlobSize      = 19
)

// ErrCorruptSession is an exported constant or variable used by the session store.
var ErrCorruptSession = errors.New("corrupt session blob")

// Encode serializes a [Session] into the versioned binary blob stored in
// Redis. SessionID is the Redis key suffix and is not part of the blob.
func Encode(s *Session) ([]byte, error) {
	if len(s.UserID) == 0 {
		return nil, errors.New("userID empty")
	}
	if len(s.UserID) > 255 {
		return nil, errors.New("userID too long")
	}

	var buf bytes.Buffer
	buf.Grow(minBlobSize + len(s.UserID))

	buf.WriteByte(sessionFormatVersionCurrent)

	if s.Revoked {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(s.CreatedAt))
	buf.Write(ts[:])
	binary.BigEndian.PutUint64(ts[:], uint64(s.LastSeenAt))
	buf.Write(ts[:])

	buf.WriteByte(byte(len(s.UserID)))
	buf.WriteString(s.UserID)

	return buf.Bytes(), nil
}

// Decode parses a binary session blob produced by [Encode]. It never panics
// on malformed input; corrupt blobs return [ErrCorruptSession].
func Decode(data []byte) (*Session, error) {
	if len(data) < minBlobSize {
		return nil, ErrCorruptSession
	}
	if data[0] != sessionFormatVersionCurrent {
		return nil, ErrCorruptSession
	}
	if data[offsetRevoked] > 1 {
		return nil, ErrCorruptSession
	}

	userLen := int(data[offsetUserIDLen])
	if userLen == 0 || len(data) != minBlobSize+userLen {
		return nil, ErrCorruptSession
	}

	return &Session{
		Revoked:    data[offsetRevoked] == 1,
		CreatedAt:  int64(binary.BigEndian.Uint64(data[offsetCreatedAt : offsetCreatedAt+8])),
		LastSeenAt: int64(binary.BigEndian.Uint64(data[offsetLastSeenAt : offsetLastSeenAt+8])),
		UserID:     string(data[minBlobSize : minBlobSize+userLen]),
	}, nil
}
