package session

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sess := &Session{
		UserID:     "u-42",
		CreatedAt:  1700000000,
		LastSeenAt: 1700003600,
		Revoked:    false,
	}

	data, err := Encode(sess)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != minBlobSize+len(sess.UserID) {
		t.Fatalf("unexpected blob size %d", len(data))
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UserID != sess.UserID {
		t.Fatalf("userID = %q, want %q", got.UserID, sess.UserID)
	}
	if got.CreatedAt != sess.CreatedAt || got.LastSeenAt != sess.LastSeenAt {
		t.Fatalf("timestamps = %d/%d, want %d/%d", got.CreatedAt, got.LastSeenAt, sess.CreatedAt, sess.LastSeenAt)
	}
	if got.Revoked {
		t.Fatal("revoked flag must round-trip as false")
	}
}

func TestEncodeRevokedFlagAtFixedOffset(t *testing.T) {
	sess := &Session{UserID: "u-1", CreatedAt: 1, LastSeenAt: 2, Revoked: true}

	data, err := Encode(sess)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if data[offsetRevoked] != 1 {
		t.Fatalf("revoked byte = %d at offset %d, want 1", data[offsetRevoked], offsetRevoked)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Revoked {
		t.Fatal("revoked flag must round-trip as true")
	}
}

func TestEncodeRejectsBadUserID(t *testing.T) {
	if _, err := Encode(&Session{UserID: ""}); err == nil {
		t.Fatal("expected error for empty userID")
	}

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := Encode(&Session{UserID: string(long)}); err == nil {
		t.Fatal("expected error for oversized userID")
	}
}

func TestDecodeRejectsMalformedBlobs(t *testing.T) {
	cases := map[string][]byte{
		"empty":              {},
		"short":              {1, 0, 0},
		"bad version":        append([]byte{99}, make([]byte, minBlobSize)...),
		"bad revoked byte":   {1, 7, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 'u'},
		"zero userID length": {1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		"length mismatch":    {1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 'u'},
	}

	for name, data := range cases {
		if _, err := Decode(data); !errors.Is(err, ErrCorruptSession) {
			t.Fatalf("%s: expected ErrCorruptSession, got %v", name, err)
		}
	}
}
