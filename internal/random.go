package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const sessionTokenRawSize = 32

// NewSessionToken returns an opaque, URL-safe credential token with 256 bits
// of entropy. The raw token is handed to the caller once; stores index it
// only by hash.
func NewSessionToken() (string, error) {
	var raw [sessionTokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
