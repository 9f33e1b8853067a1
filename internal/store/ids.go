package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// NewToken returns tok-<suffix> where suffix is 16 chars of base32
// (lowercase, no padding), ~80 bits of space. Used for the approval record's
// opaque session token.
func NewToken() (string, error) {
	var b [10]byte // 80 bits -> 16 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "tok-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}
