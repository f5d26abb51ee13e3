package utils // session token helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// SessionToken carries the raw opaque token handed to the client and
// its expiry. Only the SHA-256 digest of Raw is ever written to the
// database, so a leaked sessions table cannot be replayed.
type SessionToken struct {
	Raw string    // raw token returned to the client
	Exp time.Time // UTC expiration time
}

// NewSessionToken issues a fresh opaque token valid for ttl. The token
// value is a random UUID; it carries no claims and means nothing until
// the server resolves it against the sessions table.
func NewSessionToken(ttl time.Duration) SessionToken {
	return SessionToken{
		Raw: uuid.NewString(),
		Exp: time.Now().UTC().Add(ttl),
	}
}

// HashToken returns the SHA-256 hex digest of a raw session token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
