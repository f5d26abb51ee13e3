package model

import "time"

// Session binds an opaque client token to exactly one user.  The raw
// token is never persisted; only its SHA-256 hex digest.  A revoked or
// expired row no longer authenticates, and a row whose user has been
// deleted is treated as stale rather than as an error.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user bound to this session.
//  TokenHash – SHA-256 hex digest of the raw token.
//  ExpiresAt – expiry timestamp.
//  RevokedAt – set when the session was logged out (nullable).
//  CreatedAt – when the session was issued.
type Session struct {
	ID        uint64     // sessions.id
	UserID    uint64     // sessions.user_id
	TokenHash string     // sessions.token_hash
	ExpiresAt time.Time  // sessions.expires_at
	RevokedAt *time.Time // sessions.revoked_at (nullable)
	CreatedAt time.Time  // sessions.created_at
}
