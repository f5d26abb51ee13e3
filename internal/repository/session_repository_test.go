package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stylish/clothing-store/internal/utils"
)

func TestSessionStoreResolveRevoke(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	tok := utils.NewSessionToken(time.Hour)
	hash := utils.HashToken(tok.Raw)

	require.NoError(t, sessions.Store(ctx, alice.ID, hash, tok.Exp))

	uid, err := sessions.Resolve(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, alice.ID, uid)

	_, err = sessions.Resolve(ctx, utils.HashToken("never-issued"))
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, sessions.Revoke(ctx, hash))
	_, err = sessions.Resolve(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)

	// Revoking again is a no-op, not an error.
	require.NoError(t, sessions.Revoke(ctx, hash))
}

func TestSessionExpiry(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	hash := utils.HashToken("expired-token")
	require.NoError(t, sessions.Store(ctx, alice.ID, hash, time.Now().UTC().Add(-time.Minute)))

	_, err := sessions.Resolve(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRevokeAllForUser(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	aliceHash := utils.HashToken("alice-token")
	bobHash := utils.HashToken("bob-token")
	require.NoError(t, sessions.Store(ctx, alice.ID, aliceHash, time.Now().UTC().Add(time.Hour)))
	require.NoError(t, sessions.Store(ctx, bob.ID, bobHash, time.Now().UTC().Add(time.Hour)))

	require.NoError(t, sessions.RevokeAllForUser(ctx, alice.ID))

	_, err := sessions.Resolve(ctx, aliceHash)
	require.ErrorIs(t, err, sql.ErrNoRows)
	uid, err := sessions.Resolve(ctx, bobHash)
	require.NoError(t, err)
	require.Equal(t, bob.ID, uid)
}
