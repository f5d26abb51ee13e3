package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stylish/clothing-store/internal/model"
	"github.com/stylish/clothing-store/internal/utils"
)

func TestUserCreateAndConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "Alice@Example.com", "pw123456", nil, bcrypt.MinCost)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "alice@example.com", u.Email) // emails normalize to lowercase
	require.True(t, utils.VerifyPassword(u.PasswordHash, "pw123456"))

	_, err = repo.Create(ctx, "alice", "other@example.com", "pw123456", nil, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrUsernameExists)

	_, err = repo.Create(ctx, "bob", "alice@example.com", "pw123456", nil, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	// Keeping your own username is not a conflict.
	same := alice.Username
	_, err := repo.Update(ctx, alice.ID, UserPatch{Username: &same}, bcrypt.MinCost)
	require.NoError(t, err)

	// Taking someone else's is.
	taken := "bob"
	_, err = repo.Update(ctx, alice.ID, UserPatch{Username: &taken}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrUsernameExists)

	addr := "12 Main St"
	newPw := "newpassword"
	updated, err := repo.Update(ctx, alice.ID, UserPatch{Address: &addr, Password: &newPw}, bcrypt.MinCost)
	require.NoError(t, err)
	require.NotNil(t, updated.Address)
	require.Equal(t, addr, *updated.Address)
	require.True(t, utils.VerifyPassword(updated.PasswordHash, "newpassword"))
	require.False(t, utils.VerifyPassword(updated.PasswordHash, "pw123456"))

	_, err = repo.Update(ctx, 9999, UserPatch{Address: &addr}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordChangeRevokesSessions(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	sessions := NewSessionRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	tok := utils.NewSessionToken(time.Hour)
	hash := utils.HashToken(tok.Raw)
	require.NoError(t, sessions.Store(ctx, alice.ID, hash, tok.Exp))

	// An address-only patch leaves the session alive.
	addr := "12 Main St"
	_, err := users.Update(ctx, alice.ID, UserPatch{Address: &addr}, bcrypt.MinCost)
	require.NoError(t, err)
	uid, err := sessions.Resolve(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, alice.ID, uid)

	newPw := "newpassword"
	_, err = users.Update(ctx, alice.ID, UserPatch{Password: &newPw}, bcrypt.MinCost)
	require.NoError(t, err)
	_, err = sessions.Resolve(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	products := NewProductRepo(db)
	orders := NewOrderRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cat := seedCategory(t, db, "Tops")

	_, err := products.Create(ctx, &model.Product{
		Name: "Tee", Price: decimal.NewFromInt(10), UserID: alice.ID,
	}, []uint64{cat.ID}, true)
	require.NoError(t, err)
	bobProduct, err := products.Create(ctx, &model.Product{
		Name: "Jeans", Price: decimal.NewFromInt(40), UserID: bob.ID,
	}, []uint64{cat.ID}, false)
	require.NoError(t, err)

	_, err = orders.Create(ctx, &model.Order{UserID: alice.ID, TotalAmount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	tok := utils.NewSessionToken(time.Hour)
	require.NoError(t, NewSessionRepo(db).Store(ctx, alice.ID, utils.HashToken(tok.Raw), tok.Exp))

	require.NoError(t, users.Delete(ctx, alice.ID))
	require.ErrorIs(t, users.Delete(ctx, alice.ID), ErrUserNotFound)

	// Alice's products, taggings, orders and sessions are gone; Bob's
	// product and its tagging survive.
	require.Equal(t, 1, countRows(t, db, "products"))
	require.Equal(t, 1, countRows(t, db, "product_categories"))
	require.Equal(t, 0, countRows(t, db, "orders"))
	require.Equal(t, 0, countRows(t, db, "sessions"))

	_, err = products.GetByID(ctx, bobProduct.ID)
	require.NoError(t, err)
}
