package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stylish/clothing-store/internal/model"
)

func TestTaggingCreateRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	taggings := NewTaggingRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	tops := seedCategory(t, db, "Tops")

	p, err := products.Create(ctx, &model.Product{
		Name: "Tee", Price: decimal.NewFromInt(10), UserID: alice.ID,
	}, nil, false)
	require.NoError(t, err)

	_, err = taggings.Create(ctx, p.ID, tops.ID, false, bob.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = taggings.Create(ctx, 9999, tops.ID, false, alice.ID)
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = taggings.Create(ctx, p.ID, 9999, false, alice.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)

	pc, err := taggings.Create(ctx, p.ID, tops.ID, true, alice.ID)
	require.NoError(t, err)
	require.True(t, pc.Featured)
	require.Equal(t, p.ID, pc.ProductID)
}

func TestTaggingSetFeaturedAndDelete(t *testing.T) {
	db := newTestDB(t)
	taggings := NewTaggingRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	tops := seedCategory(t, db, "Tops")

	p, err := products.Create(ctx, &model.Product{
		Name: "Tee", Price: decimal.NewFromInt(10), UserID: alice.ID,
	}, []uint64{tops.ID}, false)
	require.NoError(t, err)

	list, err := taggings.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	pc := list[0]

	_, err = taggings.SetFeatured(ctx, pc.ID, true, bob.ID)
	require.ErrorIs(t, err, ErrForbidden)

	flipped, err := taggings.SetFeatured(ctx, pc.ID, true, alice.ID)
	require.NoError(t, err)
	require.True(t, flipped.Featured)

	require.ErrorIs(t, taggings.Delete(ctx, pc.ID, bob.ID), ErrForbidden)
	require.NoError(t, taggings.Delete(ctx, pc.ID, alice.ID))
	require.ErrorIs(t, taggings.Delete(ctx, pc.ID, alice.ID), ErrTaggingNotFound)

	// Removing the tagging never touches the product.
	_, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
}
