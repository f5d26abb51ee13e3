package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stylish/clothing-store/internal/model"
)

func TestCategoryCreateAndConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	desc := "shirts and blouses"
	c, err := repo.Create(ctx, "Tops", &desc)
	require.NoError(t, err)
	require.Equal(t, "Tops", c.Name)
	require.NotNil(t, c.Subcategories) // always nested, empty when none

	_, err = repo.Create(ctx, "Tops", nil)
	require.ErrorIs(t, err, ErrCategoryNameExists)
}

func TestCategoryListNestsSubcategories(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	tops := seedCategory(t, db, "Tops")
	seedSubcategory(t, db, "T-Shirts", tops.ID)
	seedSubcategory(t, db, "Sweaters", tops.ID)
	seedCategory(t, db, "Bottoms")

	cats, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Len(t, cats[0].Subcategories, 2)
	require.Equal(t, "T-Shirts", cats[0].Subcategories[0].Name)
	require.Empty(t, cats[1].Subcategories)
}

func TestCategoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	tops := seedCategory(t, db, "Tops")
	seedCategory(t, db, "Bottoms")

	name := "Bottoms"
	_, err := repo.Update(ctx, tops.ID, CategoryPatch{Name: &name})
	require.ErrorIs(t, err, ErrCategoryNameExists)

	name = "Outerwear"
	updated, err := repo.Update(ctx, tops.ID, CategoryPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Outerwear", updated.Name)
}

func TestCategoryDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	tops := seedCategory(t, db, "Tops")
	bottoms := seedCategory(t, db, "Bottoms")
	tshirts := seedSubcategory(t, db, "T-Shirts", tops.ID)

	// Lives in Tops through its subcategory: cascades away.
	inTops, err := products.Create(ctx, &model.Product{
		Name: "Tee", Price: decimal.NewFromInt(10), UserID: alice.ID, SubcategoryID: &tshirts.ID,
	}, []uint64{tops.ID}, false)
	require.NoError(t, err)

	// Merely tagged into Tops, structurally elsewhere: survives, minus
	// the tagging.
	tagged, err := products.Create(ctx, &model.Product{
		Name: "Jeans", Price: decimal.NewFromInt(40), UserID: alice.ID,
	}, []uint64{tops.ID, bottoms.ID}, false)
	require.NoError(t, err)

	require.NoError(t, categories.Delete(ctx, tops.ID))
	require.ErrorIs(t, categories.Delete(ctx, tops.ID), ErrCategoryNotFound)

	_, err = products.GetByID(ctx, inTops.ID)
	require.ErrorIs(t, err, ErrProductNotFound)

	survivor, err := products.GetByID(ctx, tagged.ID)
	require.NoError(t, err)
	require.Equal(t, "Jeans", survivor.Name)

	require.Equal(t, 0, countRows(t, db, "subcategories"))
	require.Equal(t, 1, countRows(t, db, "product_categories")) // only the Bottoms tagging left
}
