package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stylish/clothing-store/internal/model"
)

// TaggingRepo manages product_categories rows directly. Most taggings
// are created as a side effect of product writes (see replaceTaggings);
// this repository backs the standalone CRUD surface. Mutations require
// the caller to own the tagged product.
type TaggingRepo struct{ DB *sql.DB }

func NewTaggingRepo(db *sql.DB) *TaggingRepo { return &TaggingRepo{DB: db} }

// List returns all taggings ordered by id.
func (r *TaggingRepo) List(ctx context.Context) ([]*model.ProductCategory, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, product_id, category_id, featured FROM product_categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ProductCategory
	for rows.Next() {
		pc := new(model.ProductCategory)
		if err := rows.Scan(&pc.ID, &pc.ProductID, &pc.CategoryID, &pc.Featured); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// GetByID fetches one tagging.
func (r *TaggingRepo) GetByID(ctx context.Context, id uint64) (*model.ProductCategory, error) {
	var pc model.ProductCategory
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, product_id, category_id, featured FROM product_categories WHERE id = ?", id).
		Scan(&pc.ID, &pc.ProductID, &pc.CategoryID, &pc.Featured)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaggingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

// Create tags a product into a category. Both sides must exist and the
// caller must own the product.
func (r *TaggingRepo) Create(ctx context.Context, productID, categoryID uint64, featured bool, callerID uint64) (*model.ProductCategory, error) {
	if err := r.ownerCheck(ctx, productID, callerID); err != nil {
		return nil, err
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE id = ?", categoryID).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCategoryNotFound
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO product_categories (product_id, category_id, featured) VALUES (?,?,?)",
		productID, categoryID, featured)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// SetFeatured flips the featured flag of one tagging.
func (r *TaggingRepo) SetFeatured(ctx context.Context, id uint64, featured bool, callerID uint64) (*model.ProductCategory, error) {
	pc, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.ownerCheck(ctx, pc.ProductID, callerID); err != nil {
		return nil, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE product_categories SET featured = ? WHERE id = ?", featured, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes one tagging. The tagged product is untouched.
func (r *TaggingRepo) Delete(ctx context.Context, id, callerID uint64) error {
	pc, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.ownerCheck(ctx, pc.ProductID, callerID); err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM product_categories WHERE id = ?", id)
	return err
}

func (r *TaggingRepo) ownerCheck(ctx context.Context, productID, callerID uint64) error {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM products WHERE id = ?", productID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}
