// This file defines repository methods for the top level of the
// taxonomy. Category reads always return the subcategories nested,
// which is the only denormalized view the API exposes; subcategories
// never embed their parent.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/stylish/clothing-store/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// Create inserts a category. Names are globally unique; a duplicate
// fails with ErrCategoryNameExists.
func (r *CategoryRepo) Create(ctx context.Context, name string, description *string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if taken, err := r.nameTaken(ctx, name, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrCategoryNameExists
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, description) VALUES (?,?)", name, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *CategoryRepo) nameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE name = ? AND id <> ?", name, excludeID).Scan(&n)
	return n > 0, err
}

// GetByID fetches a category with its subcategories nested.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	const q = "SELECT id, name, description FROM categories WHERE id = ?"
	var cat model.Category
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&cat.ID, &cat.Name, &cat.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	if cat.Subcategories, err = r.subcategoriesOf(ctx, cat.ID); err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetByName resolves a category by exact name. Used by the product
// search, where an unresolvable name means "no filter", so callers
// check for ErrCategoryNotFound rather than treating it as a failure.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	const q = "SELECT id, name, description FROM categories WHERE name = ?"
	var cat model.Category
	err := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(name)).Scan(&cat.ID, &cat.Name, &cat.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// List returns all categories ordered by id, each with its
// subcategories nested.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, description FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		cat := new(model.Category)
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, cat := range out {
		if cat.Subcategories, err = r.subcategoriesOf(ctx, cat.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *CategoryRepo) subcategoriesOf(ctx context.Context, categoryID uint64) ([]model.Subcategory, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, category_id FROM subcategories WHERE category_id = ? ORDER BY id", categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]model.Subcategory, 0)
	for rows.Next() {
		var s model.Subcategory
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// CategoryPatch is the allow-list of patchable category fields.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// Update applies a patch; a name change re-runs the uniqueness check.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, p CategoryPatch) (*model.Category, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	set := []string{}
	args := []any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if taken, err := r.nameTaken(ctx, name, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrCategoryNameExists
		}
		set = append(set, "name = ?")
		args = append(args, name)
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx, "UPDATE categories SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a category and everything below it in one
// transaction: its taggings, the products owned by its subcategories
// (with their taggings), then the subcategories, then the category.
// Products that are merely tagged into the category survive.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE id = ?", id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		err = ErrCategoryNotFound
		return err
	}
	// Taggings that point at this category.
	if _, err = tx.ExecContext(ctx, "DELETE FROM product_categories WHERE category_id = ?", id); err != nil {
		return err
	}
	// Products that live in this category's subcategories cascade too,
	// taggings first.
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM product_categories WHERE product_id IN (
			SELECT id FROM products WHERE subcategory_id IN (
				SELECT id FROM subcategories WHERE category_id = ?))`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM products WHERE subcategory_id IN (
			SELECT id FROM subcategories WHERE category_id = ?)`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM subcategories WHERE category_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	return err
}
