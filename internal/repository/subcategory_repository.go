package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/stylish/clothing-store/internal/model"
)

type SubcategoryRepo struct{ DB *sql.DB }

func NewSubcategoryRepo(db *sql.DB) *SubcategoryRepo { return &SubcategoryRepo{DB: db} }

// Create inserts a subcategory under an existing category. The parent
// must exist (ErrCategoryNotFound otherwise) and the name must be
// unique within that parent only, not globally.
func (r *SubcategoryRepo) Create(ctx context.Context, name string, categoryID uint64) (*model.Subcategory, error) {
	name = strings.TrimSpace(name)

	var parent int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE id = ?", categoryID).Scan(&parent); err != nil {
		return nil, err
	}
	if parent == 0 {
		return nil, ErrCategoryNotFound
	}
	if taken, err := r.nameTaken(ctx, name, categoryID, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrSubcategoryNameExists
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO subcategories (name, category_id) VALUES (?,?)", name, categoryID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *SubcategoryRepo) nameTaken(ctx context.Context, name string, categoryID, excludeID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subcategories WHERE name = ? AND category_id = ? AND id <> ?",
		name, categoryID, excludeID).Scan(&n)
	return n > 0, err
}

// GetByID fetches a subcategory by id.
func (r *SubcategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Subcategory, error) {
	const q = "SELECT id, name, category_id FROM subcategories WHERE id = ?"
	var s model.Subcategory
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubcategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByName resolves a subcategory by name for the product search.
// Subcategory names are only unique per parent; the search filter
// takes the first match by id.
func (r *SubcategoryRepo) GetByName(ctx context.Context, name string) (*model.Subcategory, error) {
	const q = "SELECT id, name, category_id FROM subcategories WHERE name = ? ORDER BY id LIMIT 1"
	var s model.Subcategory
	err := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(name)).Scan(&s.ID, &s.Name, &s.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubcategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all subcategories ordered by id.
func (r *SubcategoryRepo) List(ctx context.Context) ([]*model.Subcategory, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, category_id FROM subcategories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subcategory
	for rows.Next() {
		s := new(model.Subcategory)
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SubcategoryPatch is the allow-list of patchable subcategory fields.
// Moving a subcategory to another parent re-checks both the new parent
// and the per-parent name uniqueness.
type SubcategoryPatch struct {
	Name       *string
	CategoryID *uint64
}

func (r *SubcategoryRepo) Update(ctx context.Context, id uint64, p SubcategoryPatch) (*model.Subcategory, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := current.Name
	categoryID := current.CategoryID
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
	}
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
		var parent int
		if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE id = ?", categoryID).Scan(&parent); err != nil {
			return nil, err
		}
		if parent == 0 {
			return nil, ErrCategoryNotFound
		}
	}
	if p.Name != nil || p.CategoryID != nil {
		if taken, err := r.nameTaken(ctx, name, categoryID, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrSubcategoryNameExists
		}
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE subcategories SET name = ?, category_id = ? WHERE id = ?", name, categoryID, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a subcategory and cascades onto the products that
// reference it: their taggings go first, then the products, then the
// subcategory itself, all in one transaction. Products are cascaded,
// not decoupled; a product never outlives its subcategory.
func (r *SubcategoryRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM subcategories WHERE id = ?", id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		err = ErrSubcategoryNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM product_categories WHERE product_id IN (SELECT id FROM products WHERE subcategory_id = ?)", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM products WHERE subcategory_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM subcategories WHERE id = ?", id)
	return err
}
