package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/stylish/clothing-store/internal/model"
)

// ProductQuery defines the optional catalog filters. All present
// filters apply conjunctively. Category and Subcategory are names, not
// ids, because that is what the storefront sends.
type ProductQuery struct {
	Category    string
	Subcategory string
	Term        string
}

// allCategories is the sentinel category name meaning "no category filter".
const allCategories = "All"

// Search returns the products matching the query. A category name of
// "All", or any name that does not resolve, applies no restriction at
// all; the same goes for an unresolvable subcategory name. An unknown
// filter name degrades to the full listing rather than erroring, and an
// empty result is a successful response.
func (r *ProductRepo) Search(ctx context.Context, q ProductQuery) ([]*model.Product, error) {
	where := []string{}
	args := []any{}

	if name := strings.TrimSpace(q.Category); name != "" && name != allCategories {
		cat, err := (&CategoryRepo{DB: r.DB}).GetByName(ctx, name)
		switch {
		case err == nil:
			where = append(where, "id IN (SELECT product_id FROM product_categories WHERE category_id = ?)")
			args = append(args, cat.ID)
		case errors.Is(err, ErrCategoryNotFound):
			// unknown category name: no filter
		default:
			return nil, err
		}
	}

	if name := strings.TrimSpace(q.Subcategory); name != "" {
		sub, err := (&SubcategoryRepo{DB: r.DB}).GetByName(ctx, name)
		switch {
		case err == nil:
			where = append(where, "subcategory_id = ?")
			args = append(args, sub.ID)
		case errors.Is(err, ErrSubcategoryNotFound):
			// unknown subcategory name: no filter
		default:
			return nil, err
		}
	}

	if term := strings.TrimSpace(q.Term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, pattern, pattern)
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
