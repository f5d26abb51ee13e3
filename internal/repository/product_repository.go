package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stylish/clothing-store/internal/model"
)

// ProductRepo owns the products table and, together with
// TaggingRepo, the product side of the tagging relation. Variant
// attribute lists (sizes, colors) cross the persistence edge here:
// typed []string in and out, a JSON text column at rest.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id, name, description, price, inventory_count, image_url, available_sizes, available_colors, user_id, subcategory_id"

// Create inserts a product for the given owner and, when categoryIDs is
// non-empty, tags it into those categories with one shared featured
// flag. Product row and taggings commit or roll back together.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product, categoryIDs []uint64, featured bool) (*model.Product, error) {
	sizes, err := marshalList(p.AvailableSizes)
	if err != nil {
		return nil, err
	}
	colors, err := marshalList(p.AvailableColors)
	if err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if p.SubcategoryID != nil {
		if err = subcategoryExists(ctx, tx, *p.SubcategoryID); err != nil {
			return nil, err
		}
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, description, price, inventory_count, image_url, available_sizes, available_colors, user_id, subcategory_id)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Name, p.Description, p.Price, p.InventoryCount, p.ImageURL, sizes, colors, p.UserID, p.SubcategoryID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err = replaceTaggings(ctx, tx, uint64(id), categoryIDs, featured); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// subcategoryExists verifies the referenced subcategory within the
// transaction that writes the product row.
func subcategoryExists(ctx context.Context, tx *sql.Tx, id uint64) error {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM subcategories WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// ProductPatch is the explicit allow-list of patchable product fields.
// Anything outside this list never reaches the database. Categories,
// when present, replaces every existing tagging of the product; the
// Featured flag applies to all taggings created by that call.
type ProductPatch struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	InventoryCount  *int
	ImageURL        *string
	AvailableSizes  *[]string
	AvailableColors *[]string
	SubcategoryID   **uint64
	Categories      *[]uint64
	Featured        bool
}

// Update applies a patch on behalf of callerID. The caller must own the
// product; a mismatch is ErrForbidden. When the patch includes a
// category list, the field updates and the wholesale tagging
// replacement run inside one transaction.
func (r *ProductRepo) Update(ctx context.Context, id, callerID uint64, p ProductPatch) (*model.Product, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, ErrForbidden
	}

	set := []string{}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name = ?")
		args = append(args, strings.TrimSpace(*p.Name))
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *p.Price)
	}
	if p.InventoryCount != nil {
		set = append(set, "inventory_count = ?")
		args = append(args, *p.InventoryCount)
	}
	if p.ImageURL != nil {
		set = append(set, "image_url = ?")
		args = append(args, *p.ImageURL)
	}
	if p.AvailableSizes != nil {
		blob, err := marshalList(*p.AvailableSizes)
		if err != nil {
			return nil, err
		}
		set = append(set, "available_sizes = ?")
		args = append(args, blob)
	}
	if p.AvailableColors != nil {
		blob, err := marshalList(*p.AvailableColors)
		if err != nil {
			return nil, err
		}
		set = append(set, "available_colors = ?")
		args = append(args, blob)
	}
	var subCheck *uint64
	if p.SubcategoryID != nil {
		subCheck = *p.SubcategoryID
		set = append(set, "subcategory_id = ?")
		args = append(args, *p.SubcategoryID)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if subCheck != nil {
		if err = subcategoryExists(ctx, tx, *subCheck); err != nil {
			return nil, err
		}
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err = tx.ExecContext(ctx, "UPDATE products SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, err
		}
	}
	if p.Categories != nil {
		if err = replaceTaggings(ctx, tx, id, *p.Categories, p.Featured); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a product and its taggings in one transaction. Only
// the owner may delete.
func (r *ProductRepo) Delete(ctx context.Context, id, callerID uint64) (err error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != callerID {
		return ErrForbidden
	}

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
	if _, err = tx.ExecContext(ctx, "DELETE FROM product_categories WHERE product_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	return err
}

// replaceTaggings deletes every tagging of the product and reinserts
// the supplied category list, all rows sharing one featured value.
// The replacement is wholesale, never a diff.
func replaceTaggings(ctx context.Context, tx *sql.Tx, productID uint64, categoryIDs []uint64, featured bool) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM product_categories WHERE product_id = ?", productID); err != nil {
		return err
	}
	for _, catID := range categoryIDs {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE id = ?", catID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return ErrCategoryNotFound
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_categories (product_id, category_id, featured) VALUES (?,?,?)",
			productID, catID, featured); err != nil {
			return err
		}
	}
	return nil
}

// rowScanner lets scanProduct work for both QueryRow and Query rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		p      model.Product
		sizes  sql.NullString
		colors sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.InventoryCount,
		&p.ImageURL, &sizes, &colors, &p.UserID, &p.SubcategoryID)
	if err != nil {
		return nil, err
	}
	if p.AvailableSizes, err = unmarshalList(sizes); err != nil {
		return nil, err
	}
	if p.AvailableColors, err = unmarshalList(colors); err != nil {
		return nil, err
	}
	return &p, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	return string(b), err
}

func unmarshalList(blob sql.NullString) ([]string, error) {
	if !blob.Valid || blob.String == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(blob.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}
