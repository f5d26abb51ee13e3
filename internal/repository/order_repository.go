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

// OrderRepo persists customer orders. Line items are stored verbatim as
// a JSON blob on the order row: the ledger records what the caller
// says was bought, it does not reprice against the catalog, recompute
// the total or touch inventory.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id, user_id, status, total_amount, shipping_address, items_json, created_at"

// Create inserts an order for the buyer. An empty status defaults to
// "pending"; any other caller-supplied value is accepted as-is.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	status := strings.TrimSpace(o.Status)
	if status == "" {
		status = "pending"
	}
	items, err := marshalItems(o.Items)
	if err != nil {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO orders (user_id, status, total_amount, shipping_address, items_json) VALUES (?,?,?,?,?)",
		o.UserID, status, o.TotalAmount, o.ShippingAddress, items)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one order.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// ListByUser returns only the orders owned by the given buyer.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// OrderPatch is the allow-list of patchable order fields. Items, when
// present, replaces the stored list wholesale.
type OrderPatch struct {
	Status          *string
	TotalAmount     *decimal.Decimal
	ShippingAddress *string
	Items           *[]model.OrderItem
}

// Update applies a patch on behalf of callerID, who must be the buyer.
func (r *OrderRepo) Update(ctx context.Context, id, callerID uint64, p OrderPatch) (*model.Order, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, ErrForbidden
	}

	set := []string{}
	args := []any{}
	if p.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *p.Status)
	}
	if p.TotalAmount != nil {
		set = append(set, "total_amount = ?")
		args = append(args, *p.TotalAmount)
	}
	if p.ShippingAddress != nil {
		set = append(set, "shipping_address = ?")
		args = append(args, *p.ShippingAddress)
	}
	if p.Items != nil {
		blob, err := marshalItems(*p.Items)
		if err != nil {
			return nil, err
		}
		set = append(set, "items_json = ?")
		args = append(args, blob)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx, "UPDATE orders SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o     model.Order
		items sql.NullString
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.ShippingAddress, &items, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []model.OrderItem{}
	if items.Valid && items.String != "" {
		if err := json.Unmarshal([]byte(items.String), &o.Items); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func marshalItems(items []model.OrderItem) (string, error) {
	if items == nil {
		items = []model.OrderItem{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}
