package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a record-keeping entry, not a pricing engine: the total is
// caller-supplied and line items are stored verbatim at creation time.
// Status is a free-form string that defaults to "pending"; no transition
// graph is enforced.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – buyer who owns the order.
//  Status          – free-form status string.
//  TotalAmount     – caller-supplied decimal total.
//  ShippingAddress – optional delivery address.
//  Items           – embedded line items, immutable per write.
//  CreatedAt       – creation timestamp.
type Order struct {
	ID              uint64          `json:"id"`
	UserID          uint64          `json:"user_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress *string         `json:"shipping_address"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem captures one purchased line: the product, the quantity and
// the unit price at the moment of purchase, plus the selected variant.
// The whole list lives in a single JSON text column on the order row.
type OrderItem struct {
	ProductID       uint64          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Size            string          `json:"size,omitempty"`
	Color           string          `json:"color,omitempty"`
}
