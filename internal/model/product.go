package model

import "github.com/shopspring/decimal"

// Product is a catalog item listed by a seller.  Variant attributes
// (sizes and colors) are ordered free-form string lists; they are kept
// as typed slices everywhere in the domain and serialized to a JSON
// text column only inside the repository layer.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name.
//  Description     – free text description.
//  Price           – non-negative decimal price.
//  InventoryCount  – non-negative stock counter, defaults to 0.
//  ImageURL        – optional image location.
//  AvailableSizes  – ordered size labels, any string accepted.
//  AvailableColors – ordered color labels, any string accepted.
//  UserID          – seller who owns the product.
//  SubcategoryID   – optional taxonomy placement.
type Product struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	InventoryCount  int             `json:"inventory_count"`
	ImageURL        string          `json:"image_url"`
	AvailableSizes  []string        `json:"available_sizes"`
	AvailableColors []string        `json:"available_colors"`
	UserID          uint64          `json:"user_id"`
	SubcategoryID   *uint64         `json:"subcategory_id"`
}

// ProductCategory is one tagging of one product into one category.
// A product may be tagged into several categories, each tagging with
// its own featured flag.  Deleting either side removes the tagging.
type ProductCategory struct {
	ID         uint64 `json:"id"`
	ProductID  uint64 `json:"product_id"`
	CategoryID uint64 `json:"category_id"`
	Featured   bool   `json:"featured"`
}
