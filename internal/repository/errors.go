// Package repository contains the data access layer, separated from the
// HTTP handlers. This file defines sentinel errors shared across the
// repositories so that handlers can map failures onto the HTTP error
// taxonomy: not-found values become 404, conflict values become 409 and
// ErrForbidden becomes 403. Conflict sentinels name the offending field
// because registration must report which uniqueness rule was violated.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts a mutation on a
// resource owned by a different user. Handlers translate this into an
// HTTP 403 response; a missing session is handled earlier and maps to 401.
var ErrForbidden = errors.New("forbidden")

// Not-found sentinels, one per aggregate root.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTaggingNotFound     = errors.New("product category not found")
	ErrOrderNotFound       = errors.New("order not found")
)

// Uniqueness conflicts. Each names the field that collided.
var (
	ErrUsernameExists        = errors.New("username already exists")
	ErrEmailExists           = errors.New("email already exists")
	ErrCategoryNameExists    = errors.New("category name already exists")
	ErrSubcategoryNameExists = errors.New("subcategory name already exists in this category")
)
