package model

// Category is the top level of the two-level taxonomy.  Its name is
// globally unique.  Reads return the category with its subcategories
// nested; the reverse direction is never embedded.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique category name.
//  Description   – optional free text.
//  Subcategories – nested children, populated on read paths.
type Category struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	Description   *string       `json:"description"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is the second taxonomy level.  Its name is unique only
// within the parent category, and the parent reference is mandatory.
type Subcategory struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	CategoryID uint64 `json:"category_id"`
}
