package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/stylish/clothing-store/internal/middleware"
	"github.com/stylish/clothing-store/internal/model"
	"github.com/stylish/clothing-store/internal/repository"
)

// ProductHandler serves catalog CRUD and the filtered listing. Reads
// need no session; creating takes the seller from the session binding
// and updates/deletes are owner-only.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(p *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: p}
}

type productReq struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	InventoryCount  int              `json:"inventory_count"`
	ImageURL        string           `json:"image_url"`
	AvailableSizes  []string         `json:"available_sizes"`
	AvailableColors []string         `json:"available_colors"`
	SubcategoryID   *uint64          `json:"subcategory_id"`
	Categories      []uint64         `json:"categories"`
	Featured        bool             `json:"featured"`
}

// Create lists a new product for the authenticated seller. Size and
// color labels are free-form strings; no enumeration is enforced. The
// optional categories list tags the product on creation, every tagging
// sharing the request's featured flag.
func (h *ProductHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price is required"})
	}
	if req.Price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
	}
	if req.InventoryCount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "inventory_count must be non-negative"})
	}

	p := &model.Product{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           *req.Price,
		InventoryCount:  req.InventoryCount,
		ImageURL:        req.ImageURL,
		AvailableSizes:  req.AvailableSizes,
		AvailableColors: req.AvailableColors,
		UserID:          uid,
		SubcategoryID:   req.SubcategoryID,
	}
	created, err := h.Products.Create(c.Request().Context(), p, req.Categories, req.Featured)
	if err != nil {
		switch err {
		case repository.ErrSubcategoryNotFound, repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// List serves GET /products with the optional category, subcategory
// and search query parameters. Filters combine conjunctively; a
// category of "All" or any unknown name applies no filter.
func (h *ProductHandler) List(c echo.Context) error {
	q := repository.ProductQuery{
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Term:        c.QueryParam("search"),
	}
	products, err := h.Products.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

type productPatchReq struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	InventoryCount  *int             `json:"inventory_count"`
	ImageURL        *string          `json:"image_url"`
	AvailableSizes  *[]string        `json:"available_sizes"`
	AvailableColors *[]string        `json:"available_colors"`
	SubcategoryID   *uint64          `json:"subcategory_id"`
	Categories      *[]uint64        `json:"categories"`
	Featured        bool             `json:"featured"`
}

// Update patches a product. The patchable fields form an explicit
// allow-list; any other key in the body never reaches the database.
// A categories list replaces all existing taggings wholesale.
func (h *ProductHandler) Update(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	var req productPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price != nil && req.Price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
	}
	if req.InventoryCount != nil && *req.InventoryCount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "inventory_count must be non-negative"})
	}

	patch := repository.ProductPatch{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		InventoryCount:  req.InventoryCount,
		ImageURL:        req.ImageURL,
		AvailableSizes:  req.AvailableSizes,
		AvailableColors: req.AvailableColors,
		Categories:      req.Categories,
		Featured:        req.Featured,
	}
	if req.SubcategoryID != nil {
		sub := req.SubcategoryID
		patch.SubcategoryID = &sub
	}

	p, err := h.Products.Update(c.Request().Context(), id, uid, patch)
	if err != nil {
		switch err {
		case repository.ErrProductNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
		case repository.ErrSubcategoryNotFound, repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a product and its taggings. Owner-only.
func (h *ProductHandler) Delete(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	if err := h.Products.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case repository.ErrProductNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
