package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stylish/clothing-store/internal/repository"
)

// TaxonomyHandler serves category and subcategory CRUD. Reads are
// public; mutations sit behind the session middleware.
type TaxonomyHandler struct {
	Categories    *repository.CategoryRepo
	Subcategories *repository.SubcategoryRepo
}

func NewTaxonomyHandler(cat *repository.CategoryRepo, sub *repository.SubcategoryRepo) *TaxonomyHandler {
	return &TaxonomyHandler{Categories: cat, Subcategories: sub}
}

type categoryReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cat, err := h.Categories.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		if err == repository.ErrCategoryNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, cat)
}

// ListCategories returns every category with its subcategories nested.
func (h *TaxonomyHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *TaxonomyHandler) GetCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cat)
}

type categoryPatchReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *TaxonomyHandler) UpdateCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	var req categoryPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cat, err := h.Categories.Update(c.Request().Context(), id,
		repository.CategoryPatch{Name: req.Name, Description: req.Description})
	if err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrCategoryNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

// DeleteCategory cascades over the category's subcategories, the
// products owned by those subcategories and every tagging involved.
// Products that were only tagged into the category stay.
func (h *TaxonomyHandler) DeleteCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
