package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stylish/clothing-store/internal/repository"
)

type subcategoryReq struct {
	Name       string `json:"name"`
	CategoryID uint64 `json:"category_id"`
}

func (h *TaxonomyHandler) CreateSubcategory(c echo.Context) error {
	var req subcategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category_id are required"})
	}
	sub, err := h.Subcategories.Create(c.Request().Context(), req.Name, req.CategoryID)
	if err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrSubcategoryNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create subcategory failed"})
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *TaxonomyHandler) ListSubcategories(c echo.Context) error {
	subs, err := h.Subcategories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, subs)
}

func (h *TaxonomyHandler) GetSubcategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	sub, err := h.Subcategories.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrSubcategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subcategory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, sub)
}

type subcategoryPatchReq struct {
	Name       *string `json:"name"`
	CategoryID *uint64 `json:"category_id"`
}

func (h *TaxonomyHandler) UpdateSubcategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	var req subcategoryPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sub, err := h.Subcategories.Update(c.Request().Context(), id,
		repository.SubcategoryPatch{Name: req.Name, CategoryID: req.CategoryID})
	if err != nil {
		switch err {
		case repository.ErrSubcategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subcategory not found"})
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrSubcategoryNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, sub)
}

// DeleteSubcategory removes the subcategory and the products that
// reference it. Products cascade with their subcategory; they are
// never left behind with a dangling reference.
func (h *TaxonomyHandler) DeleteSubcategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	if err := h.Subcategories.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrSubcategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subcategory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
