package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stylish/clothing-store/internal/middleware"
	"github.com/stylish/clothing-store/internal/repository"
)

// TaggingHandler manages product-to-category links. Listing and
// fetching are public; creating, updating and deleting a tagging is
// reserved for the owner of the tagged product.
type TaggingHandler struct {
	Taggings *repository.TaggingRepo
}

func NewTaggingHandler(t *repository.TaggingRepo) *TaggingHandler {
	return &TaggingHandler{Taggings: t}
}

func (h *TaggingHandler) List(c echo.Context) error {
	taggings, err := h.Taggings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, taggings)
}

func (h *TaggingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	t, err := h.Taggings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrTaggingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tagging not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

type taggingReq struct {
	ProductID  uint64 `json:"product_id"`
	CategoryID uint64 `json:"category_id"`
	Featured   bool   `json:"featured"`
}

func (h *TaggingHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req taggingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and category_id are required"})
	}
	t, err := h.Taggings.Create(c.Request().Context(), req.ProductID, req.CategoryID, req.Featured, uid)
	if err != nil {
		switch err {
		case repository.ErrProductNotFound, repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tagging failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

type taggingPatchReq struct {
	Featured *bool `json:"featured"`
}

// Update toggles the featured flag. It is the only mutable field on a
// tagging; repointing a link means deleting and recreating it.
func (h *TaggingHandler) Update(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	var req taggingPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Featured == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "featured is required"})
	}
	t, err := h.Taggings.SetFeatured(c.Request().Context(), id, *req.Featured, uid)
	if err != nil {
		switch err {
		case repository.ErrTaggingNotFound, repository.ErrProductNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tagging not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update tagging failed"})
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaggingHandler) Delete(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	if err := h.Taggings.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case repository.ErrTaggingNotFound, repository.ErrProductNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tagging not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the product owner"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete tagging failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
