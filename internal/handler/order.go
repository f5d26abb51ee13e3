package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/stylish/clothing-store/internal/middleware"
	"github.com/stylish/clothing-store/internal/model"
	"github.com/stylish/clothing-store/internal/queue"
	"github.com/stylish/clothing-store/internal/repository"
	queue_publisher "github.com/stylish/clothing-store/internal/service"
)

// OrderHandler serves the order ledger. Every route requires a session:
// listing returns only the caller's orders, fetching and patching are
// restricted to the buyer. Events is optional; when nil no checkout
// notifications are published.
type OrderHandler struct {
	Orders *repository.OrderRepo
	Events *queue_publisher.Publisher
}

func NewOrderHandler(o *repository.OrderRepo, events *queue_publisher.Publisher) *OrderHandler {
	return &OrderHandler{Orders: o, Events: events}
}

type orderReq struct {
	Status          string            `json:"status"`
	TotalAmount     *decimal.Decimal  `json:"total_amount"`
	ShippingAddress *string           `json:"shipping_address"`
	Items           []model.OrderItem `json:"items"`
}

// Create records a checkout for the authenticated buyer. Line items are
// optional and stored verbatim as a historical snapshot; product rows
// are never read or adjusted here, and the submitted total is trusted
// as-is.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TotalAmount == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount is required"})
	}
	if req.TotalAmount.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount must be non-negative"})
	}

	o := &model.Order{
		UserID:          uid,
		Status:          req.Status,
		TotalAmount:     *req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
	}
	created, err := h.Orders.Create(c.Request().Context(), o)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	// Fire-and-forget notification; a broker outage never fails the checkout.
	if h.Events != nil {
		go func(o *model.Order) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ev := queue.OrderCreatedEvent{
				OrderID:     o.ID,
				UserID:      o.UserID,
				Status:      o.Status,
				TotalAmount: o.TotalAmount.String(),
				Items:       o.Items,
				CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
			}
			if o.ShippingAddress != nil {
				ev.ShippingAddress = *o.ShippingAddress
			}
			_ = h.Events.PublishOrderCreated(ctx, ev)
		}(created)
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns the caller's orders, oldest first.
func (h *OrderHandler) List(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orders, err := h.Orders.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns a single order. A foreign order reads as 403, not 404,
// so the buyer learns the id exists but is not theirs.
func (h *OrderHandler) Get(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	o, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if o.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your order"})
	}
	return c.JSON(http.StatusOK, o)
}

type orderPatchReq struct {
	Status          *string            `json:"status"`
	TotalAmount     *decimal.Decimal   `json:"total_amount"`
	ShippingAddress *string            `json:"shipping_address"`
	Items           *[]model.OrderItem `json:"items"`
}

// Update patches an order. Buyer-only; status values are free-form
// strings and no transition rules are enforced.
func (h *OrderHandler) Update(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	var req orderPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount must be non-negative"})
	}

	o, err := h.Orders.Update(c.Request().Context(), id, uid, repository.OrderPatch{
		Status:          req.Status,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
	})
	if err != nil {
		switch err {
		case repository.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your order"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, o)
}
