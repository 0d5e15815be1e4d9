package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/email"
	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
)

// NotifyHandler resends transactional email on demand: the storefront can
// re-trigger an order confirmation, and the operator can announce shipping
// progress.
type NotifyHandler struct {
	Orders repository.OrderStore
	Mail   *email.Sender // nil when email is not configured
}

func NewNotifyHandler(orders repository.OrderStore, mail *email.Sender) *NotifyHandler {
	return &NotifyHandler{Orders: orders, Mail: mail}
}

type notifyOrderReq struct {
	OrderID string `json:"order_id"`
}

type notifyStatusReq struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// Order resends the confirmation email for an existing order.
func (h *NotifyHandler) Order(c echo.Context) error {
	if h.Mail == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email not configured"})
	}
	var req notifyOrderReq
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}

	order, err := h.loadOrder(c, req.OrderID)
	if err != nil {
		return writeErr(c, err)
	}
	if err := h.Mail.SendOrderConfirmation(c.Request().Context(), order); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "email delivery failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

// Status emails the customer about a shipping milestone. Only the two
// customer-visible milestones are allowed.
func (h *NotifyHandler) Status(c echo.Context) error {
	if h.Mail == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email not configured"})
	}
	var req notifyStatusReq
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}

	order, err := h.loadOrder(c, req.OrderID)
	if err != nil {
		return writeErr(c, err)
	}

	ctx := c.Request().Context()
	switch model.Status(req.Status) {
	case model.StatusReadyToShip:
		err = h.Mail.SendReadyToShip(ctx, order.OrderNumber, order.Shipping.Name, order.Shipping.Email)
	case model.StatusCompleted:
		err = h.Mail.SendDelivered(ctx, order.OrderNumber, order.Shipping.Name, order.Shipping.Email)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ready_to_ship or completed"})
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "email delivery failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

func (h *NotifyHandler) loadOrder(c echo.Context, id string) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	return h.Orders.GetByID(ctx, id)
}
