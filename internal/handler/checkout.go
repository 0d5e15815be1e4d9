package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/checkout"
)

// CheckoutHandler exposes order placement.
type CheckoutHandler struct {
	Svc *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc}
}

// PlaceOrder accepts a checkout submission and returns the persisted order.
// Prices in the response are authoritative; whatever the client displayed is
// recomputed server-side.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	var req checkout.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	// uploads can be slow on large images, give this more room than a
	// plain store call
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	order, err := h.Svc.PlaceOrder(ctx, req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}
