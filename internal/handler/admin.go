package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
)

// AdminHandler is the operator console: order management, sales stats and
// price-table configuration. Every route here sits behind session auth.
type AdminHandler struct {
	Orders   repository.OrderStore
	Settings repository.SettingsStore
}

func NewAdminHandler(orders repository.OrderStore, settings repository.SettingsStore) *AdminHandler {
	return &AdminHandler{Orders: orders, Settings: settings}
}

// ListOrders returns every order, newest first.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders, "count": len(orders)})
}

// GetOrder returns one order by id.
func (h *AdminHandler) GetOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

type statsResp struct {
	TotalOrders  int            `json:"total_orders"`
	ByStatus     map[string]int `json:"by_status"`
	Revenue      int            `json:"revenue"`
	PendingValue int            `json:"pending_value"`
}

// Stats summarizes the order book. Revenue counts completed orders only;
// pending value is what is still awaiting approval.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return writeErr(c, err)
	}

	resp := statsResp{ByStatus: map[string]int{}}
	for _, o := range orders {
		resp.TotalOrders++
		resp.ByStatus[string(o.Status)]++
		switch o.Status {
		case model.StatusCompleted:
			resp.Revenue += o.TotalAmount
		case model.StatusPending:
			resp.PendingValue += o.TotalAmount
		}
	}
	return c.JSON(http.StatusOK, resp)
}

type updateStatusReq struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus moves an order through its lifecycle. Backward moves are
// rejected by the store with a conflict.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, c.Param("id"), status, req.Notes); err != nil {
		return writeErr(c, err)
	}
	order, err := h.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

type updatePriceReq struct {
	ItemIndex int `json:"item_index"`
	Price     int `json:"price"`
}

// UpdateItemPrice overrides one line item's price, for negotiated discounts
// or custom-size corrections. The order total is recomputed in the store.
func (h *AdminHandler) UpdateItemPrice(c echo.Context) error {
	var req updatePriceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.UpdateItemPrice(ctx, c.Param("id"), req.ItemIndex, req.Price); err != nil {
		return writeErr(c, err)
	}
	order, err := h.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order permanently.
func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.Delete(ctx, c.Param("id")); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type saveSizesReq struct {
	Sizes []model.StandardSize `json:"sizes"`
}

// SaveSizes replaces the standard-size price table.
func (h *AdminHandler) SaveSizes(c echo.Context) error {
	var req saveSizesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Sizes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one size is required"})
	}
	for _, s := range req.Sizes {
		if s.Width <= 0 || s.Height <= 0 || s.PriceNoBoard <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sizes need positive dimensions and prices"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	table, err := h.Settings.SavePriceTable(ctx, req.Sizes)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// ResetSizes restores the built-in price table.
func (h *AdminHandler) ResetSizes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	table, err := h.Settings.ResetPriceTable(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, table)
}
