package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/paperpatch/poster-store/internal/bkash"
	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
)

// PaymentHandler drives the hosted bKash checkout: create starts a gateway
// session, execute finalizes it, and callback is where the gateway redirects
// the customer afterwards. The callback never trusts its query parameters;
// the payment is re-queried server-side before anything is recorded.
type PaymentHandler struct {
	Orders        repository.OrderStore
	Gateway       *bkash.Client // nil when bKash credentials are absent
	PublicBaseURL string
}

func NewPaymentHandler(orders repository.OrderStore, gw *bkash.Client, baseURL string) *PaymentHandler {
	return &PaymentHandler{Orders: orders, Gateway: gw, PublicBaseURL: baseURL}
}

type createPaymentReq struct {
	OrderID string `json:"order_id"`
}

type executePaymentReq struct {
	PaymentID string `json:"payment_id"`
}

// Create opens a gateway payment session for a pending bKash order and
// returns the hosted checkout URL.
func (h *PaymentHandler) Create(c echo.Context) error {
	if h.Gateway == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment gateway not configured"})
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return writeErr(c, err)
	}
	if order.PaymentMethod != model.PaymentBkash {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order is not a bkash order"})
	}
	if order.TransactionID != "" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is already paid"})
	}

	callback := h.PublicBaseURL + "/v1/payment/callback"
	resp, err := h.Gateway.CreatePayment(c.Request().Context(), order.TotalAmount, order.ID, callback)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("bkash create payment failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment_id": resp.PaymentID,
		"bkash_url":  resp.BkashURL,
	})
}

// Execute finalizes a gateway session after the customer authorized it and
// attaches the transaction reference to the order.
func (h *PaymentHandler) Execute(c echo.Context) error {
	if h.Gateway == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment gateway not configured"})
	}
	var req executePaymentReq
	if err := c.Bind(&req); err != nil || req.PaymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id required"})
	}

	status, err := h.Gateway.ExecutePayment(c.Request().Context(), req.PaymentID)
	if err != nil {
		logrus.WithError(err).WithField("payment_id", req.PaymentID).Error("bkash execute failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway error"})
	}
	if !status.Completed() {
		return c.JSON(http.StatusOK, echo.Map{"status": status.TransactionStatus})
	}
	if err := h.attachTransaction(c.Request().Context(), status); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status.TransactionStatus, "trx_id": status.TrxID})
}

// Callback receives the customer redirect from the gateway. The reported
// outcome is only advisory; the authoritative status comes from QueryPayment.
func (h *PaymentHandler) Callback(c echo.Context) error {
	paymentID := c.QueryParam("paymentID")
	if h.Gateway == nil || paymentID == "" {
		return h.redirectResult(c, "", "failure")
	}

	status, err := h.Gateway.QueryPayment(c.Request().Context(), paymentID)
	if err != nil {
		logrus.WithError(err).WithField("payment_id", paymentID).Warn("bkash query failed on callback")
		return h.redirectResult(c, "", "failure")
	}
	if !status.Completed() {
		return h.redirectResult(c, status.MerchantInvoiceNumber, "failure")
	}
	if err := h.attachTransaction(c.Request().Context(), status); err != nil {
		logrus.WithError(err).WithField("order_id", status.MerchantInvoiceNumber).Error("could not record transaction")
		return h.redirectResult(c, status.MerchantInvoiceNumber, "failure")
	}
	return h.redirectResult(c, status.MerchantInvoiceNumber, "success")
}

// attachTransaction records the gateway reference on the order named by the
// merchant invoice number.
func (h *PaymentHandler) attachTransaction(ctx context.Context, status *bkash.PaymentStatusResponse) error {
	c, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return h.Orders.SetTransaction(c, status.MerchantInvoiceNumber, status.TrxID)
}

func (h *PaymentHandler) redirectResult(c echo.Context, orderID, outcome string) error {
	q := url.Values{"status": {outcome}}
	if orderID != "" {
		q.Set("order", orderID)
	}
	return c.Redirect(http.StatusFound, h.PublicBaseURL+"/payment-result?"+q.Encode())
}
