package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/paperpatch/poster-store/internal/handler"
	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
)

func seedOrder(t *testing.T, st *repository.MemoryStore, id string, status model.Status, total int) {
	t.Helper()
	o := &model.Order{
		ID:          id,
		OrderNumber: "PP-TEST-" + id,
		Items: []model.LineItem{
			{Width: 12, Height: 8, Price: total - 80, ImageURL: "/uploads/x.jpg"},
		},
		Shipping: model.ShippingInfo{
			Name: "Karim", Phone: "01812345678", Email: "karim@example.com",
			Address: "Road 4", City: "Dhaka", InsideDhaka: true,
		},
		PaymentMethod: model.PaymentCOD,
		ShippingCost:  80,
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	o.RecomputeTotal()
	require.NoError(t, st.Create(context.Background(), o))
	if status != model.StatusPending {
		require.NoError(t, st.UpdateStatus(context.Background(), id, status, ""))
	}
}

// call routes a request through a fresh echo instance and returns the
// recorder, so handler behavior is tested including path params.
func call(h echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)
	return rec
}

func TestAdminListOrders(t *testing.T) {
	st := repository.NewMemoryStore()
	seedOrder(t, st, "a", model.StatusPending, 430)
	seedOrder(t, st, "b", model.StatusApproved, 630)
	h := handler.NewAdminHandler(st, st)

	rec := call(h.ListOrders, http.MethodGet, "/v1/admin/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count  int           `json:"count"`
		Orders []model.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	require.Len(t, body.Orders, 2)
}

func TestAdminStats(t *testing.T) {
	st := repository.NewMemoryStore()
	seedOrder(t, st, "a", model.StatusPending, 430)
	seedOrder(t, st, "b", model.StatusApproved, 630)
	require.NoError(t, st.UpdateStatus(context.Background(), "b", model.StatusCompleted, ""))
	h := handler.NewAdminHandler(st, st)

	rec := call(h.Stats, http.MethodGet, "/v1/admin/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalOrders  int            `json:"total_orders"`
		ByStatus     map[string]int `json:"by_status"`
		Revenue      int            `json:"revenue"`
		PendingValue int            `json:"pending_value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.TotalOrders)
	require.Equal(t, 1, body.ByStatus["pending"])
	require.Equal(t, 1, body.ByStatus["completed"])
	require.Equal(t, 630, body.Revenue)
	require.Equal(t, 430, body.PendingValue)
}

func TestAdminUpdateStatus(t *testing.T) {
	st := repository.NewMemoryStore()
	seedOrder(t, st, "a", model.StatusPending, 430)
	h := handler.NewAdminHandler(st, st)

	rec := call(h.UpdateStatus, http.MethodPatch, "/v1/admin/orders/a/status",
		`{"status":"approved","notes":"paid in person"}`, map[string]string{"id": "a"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, model.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	require.Equal(t, "paid in person", got.Notes)
}

func TestAdminUpdateStatus_BackwardIsConflict(t *testing.T) {
	st := repository.NewMemoryStore()
	seedOrder(t, st, "a", model.StatusApproved, 430)
	h := handler.NewAdminHandler(st, st)

	rec := call(h.UpdateStatus, http.MethodPatch, "/v1/admin/orders/a/status",
		`{"status":"pending"}`, map[string]string{"id": "a"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminUpdateStatus_UnknownOrder(t *testing.T) {
	st := repository.NewMemoryStore()
	h := handler.NewAdminHandler(st, st)

	rec := call(h.UpdateStatus, http.MethodPatch, "/v1/admin/orders/nope/status",
		`{"status":"approved"}`, map[string]string{"id": "nope"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUpdateItemPrice(t *testing.T) {
	st := repository.NewMemoryStore()
	seedOrder(t, st, "a", model.StatusPending, 430)
	h := handler.NewAdminHandler(st, st)

	rec := call(h.UpdateItemPrice, http.MethodPatch, "/v1/admin/orders/a/price",
		`{"item_index":0,"price":500}`, map[string]string{"id": "a"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 500, got.Items[0].Price)
	require.Equal(t, 580, got.TotalAmount)
}

func TestAdminUpdateItemPrice_BadIndex(t *testing.T) {
	st := repository.NewMemoryStore()
	seedOrder(t, st, "a", model.StatusPending, 430)
	h := handler.NewAdminHandler(st, st)

	rec := call(h.UpdateItemPrice, http.MethodPatch, "/v1/admin/orders/a/price",
		`{"item_index":7,"price":500}`, map[string]string{"id": "a"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSaveAndResetSizes(t *testing.T) {
	st := repository.NewMemoryStore()
	h := handler.NewAdminHandler(st, st)

	rec := call(h.SaveSizes, http.MethodPut, "/v1/admin/sizes",
		`{"sizes":[{"label":"12x8","width":12,"height":8,"price_without_board":400}]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var table model.PriceTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Equal(t, 1, table.Version)
	require.Len(t, table.Sizes, 1)

	rec = call(h.ResetSizes, http.MethodPost, "/v1/admin/sizes/reset", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Equal(t, 2, table.Version)
	require.Len(t, table.Sizes, len(model.DefaultSizes()))
}

func TestAdminSaveSizes_RejectsInvalid(t *testing.T) {
	st := repository.NewMemoryStore()
	h := handler.NewAdminHandler(st, st)

	rec := call(h.SaveSizes, http.MethodPut, "/v1/admin/sizes",
		`{"sizes":[{"label":"bad","width":0,"height":8,"price_without_board":400}]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
