package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paperpatch/poster-store/internal/bkash"
	"github.com/paperpatch/poster-store/internal/handler"
	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
)

// fakeGateway mimics the four gateway endpoints the client uses.
func fakeGateway(t *testing.T, queryStatus string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokenized/checkout/token/grant":
			json.NewEncoder(w).Encode(map[string]string{"id_token": "tok"})
		case "/tokenized/checkout/create":
			json.NewEncoder(w).Encode(map[string]string{
				"paymentID": "PAY1", "bkashURL": "https://pay.example/PAY1",
			})
		case "/tokenized/checkout/execute", "/tokenized/checkout/payment/status":
			json.NewEncoder(w).Encode(map[string]string{
				"paymentID":             "PAY1",
				"transactionStatus":     queryStatus,
				"trxID":                 "TRX123",
				"merchantInvoiceNumber": "bkash-order",
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func gatewayClient(url string) *bkash.Client {
	return bkash.NewClient(bkash.Config{
		BaseURL: url, AppKey: "k", AppSecret: "s", Username: "u", Password: "p",
	})
}

func seedBkashOrder(t *testing.T, st *repository.MemoryStore) {
	t.Helper()
	o := &model.Order{
		ID:          "bkash-order",
		OrderNumber: "PP-TEST-BK",
		Items:       []model.LineItem{{Width: 12, Height: 8, Price: 350, ImageURL: "/uploads/x.jpg"}},
		Shipping: model.ShippingInfo{
			Name: "Karim", Phone: "01812345678", Email: "karim@example.com",
			Address: "Road 4", City: "Dhaka", InsideDhaka: true,
		},
		PaymentMethod: model.PaymentBkash,
		ShippingCost:  80,
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	o.RecomputeTotal()
	require.NoError(t, st.Create(context.Background(), o))
}

func TestPaymentCreate(t *testing.T) {
	gw := fakeGateway(t, "Initiated")
	defer gw.Close()

	st := repository.NewMemoryStore()
	seedBkashOrder(t, st)
	h := handler.NewPaymentHandler(st, gatewayClient(gw.URL), "https://shop.example")

	rec := call(h.Create, http.MethodPost, "/v1/payment/create", `{"order_id":"bkash-order"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "PAY1", body["payment_id"])
	require.Equal(t, "https://pay.example/PAY1", body["bkash_url"])
}

func TestPaymentCreate_NotConfigured(t *testing.T) {
	st := repository.NewMemoryStore()
	h := handler.NewPaymentHandler(st, nil, "https://shop.example")

	rec := call(h.Create, http.MethodPost, "/v1/payment/create", `{"order_id":"x"}`, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaymentCreate_CODOrderRejected(t *testing.T) {
	gw := fakeGateway(t, "Initiated")
	defer gw.Close()

	st := repository.NewMemoryStore()
	seedOrder(t, st, "cod-order", model.StatusPending, 430)
	h := handler.NewPaymentHandler(st, gatewayClient(gw.URL), "https://shop.example")

	rec := call(h.Create, http.MethodPost, "/v1/payment/create", `{"order_id":"cod-order"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentExecute_RecordsTransaction(t *testing.T) {
	gw := fakeGateway(t, "Completed")
	defer gw.Close()

	st := repository.NewMemoryStore()
	seedBkashOrder(t, st)
	h := handler.NewPaymentHandler(st, gatewayClient(gw.URL), "https://shop.example")

	rec := call(h.Execute, http.MethodPost, "/v1/payment/execute", `{"payment_id":"PAY1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := st.GetByID(context.Background(), "bkash-order")
	require.NoError(t, err)
	require.Equal(t, "TRX123", got.TransactionID)
}

func TestPaymentCallback_VerifiesBeforeRecording(t *testing.T) {
	gw := fakeGateway(t, "Completed")
	defer gw.Close()

	st := repository.NewMemoryStore()
	seedBkashOrder(t, st)
	h := handler.NewPaymentHandler(st, gatewayClient(gw.URL), "https://shop.example")

	rec := call(h.Callback, http.MethodGet, "/v1/payment/callback?paymentID=PAY1&status=success", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "status=success")

	got, err := st.GetByID(context.Background(), "bkash-order")
	require.NoError(t, err)
	require.Equal(t, "TRX123", got.TransactionID)
}

func TestPaymentCallback_FailedPaymentNotRecorded(t *testing.T) {
	// redirect claims success but the gateway says the payment never
	// completed; nothing may be written
	gw := fakeGateway(t, "Failed")
	defer gw.Close()

	st := repository.NewMemoryStore()
	seedBkashOrder(t, st)
	h := handler.NewPaymentHandler(st, gatewayClient(gw.URL), "https://shop.example")

	rec := call(h.Callback, http.MethodGet, "/v1/payment/callback?paymentID=PAY1&status=success", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "status=failure")

	got, err := st.GetByID(context.Background(), "bkash-order")
	require.NoError(t, err)
	require.Empty(t, got.TransactionID)
}
