package bkash_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paperpatch/poster-store/internal/bkash"
)

func testConfig(baseURL string) bkash.Config {
	return bkash.Config{
		BaseURL:   baseURL,
		AppKey:    "key",
		AppSecret: "secret",
		Username:  "merchant",
		Password:  "pass",
	}
}

func grantHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "merchant", r.Header.Get("username"))
		require.Equal(t, "pass", r.Header.Get("password"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "key", body["app_key"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id_token": "tok-1", "expires_in": 3600})
	}
}

func TestGrantToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tokenized/checkout/token/grant", r.URL.Path)
		grantHandler(t)(w, r)
	}))
	defer srv.Close()

	c := bkash.NewClient(testConfig(srv.URL))
	tok, err := c.GrantToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)
}

func TestGrantToken_RejectedIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := bkash.NewClient(testConfig(srv.URL))
	_, err := c.GrantToken(context.Background())
	require.ErrorIs(t, err, bkash.ErrAuth)
}

func TestCreatePayment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", grantHandler(t))
	mux.HandleFunc("/tokenized/checkout/create", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok-1", r.Header.Get("Authorization"))
		require.Equal(t, "key", r.Header.Get("X-APP-Key"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "1030", body["amount"])
		require.Equal(t, "BDT", body["currency"])
		require.Equal(t, "order-1", body["merchantInvoiceNumber"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"paymentID": "pay-1",
			"bkashURL":  "https://gateway/pay-1",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := bkash.NewClient(testConfig(srv.URL))
	resp, err := c.CreatePayment(context.Background(), 1030, "order-1", "https://shop/callback")
	require.NoError(t, err)
	require.Equal(t, "pay-1", resp.PaymentID)
	require.Equal(t, "https://gateway/pay-1", resp.BkashURL)
}

func TestExecutePayment_GatewayErrorKeepsBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", grantHandler(t))
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorCode":"2023","errorMessage":"Insufficient Balance"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := bkash.NewClient(testConfig(srv.URL))
	_, err := c.ExecutePayment(context.Background(), "pay-1")
	require.Error(t, err)
	var gerr *bkash.GatewayError
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, http.StatusBadRequest, gerr.Status)
	require.Contains(t, gerr.Body, "Insufficient Balance")
}

func TestQueryPayment_Completed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", grantHandler(t))
	mux.HandleFunc("/tokenized/checkout/payment/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"paymentID":             "pay-1",
			"transactionStatus":     "Completed",
			"trxID":                 "TRX123",
			"merchantInvoiceNumber": "order-1",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := bkash.NewClient(testConfig(srv.URL))
	st, err := c.QueryPayment(context.Background(), "pay-1")
	require.NoError(t, err)
	require.True(t, st.Completed())
	require.Equal(t, "TRX123", st.TrxID)
	require.Equal(t, "order-1", st.MerchantInvoiceNumber)
}
