// Package bkash is a client for the bKash tokenized-checkout REST API. The
// checkout flow uses three sequential calls (token grant, create, execute);
// QueryPayment backs server-side verification of gateway callbacks. There is
// no retry policy: every failure is surfaced once to the caller.
package bkash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrAuth is returned when the credential exchange is rejected by the
// gateway. Handlers surface it as a generic payment failure; the provider
// response is logged server-side only.
var ErrAuth = errors.New("bkash: token grant rejected")

// GatewayError carries the provider's raw error body for a non-2xx response
// from the create/execute/query endpoints. The body must never reach the
// customer; it is meant for server-side logs.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("bkash: gateway returned %d: %s", e.Status, e.Body)
}

// Config holds the merchant credentials and the gateway base URL.
type Config struct {
	BaseURL   string
	AppKey    string
	AppSecret string
	Username  string
	Password  string
}

// Configured reports whether all required credentials are present.
func (c Config) Configured() bool {
	return c.BaseURL != "" && c.AppKey != "" && c.AppSecret != "" && c.Username != "" && c.Password != ""
}

// Client talks to one bKash merchant endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a Client with a 15 second request timeout.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, http: &http.Client{Timeout: 15 * time.Second}}
}

// CreatePaymentResponse is the subset of the create response the storefront
// uses: the payment identifier and the URL the customer is redirected to.
type CreatePaymentResponse struct {
	PaymentID             string `json:"paymentID"`
	BkashURL              string `json:"bkashURL"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Intent                string `json:"intent"`
	MerchantInvoiceNumber string `json:"merchantInvoiceNumber"`
	TransactionStatus     string `json:"transactionStatus"`
}

// PaymentStatusResponse is returned by execute and query calls.
type PaymentStatusResponse struct {
	PaymentID             string `json:"paymentID"`
	TransactionStatus     string `json:"transactionStatus"`
	TrxID                 string `json:"trxID,omitempty"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	MerchantInvoiceNumber string `json:"merchantInvoiceNumber"`
	CustomerMsisdn        string `json:"customerMsisdn,omitempty"`
}

// Completed reports whether the gateway settled the payment.
func (r *PaymentStatusResponse) Completed() bool {
	return r.TransactionStatus == "Completed"
}

// GrantToken exchanges the merchant credentials for a bearer token. A non-2xx
// response fails with ErrAuth.
func (c *Client) GrantToken(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"app_key":    c.cfg.AppKey,
		"app_secret": c.cfg.AppSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/tokenized/checkout/token/grant", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("username", c.cfg.Username)
	req.Header.Set("password", c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w (status %d)", ErrAuth, resp.StatusCode)
	}
	var tok struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.IDToken == "" {
		return "", ErrAuth
	}
	return tok.IDToken, nil
}

// CreatePayment opens a payment for the given amount (whole taka) keyed by
// the order identifier. callbackURL is where the gateway redirects the
// customer afterwards.
func (c *Client) CreatePayment(ctx context.Context, amount int, orderID, callbackURL string) (*CreatePaymentResponse, error) {
	payload := map[string]string{
		"mode":                  "0011", // instant checkout
		"payerReference":        " ",
		"callbackURL":           callbackURL,
		"amount":                strconv.Itoa(amount),
		"currency":              "BDT",
		"intent":                "sale",
		"merchantInvoiceNumber": orderID,
	}
	var out CreatePaymentResponse
	if err := c.post(ctx, "/tokenized/checkout/create", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecutePayment finalizes a created payment after the customer authorized it.
func (c *Client) ExecutePayment(ctx context.Context, paymentID string) (*PaymentStatusResponse, error) {
	var out PaymentStatusResponse
	if err := c.post(ctx, "/tokenized/checkout/execute", map[string]string{"paymentID": paymentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryPayment fetches the current status of a payment. The callback handler
// uses it to verify success server-side instead of trusting redirect
// parameters.
func (c *Client) QueryPayment(ctx context.Context, paymentID string) (*PaymentStatusResponse, error) {
	var out PaymentStatusResponse
	if err := c.post(ctx, "/tokenized/checkout/payment/status", map[string]string{"paymentID": paymentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post grants a fresh token, then issues one authorized POST. Non-2xx
// responses become *GatewayError with the provider body attached.
func (c *Client) post(ctx context.Context, path string, payload map[string]string, out any) error {
	token, err := c.GrantToken(ctx)
	if err != nil {
		return err
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-APP-Key", c.cfg.AppKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &GatewayError{Status: resp.StatusCode, Body: string(raw)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
