// Package email dispatches transactional mail through the Resend HTTP API.
// Sends are advisory: order persistence is the source of truth, so callers
// in the checkout flow log failures and move on.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paperpatch/poster-store/internal/model"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Config holds the Resend credential and addressing.
type Config struct {
	APIKey     string
	AdminEmail string // operator copy recipient and reply-to
	FromOrders string // e.g. "Paperpatch <orders@paperpatch.shop>"
	Endpoint   string // override for tests; defaults to the Resend API
}

// Configured reports whether sends can be attempted.
func (c Config) Configured() bool { return c.APIKey != "" && c.AdminEmail != "" }

// Sender sends templated storefront mail.
type Sender struct {
	cfg  Config
	http *http.Client
}

// NewSender returns a Sender with a 10 second request timeout.
func NewSender(cfg Config) *Sender {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.FromOrders == "" {
		cfg.FromOrders = "Paperpatch <orders@paperpatch.shop>"
	}
	return &Sender{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

type sendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendOrderConfirmation mails the customer their confirmation and the
// operator a new-order alert. Both sends must succeed for a nil return.
func (s *Sender) SendOrderConfirmation(ctx context.Context, o *model.Order) error {
	if err := s.send(ctx, sendReq{
		From:    s.cfg.FromOrders,
		To:      []string{o.Shipping.Email},
		ReplyTo: s.cfg.AdminEmail,
		Subject: fmt.Sprintf("Order Confirmation #%s", o.OrderNumber),
		HTML:    customerConfirmationHTML(o),
	}); err != nil {
		return fmt.Errorf("customer confirmation: %w", err)
	}
	if err := s.send(ctx, sendReq{
		From:    s.cfg.FromOrders,
		To:      []string{s.cfg.AdminEmail},
		ReplyTo: s.cfg.AdminEmail,
		Subject: fmt.Sprintf("New Order #%s - %s", o.OrderNumber, o.Shipping.Name),
		HTML:    adminAlertHTML(o),
	}); err != nil {
		return fmt.Errorf("admin alert: %w", err)
	}
	return nil
}

// SendReadyToShip tells the customer their posters are on the way.
func (s *Sender) SendReadyToShip(ctx context.Context, orderNumber, name, to string) error {
	return s.send(ctx, sendReq{
		From:    s.cfg.FromOrders,
		To:      []string{to},
		ReplyTo: s.cfg.AdminEmail,
		Subject: fmt.Sprintf("Your order #%s is ready to ship!", orderNumber),
		HTML:    statusHTML(orderNumber, name, "Your posters are packed and ready to ship. Expect delivery within a few days."),
	})
}

// SendDelivered confirms delivery of a completed order.
func (s *Sender) SendDelivered(ctx context.Context, orderNumber, name, to string) error {
	return s.send(ctx, sendReq{
		From:    s.cfg.FromOrders,
		To:      []string{to},
		ReplyTo: s.cfg.AdminEmail,
		Subject: fmt.Sprintf("Your order #%s has been delivered", orderNumber),
		HTML:    statusHTML(orderNumber, name, "Your order has been delivered. We hope the posters found a good wall!"),
	})
}

func (s *Sender) send(ctx context.Context, msg sendReq) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email api returned %d: %s", resp.StatusCode, raw)
	}
	return nil
}
