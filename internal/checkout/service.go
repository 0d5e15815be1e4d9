// Package checkout orchestrates order placement: item pricing against the
// configured size table, shipping validation, image upload, persistence,
// event publication and best-effort confirmation email.
package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/pricing"
	"github.com/paperpatch/poster-store/internal/queue"
	"github.com/paperpatch/poster-store/internal/repository"
	"github.com/paperpatch/poster-store/internal/storage"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poster_orders_placed_total",
		Help: "Orders successfully persisted through checkout.",
	})
	confirmationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poster_confirmation_email_failures_total",
		Help: "Order confirmation emails that failed to send.",
	})
)

// bdMobile matches local mobile numbers: 01 then an operator digit 3-9 and
// eight more digits.
var bdMobile = regexp.MustCompile(`^01[3-9][0-9]{8}$`)

// Notifier sends the order confirmation. Satisfied by *email.Sender; nil
// disables sends.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, o *model.Order) error
}

// ItemRequest is one poster as submitted by the storefront. Exactly one of
// ImageURL (already persisted) or ImageData (base64 upload payload) must be
// set.
type ItemRequest struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	WithBoard bool   `json:"with_board"`
	ImageURL  string `json:"image_url"`
	ImageData string `json:"image_data"`
}

// PlaceOrderRequest is the checkout submission. It carries no transaction
// reference; gateway trxIDs are only ever attached by the payment handlers
// after the gateway confirms completion.
type PlaceOrderRequest struct {
	Items         []ItemRequest      `json:"items"`
	Shipping      model.ShippingInfo `json:"shipping"`
	PaymentMethod string             `json:"payment_method"`
}

// pricedItem pairs a validated item with its server-computed price.
type pricedItem struct {
	item model.LineItem
}

// Options configures the optional collaborators of a Service.
type Options struct {
	Notifier  Notifier // nil disables confirmation email
	RabbitURL string   // empty disables order events
}

// Service runs the checkout flow. Prices are always computed server-side
// from the current price table; client-sent prices are ignored.
type Service struct {
	orders   repository.OrderStore
	settings repository.SettingsStore
	images   storage.ImageStore
	opts     Options
	validate *validator.Validate
}

// New returns a Service over the given stores.
func New(orders repository.OrderStore, settings repository.SettingsStore, images storage.ImageStore, opts Options) *Service {
	v := validator.New()
	// the only custom rule: local mobile-number format
	_ = v.RegisterValidation("bd_mobile", func(fl validator.FieldLevel) bool {
		return bdMobile.MatchString(fl.Field().String())
	})
	return &Service{orders: orders, settings: settings, images: images, opts: opts, validate: v}
}

// PlaceOrder drives one checkout session end to end and returns the
// persisted order. Image uploads happen before persistence and the order is
// only saved when every item resolved to a URL. Email dispatch and event
// publication are best-effort: their failure never unwinds a saved order.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error) {
	if req.PaymentMethod != model.PaymentCOD && req.PaymentMethod != model.PaymentBkash {
		return nil, &pricing.ValidationError{Field: "payment_method", Message: "must be cod or bkash"}
	}
	if err := s.validateShipping(req.Shipping); err != nil {
		return nil, err
	}

	table, err := s.settings.PriceTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load price table: %w", err)
	}
	engine := pricing.NewEngine(table.Sizes)

	sess := NewSession()
	for i, it := range req.Items {
		item, err := s.priceItem(engine, i, it)
		if err != nil {
			return nil, err
		}
		if err := sess.addItem(pricedItem{item: item}); err != nil {
			return nil, err
		}
	}
	if err := sess.proceed(); err != nil {
		return nil, err
	}

	return s.confirm(ctx, sess, req)
}

// confirm performs the Checkout -> Confirmed transition: upload, totals,
// persistence, event, email, in that order.
func (s *Service) confirm(ctx context.Context, sess *Session, req PlaceOrderRequest) (*model.Order, error) {
	if sess.State() != StateCheckout {
		return nil, ErrSessionState
	}

	orderID, err := randomHex(16)
	if err != nil {
		return nil, err
	}

	// Upload everything first; persist only if every item resolved, so a
	// stored order never references images that were lost mid-loop.
	items := make([]model.LineItem, 0, len(sess.items))
	for i, pi := range sess.items {
		item := pi.item
		if item.ImageURL == "" {
			url, err := s.images.SaveImage(orderID, item.ImageData)
			if err != nil {
				return nil, fmt.Errorf("upload image for item %d: %w", i, err)
			}
			item.ImageURL = url
		}
		item.ImageData = ""
		items = append(items, item)
	}

	order := &model.Order{
		ID:            orderID,
		OrderNumber:   pricing.OrderNumber(),
		Items:         items,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		ShippingCost:  model.ShippingCost(req.Shipping.InsideDhaka),
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	order.RecomputeTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	sess.confirmed()
	ordersPlaced.Inc()

	log := logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount,
	})
	log.Info("order placed")

	if s.opts.RabbitURL != "" {
		_ = queue.PublishOrderPlaced(ctx, s.opts.RabbitURL, queue.OrderPlacedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerName:  order.Shipping.Name,
			City:          order.Shipping.City,
			PaymentMethod: order.PaymentMethod,
			ItemCount:     len(order.Items),
			TotalAmount:   order.TotalAmount,
			PlacedAt:      order.CreatedAt.Format(time.RFC3339),
		})
	}

	// The order is already the source of truth; a lost email is logged
	// and the operator can resend from the dashboard.
	if s.opts.Notifier != nil {
		if err := s.opts.Notifier.SendOrderConfirmation(ctx, order); err != nil {
			confirmationFailures.Inc()
			log.WithError(err).Warn("order confirmation email failed")
		}
	}

	return order, nil
}

// priceItem validates one item's dimensions and computes its price.
func (s *Service) priceItem(engine *pricing.Engine, idx int, req ItemRequest) (model.LineItem, error) {
	if req.ImageURL == "" && req.ImageData == "" {
		return model.LineItem{}, &pricing.ValidationError{
			Field: fmt.Sprintf("items[%d].image", idx), Message: "an image is required",
		}
	}
	if !engine.IsStandard(req.Width, req.Height) {
		if err := pricing.ValidateCustomSize(req.Height, req.Width); err != nil {
			return model.LineItem{}, err
		}
	}
	price, err := engine.Price(req.Width, req.Height, req.WithBoard)
	if err != nil {
		return model.LineItem{}, err
	}
	return model.LineItem{
		Width:     req.Width,
		Height:    req.Height,
		WithBoard: req.WithBoard,
		Price:     price,
		ImageURL:  req.ImageURL,
		ImageData: req.ImageData,
	}, nil
}

// validateShipping runs the struct rules and converts the first violation
// into a field-scoped validation error.
func (s *Service) validateShipping(info model.ShippingInfo) error {
	err := s.validate.Struct(info)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "bd_mobile":
			msg = "must be a valid mobile number (01XXXXXXXXX)"
		}
		return &pricing.ValidationError{Field: "shipping." + fe.Field(), Message: msg}
	}
	return err
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
