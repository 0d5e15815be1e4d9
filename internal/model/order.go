// Package model defines the domain entities of the poster storefront: orders
// with their embedded line items and shipping details, the configurable
// standard-size table and gallery image metadata.
package model

import "time"

// Status enumerates the order lifecycle. Transitions only move forward:
// pending -> approved|rejected, approved -> ready_to_ship|completed,
// ready_to_ship -> completed. CanTransition is the single source of truth;
// stores must reject anything it does not allow.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusReadyToShip Status = "ready_to_ship"
	StatusCompleted   Status = "completed"
)

// ParseStatus returns the Status for s, or false when s is not a known value.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusReadyToShip, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusReadyToShip || to == StatusCompleted
	case StatusReadyToShip:
		return to == StatusCompleted
	}
	return false
}

// LineItem is one poster within an order. Width and height are inches,
// Price is whole taka. ImageData carries a base64 upload payload during
// checkout only and is never persisted; ImageURL is the stored location.
type LineItem struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	WithBoard bool   `json:"with_board"`
	Price     int    `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	ImageData string `json:"image_data,omitempty"`
}

// ShippingInfo holds the customer-supplied delivery details collected at
// checkout. InsideDhaka selects the flat shipping fee.
type ShippingInfo struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,bd_mobile"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	InsideDhaka bool   `json:"inside_dhaka"`
}

// Order is the central aggregate. Items and Shipping have no independent
// lifecycle and are embedded in the persisted record as JSON.
type Order struct {
	ID            string       `json:"id"`
	OrderNumber   string       `json:"order_number"`
	Items         []LineItem   `json:"items"`
	Shipping      ShippingInfo `json:"shipping"`
	PaymentMethod string       `json:"payment_method"`
	TransactionID string       `json:"transaction_id,omitempty"`
	ShippingCost  int          `json:"shipping_cost"`
	TotalAmount   int          `json:"total_amount"`
	Status        Status       `json:"status"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	ApprovedAt    *time.Time   `json:"approved_at,omitempty"`
}

// Subtotal sums the line item prices.
func (o *Order) Subtotal() int {
	sum := 0
	for _, it := range o.Items {
		sum += it.Price
	}
	return sum
}

// RecomputeTotal re-derives the order total from its items and shipping cost.
// Call after any item price or shipping cost change.
func (o *Order) RecomputeTotal() {
	o.TotalAmount = o.Subtotal() + o.ShippingCost
}

// PaymentMethod values accepted at checkout.
const (
	PaymentCOD   = "cod"
	PaymentBkash = "bkash"
)
