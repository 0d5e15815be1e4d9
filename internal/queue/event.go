// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when checkout persists a new order. It
// carries enough information for downstream consumers to log or trigger
// analytics without querying the primary store.
type OrderPlacedEvent struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	CustomerName  string `json:"customer_name"`
	City          string `json:"city"`
	PaymentMethod string `json:"payment_method"`
	ItemCount     int    `json:"item_count"`
	TotalAmount   int    `json:"total_amount"`
	PlacedAt      string `json:"placed_at"`
}
