// Package repository persists orders, the price-table settings blob and
// gallery image metadata. Sentinel errors defined here are shared by the
// MySQL-backed and in-memory implementations so handlers can map failures to
// HTTP status codes without knowing which store is active.
package repository

import "errors"

// ErrNotFound is returned when a referenced order or record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a status update would move an order
// backwards or sideways through its lifecycle. Handlers should translate
// this into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid status transition")
