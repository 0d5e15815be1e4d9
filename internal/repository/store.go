package repository

import (
	"context"

	"github.com/paperpatch/poster-store/internal/model"
)

// OrderStore is the persistence contract for orders. Two implementations
// exist: OrderRepo (MySQL) and MemoryStore (per-process fallback when no
// database is configured). The implementation is chosen once at startup.
type OrderStore interface {
	// Create persists the full order graph as a single record write. It
	// assigns no identifiers; the caller supplies ID and order number.
	Create(ctx context.Context, o *model.Order) error
	// List returns all orders sorted newest-first.
	List(ctx context.Context) ([]model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// UpdateStatus moves the order through its lifecycle. Illegal moves
	// fail with ErrInvalidTransition; approving stamps the approval time.
	// Notes, when non-empty, replace the operator notes.
	UpdateStatus(ctx context.Context, id string, status model.Status, notes string) error
	// UpdateItemPrice overrides the price of one line item (by index) and
	// recomputes the order total as sum(items) + shipping cost.
	UpdateItemPrice(ctx context.Context, id string, itemIndex, price int) error
	// SetTransaction attaches a gateway transaction reference.
	SetTransaction(ctx context.Context, id, trxID string) error
	// Delete removes the order permanently.
	Delete(ctx context.Context, id string) error
}

// SettingsStore holds the versioned price-table configuration blob.
type SettingsStore interface {
	// PriceTable returns the stored table, or the seeded defaults when
	// nothing has been saved yet.
	PriceTable(ctx context.Context) (*model.PriceTable, error)
	// SavePriceTable stores the sizes and bumps the table version.
	SavePriceTable(ctx context.Context, sizes []model.StandardSize) (*model.PriceTable, error)
	// ResetPriceTable restores the seeded defaults.
	ResetPriceTable(ctx context.Context) (*model.PriceTable, error)
}

// GalleryStore manages marketing gallery image metadata.
type GalleryStore interface {
	ListImages(ctx context.Context) ([]model.GalleryImage, error)
	AddImage(ctx context.Context, img *model.GalleryImage) error
	DeleteImage(ctx context.Context, id uint64) error
}
