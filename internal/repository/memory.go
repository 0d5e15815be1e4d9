package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/paperpatch/poster-store/internal/model"
)

// MemoryStore is the ephemeral fallback used when no database is configured.
// Records live only for the lifetime of the process and are lost on restart,
// so it degrades durability entirely; main logs a warning and the health
// endpoint reports the storage mode so the operator can see it. It
// implements the same store interfaces as the MySQL repositories.
type MemoryStore struct {
	mu      sync.RWMutex
	orders  map[string]*model.Order
	table   *model.PriceTable
	gallery map[uint64]*model.GalleryImage
	nextID  uint64
}

// NewMemoryStore returns an empty MemoryStore seeded with the default price table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:  make(map[string]*model.Order),
		table:   &model.PriceTable{Version: 0, Sizes: model.DefaultSizes()},
		gallery: make(map[uint64]*model.GalleryImage),
		nextID:  1,
	}
}

var (
	_ OrderStore    = (*MemoryStore)(nil)
	_ SettingsStore = (*MemoryStore)(nil)
	_ GalleryStore  = (*MemoryStore)(nil)

	_ OrderStore    = (*OrderRepo)(nil)
	_ SettingsStore = (*SettingsRepo)(nil)
	_ GalleryStore  = (*GalleryRepo)(nil)
)

// Create stores a copy of the order.
func (m *MemoryStore) Create(_ context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cloneOrder(o)
	m.orders[o.ID] = cp
	return nil
}

// List returns all orders sorted newest-first.
func (m *MemoryStore) List(_ context.Context) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID returns a copy of the order, or ErrNotFound.
func (m *MemoryStore) GetByID(_ context.Context, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

// UpdateStatus applies the same forward-only transition rules as the MySQL store.
func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status model.Status, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	if !model.CanTransition(o.Status, status) {
		return ErrInvalidTransition
	}
	o.Status = status
	if notes != "" {
		o.Notes = notes
	}
	if status == model.StatusApproved {
		now := time.Now().UTC()
		o.ApprovedAt = &now
	}
	return nil
}

// UpdateItemPrice overrides one line item price and re-derives the total.
func (m *MemoryStore) UpdateItemPrice(_ context.Context, id string, itemIndex, price int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	if itemIndex < 0 || itemIndex >= len(o.Items) {
		return ErrNotFound
	}
	o.Items[itemIndex].Price = price
	o.RecomputeTotal()
	return nil
}

// SetTransaction attaches a gateway transaction reference.
func (m *MemoryStore) SetTransaction(_ context.Context, id, trxID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.TransactionID = trxID
	return nil
}

// Delete removes the order permanently.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// PriceTable returns the current table snapshot.
func (m *MemoryStore) PriceTable(_ context.Context) (*model.PriceTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := *m.table
	cp.Sizes = append([]model.StandardSize(nil), m.table.Sizes...)
	return &cp, nil
}

// SavePriceTable replaces the table and bumps the version.
func (m *MemoryStore) SavePriceTable(_ context.Context, sizes []model.StandardSize) (*model.PriceTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = &model.PriceTable{
		Version: m.table.Version + 1,
		Sizes:   append([]model.StandardSize(nil), sizes...),
	}
	cp := *m.table
	return &cp, nil
}

// ResetPriceTable restores the seeded defaults as a new version.
func (m *MemoryStore) ResetPriceTable(ctx context.Context) (*model.PriceTable, error) {
	return m.SavePriceTable(ctx, model.DefaultSizes())
}

// ListImages returns gallery images newest-first.
func (m *MemoryStore) ListImages(_ context.Context) ([]model.GalleryImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.GalleryImage, 0, len(m.gallery))
	for _, img := range m.gallery {
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AddImage stores the image and assigns a sequential ID.
func (m *MemoryStore) AddImage(_ context.Context, img *model.GalleryImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img.ID = m.nextID
	m.nextID++
	cp := *img
	m.gallery[img.ID] = &cp
	return nil
}

// DeleteImage removes the image metadata.
func (m *MemoryStore) DeleteImage(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gallery[id]; !ok {
		return ErrNotFound
	}
	delete(m.gallery, id)
	return nil
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.LineItem(nil), o.Items...)
	if o.ApprovedAt != nil {
		t := *o.ApprovedAt
		cp.ApprovedAt = &t
	}
	return &cp
}
