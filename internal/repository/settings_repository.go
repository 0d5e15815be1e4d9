package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/paperpatch/poster-store/internal/model"
)

// settingsKey is the row key for the price-table singleton in the settings
// table. The table is stored as one JSON blob with a version counter so
// concurrent dashboards can detect a stale edit.
const priceTableKey = "price_table"

// SettingsRepo stores the versioned price-table blob in MySQL.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// PriceTable returns the stored table. When the row has never been written,
// the seeded defaults are returned at version 0 without touching the table.
func (r *SettingsRepo) PriceTable(ctx context.Context) (*model.PriceTable, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name = ?`, priceTableKey).Scan(&blob)
	if err == sql.ErrNoRows {
		return &model.PriceTable{Version: 0, Sizes: model.DefaultSizes()}, nil
	}
	if err != nil {
		return nil, err
	}
	var table model.PriceTable
	if err := json.Unmarshal(blob, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// SavePriceTable writes the sizes as the new table, incrementing the version.
func (r *SettingsRepo) SavePriceTable(ctx context.Context, sizes []model.StandardSize) (*model.PriceTable, error) {
	current, err := r.PriceTable(ctx)
	if err != nil {
		return nil, err
	}
	table := &model.PriceTable{Version: current.Version + 1, Sizes: sizes}
	if err := r.write(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// ResetPriceTable restores the seeded default sizes as a new version.
func (r *SettingsRepo) ResetPriceTable(ctx context.Context) (*model.PriceTable, error) {
	return r.SavePriceTable(ctx, model.DefaultSizes())
}

func (r *SettingsRepo) write(ctx context.Context, table *model.PriceTable) error {
	blob, err := json.Marshal(table)
	if err != nil {
		return err
	}
	const q = `INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`
	_, err = r.db.ExecContext(ctx, q, priceTableKey, blob, time.Now().UTC())
	return err
}
