package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/paperpatch/poster-store/internal/model"
)

// OrderRepo provides CRUD operations for orders backed by MySQL. An order is
// stored as a single row: line items and shipping info are serialized into
// JSON columns rather than normalized, so every write is one atomic record
// write. All timestamp fields are stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts the order as one row. The caller supplies the ID, order
// number, computed totals and creation time.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}
	const q = `INSERT INTO orders
		(id, order_number, items, shipping, payment_method, transaction_id,
		 shipping_cost, total_amount, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		o.ID, o.OrderNumber, items, shipping, o.PaymentMethod,
		nullStr(o.TransactionID), o.ShippingCost, o.TotalAmount,
		string(o.Status), nullStr(o.Notes), o.CreatedAt.UTC(),
	)
	return err
}

// List returns all orders sorted newest-first.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	const q = `SELECT id, order_number, items, shipping, payment_method, transaction_id,
	                  shipping_cost, total_amount, status, notes, created_at, approved_at
	           FROM orders
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID loads one order. Returns ErrNotFound when the id does not exist.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const q = `SELECT id, order_number, items, shipping, payment_method, transaction_id,
	                  shipping_cost, total_amount, status, notes, created_at, approved_at
	           FROM orders WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return o, err
}

// UpdateStatus transitions the order's status inside a transaction so the
// forward-only check and the write see the same row. Setting status to
// approved stamps approved_at. Illegal moves fail with ErrInvalidTransition.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status model.Status, notes string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ? FOR UPDATE`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !model.CanTransition(model.Status(current), status) {
		return ErrInvalidTransition
	}

	if status == model.StatusApproved {
		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET status = ?, notes = COALESCE(NULLIF(?, ''), notes), approved_at = ? WHERE id = ?`,
			string(status), notes, time.Now().UTC(), id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET status = ?, notes = COALESCE(NULLIF(?, ''), notes) WHERE id = ?`,
			string(status), notes, id)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateItemPrice overrides the price of the line item at itemIndex and
// recomputes total_amount as the sum of all item prices plus shipping. An
// out-of-range index fails with ErrNotFound.
func (r *OrderRepo) UpdateItemPrice(ctx context.Context, id string, itemIndex, price int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var itemsJSON []byte
	var shippingCost int
	err = tx.QueryRowContext(ctx,
		`SELECT items, shipping_cost FROM orders WHERE id = ? FOR UPDATE`, id).
		Scan(&itemsJSON, &shippingCost)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var items []model.LineItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(items) {
		return ErrNotFound
	}
	items[itemIndex].Price = price
	total := shippingCost
	for _, it := range items {
		total += it.Price
	}
	updated, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET items = ?, total_amount = ? WHERE id = ?`,
		updated, total, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SetTransaction records the gateway transaction reference on the order.
func (r *OrderRepo) SetTransaction(ctx context.Context, id, trxID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET transaction_id = ? WHERE id = ?`, trxID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order permanently. Returns ErrNotFound when absent.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*model.Order, error) {
	var o model.Order
	var itemsJSON, shippingJSON []byte
	var trxID, notes sql.NullString
	var status string
	var approvedAt sql.NullTime
	if err := s.Scan(
		&o.ID, &o.OrderNumber, &itemsJSON, &shippingJSON, &o.PaymentMethod, &trxID,
		&o.ShippingCost, &o.TotalAmount, &status, &notes, &o.CreatedAt, &approvedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shippingJSON, &o.Shipping); err != nil {
		return nil, err
	}
	o.Status = model.Status(status)
	if trxID.Valid {
		o.TransactionID = trxID.String
	}
	if notes.Valid {
		o.Notes = notes.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time.UTC()
		o.ApprovedAt = &t
	}
	return &o, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
