package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// OrderRepo provides persistence for seller-scoped orders and their line
// items. Order and order_items rows for one seller group are always written
// inside a single transaction started by the checkout service.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts a new order within the scope of an existing transaction.
// It populates the generated ID and timestamps on the provided record. The
// caller must commit or rollback the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders
         (buyer_id, seller_id, total_amount_cents, payment_method,
          shipping_address, shipping_phone, notes, status)
         VALUES (?,?,?,?,?,?,?,?)`,
		o.BuyerID, o.SellerID, o.TotalAmountCents, string(o.PaymentMethod),
		o.ShippingAddress, o.ShippingPhone, o.Notes, string(o.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	// query back the row to populate timestamps and defaults
	var status string
	var notes sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT buyer_id, seller_id, total_amount_cents, payment_method,
                shipping_address, shipping_phone, notes, status, created_at, updated_at
         FROM orders WHERE id = ?`, o.ID).Scan(
		&o.BuyerID, &o.SellerID, &o.TotalAmountCents, (*string)(&o.PaymentMethod),
		&o.ShippingAddress, &o.ShippingPhone, &notes, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}
	if notes.Valid {
		n := notes.String
		o.Notes = &n
	}
	o.Status = model.OrderStatus(status)
	return nil
}

// CreateItemsBulkTx inserts multiple order_items rows in a single statement
// within the provided transaction. Passing an empty slice is a no-op.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	q := "INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase_cents) VALUES "
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			q += ","
		}
		q += "(?,?,?,?)"
		args = append(args, it.OrderID, it.ProductID, it.Quantity, it.PriceCents)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ItemDetail is an order line joined with its product snapshot for display.
type ItemDetail struct {
	model.OrderItem
	Title    string  `json:"title"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Detail is an order with counterparty names and its line items, as shown on
// the buyer's order history and the seller's incoming-orders view.
type Detail struct {
	model.Order
	BuyerName  string       `json:"buyer_name"`
	SellerName string       `json:"seller_name"`
	Items      []ItemDetail `json:"items"`
}

// ListFilter restricts an order listing to one status. Empty means all.
type ListFilter struct {
	Status model.OrderStatus
}

// StatusCountsForBuyer groups the buyer's orders by status. The order list
// endpoint reports these alongside a filtered page so the per-status tab
// badges stay correct while a filter is active.
func (r *OrderRepo) StatusCountsForBuyer(ctx context.Context, buyerID uint64) (map[model.OrderStatus]int, error) {
	return r.statusCounts(ctx, "buyer_id = ?", buyerID)
}

// StatusCountsForSeller groups the seller's incoming orders by status.
func (r *OrderRepo) StatusCountsForSeller(ctx context.Context, sellerID uint64) (map[model.OrderStatus]int, error) {
	return r.statusCounts(ctx, "seller_id = ?", sellerID)
}

func (r *OrderRepo) statusCounts(ctx context.Context, ownerPred string, ownerID uint64) (map[model.OrderStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM orders WHERE "+ownerPred+" GROUP BY status", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.OrderStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[model.OrderStatus(status)] = n
	}
	return counts, rows.Err()
}

// ListForBuyer returns orders where the viewer is the buyer, newest first.
func (r *OrderRepo) ListForBuyer(ctx context.Context, buyerID uint64, f ListFilter) ([]Detail, error) {
	return r.list(ctx, "o.buyer_id = ?", buyerID, f)
}

// ListForSeller returns orders where the viewer is the seller, newest first.
func (r *OrderRepo) ListForSeller(ctx context.Context, sellerID uint64, f ListFilter) ([]Detail, error) {
	return r.list(ctx, "o.seller_id = ?", sellerID, f)
}

func (r *OrderRepo) list(ctx context.Context, ownerPred string, ownerID uint64, f ListFilter) ([]Detail, error) {
	q := `SELECT o.id, o.buyer_id, o.seller_id, o.total_amount_cents, o.payment_method,
                 o.shipping_address, o.shipping_phone, o.notes, o.status,
                 o.created_at, o.updated_at, b.full_name, s.full_name
          FROM orders o
          JOIN users b ON b.id = o.buyer_id
          JOIN users s ON s.id = o.seller_id
          WHERE ` + ownerPred
	args := []interface{}{ownerID}
	if f.Status != "" {
		q += " AND o.status = ?"
		args = append(args, string(f.Status))
	}
	q += " ORDER BY o.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]Detail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var (
			d      Detail
			method string
			notes  sql.NullString
			status string
		)
		if err := rows.Scan(&d.ID, &d.BuyerID, &d.SellerID, &d.TotalAmountCents, &method,
			&d.ShippingAddress, &d.ShippingPhone, &notes, &status,
			&d.CreatedAt, &d.UpdatedAt, &d.BuyerName, &d.SellerName); err != nil {
			return nil, err
		}
		d.PaymentMethod = model.PaymentMethod(method)
		if notes.Valid {
			n := notes.String
			d.Notes = &n
		}
		d.Status = model.OrderStatus(status)
		d.Items = []ItemDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// populate items for all orders in a single query
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	itemQ := `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity,
                     oi.price_at_purchase_cents, oi.created_at, p.title, p.image_url
              FROM order_items oi
              JOIN products p ON p.id = oi.product_id
              WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
              ORDER BY oi.order_id, oi.id`
	irows, err := r.db.QueryContext(ctx, itemQ, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it ItemDetail
		var imageURL sql.NullString
		if err := irows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.PriceCents, &it.CreatedAt, &it.Title, &imageURL); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			u := imageURL.String
			it.ImageURL = &u
		}
		idx, ok := index[it.OrderID]
		if !ok {
			continue
		}
		details[idx].Items = append(details[idx].Items, it)
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByID fetches one order without joins, used for transition checks.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	var (
		o      model.Order
		method string
		notes  sql.NullString
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_id, seller_id, total_amount_cents, payment_method,
                shipping_address, shipping_phone, notes, status, created_at, updated_at
         FROM orders WHERE id=? LIMIT 1`, id).Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.TotalAmountCents, &method,
		&o.ShippingAddress, &o.ShippingPhone, &notes, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, err
	}
	o.PaymentMethod = model.PaymentMethod(method)
	if notes.Valid {
		n := notes.String
		o.Notes = &n
	}
	o.Status = model.OrderStatus(status)
	return o, nil
}

// UpdateStatus stamps the new status and updated_at. A single-row write;
// concurrent writers are last-write-wins by design.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status=?, updated_at=NOW() WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ProductIDs returns the distinct product ids referenced by an order's
// lines. Cancellation uses this to release inventory.
func (r *OrderRepo) ProductIDs(ctx context.Context, orderID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT product_id FROM order_items WHERE order_id=?", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the total number of orders. Admin dashboard only.
func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&n)
	return n, err
}
