package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// CartRepo manages the buyer's cart. The cart_items table carries a unique
// (buyer_id, product_id) index; Add translates that violation into
// ErrAlreadyInCart so callers can show an informational notice instead of a
// failure.
type CartRepo struct{ db *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// Line is a cart row joined with the live product data needed to render the
// cart and to run checkout: price, seller and availability all come from the
// products table at read time.
type Line struct {
	model.CartItem
	Title         string              `json:"title"`
	PriceCents    int64               `json:"price_cents"`
	SellerID      uint64              `json:"seller_id"`
	SellerName    string              `json:"seller_name"`
	ImageURL      *string             `json:"image_url,omitempty"`
	ProductStatus model.ProductStatus `json:"product_status"`
}

// Add inserts a cart line for (buyer, product).
func (r *CartRepo) Add(ctx context.Context, buyerID, productID uint64, quantity uint32, size string) error {
	if size == "" {
		size = "N/A"
	}
	if quantity == 0 {
		quantity = 1
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cart_items (buyer_id, product_id, quantity, size) VALUES (?,?,?,?)",
		buyerID, productID, quantity, size)
	if isDuplicate(err) {
		return ErrAlreadyInCart
	}
	return err
}

// ListByBuyer returns the buyer's cart lines joined with product and seller
// data, oldest first so the cart keeps its insertion order.
func (r *CartRepo) ListByBuyer(ctx context.Context, buyerID uint64) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ci.id, ci.buyer_id, ci.product_id, ci.quantity, ci.size,
                ci.created_at, ci.updated_at,
                p.title, p.price_cents, p.seller_id, u.full_name, p.image_url, p.status
         FROM cart_items ci
         JOIN products p ON p.id = ci.product_id
         JOIN users u ON u.id = p.seller_id
         WHERE ci.buyer_id = ?
         ORDER BY ci.created_at ASC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]Line, 0)
	for rows.Next() {
		var (
			l        Line
			imageURL sql.NullString
			status   string
		)
		if err := rows.Scan(&l.ID, &l.BuyerID, &l.ProductID, &l.Quantity, &l.Size,
			&l.CreatedAt, &l.UpdatedAt,
			&l.Title, &l.PriceCents, &l.SellerID, &l.SellerName, &imageURL, &status); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			u := imageURL.String
			l.ImageURL = &u
		}
		l.ProductStatus = model.ProductStatus(status)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateQuantity sets the quantity of a cart line owned by the buyer.
// Quantity must be at least 1; removal is a separate operation.
func (r *CartRepo) UpdateQuantity(ctx context.Context, buyerID, itemID uint64, quantity uint32) error {
	if quantity == 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity=?, updated_at=NOW() WHERE id=? AND buyer_id=?",
		quantity, itemID, buyerID)
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

// Remove deletes a cart line owned by the buyer.
func (r *CartRepo) Remove(ctx context.Context, buyerID, itemID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id=? AND buyer_id=?", itemID, buyerID)
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

// DeleteByIDsTx removes a set of cart lines inside the caller's transaction.
// Checkout clears each seller group's lines together with the order insert.
func (r *CartRepo) DeleteByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	_, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	return err
}
