package model

import "time"

// CartItem is one line in a buyer's cart. The backing table enforces a
// unique (buyer_id, product_id) pair; a duplicate insert means the product
// is already in the cart, which is not an error.
type CartItem struct {
	ID        uint64    `json:"id"`
	BuyerID   uint64    `json:"buyer_id"`
	ProductID uint64    `json:"product_id"`
	Quantity  uint32    `json:"quantity"`
	Size      string    `json:"size"` // "N/A" for sizeless categories
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
