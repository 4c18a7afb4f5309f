// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// OrderPlacedEvent is published once per seller-scoped order after its
// checkout transaction commits. It carries enough for downstream consumers
// to log or notify without querying the primary database. Publication is
// best-effort; a lost event never fails the checkout.
type OrderPlacedEvent struct {
	OrderID          uint64   `json:"order_id"`
	BuyerID          uint64   `json:"buyer_id"`
	SellerID         uint64   `json:"seller_id"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	PaymentMethod    string   `json:"payment_method"`
	ItemTitles       []string `json:"items"`
	PlacedAt         string   `json:"placed_at"`
}
