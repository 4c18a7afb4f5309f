package model

import (
	"errors"
	"time"
)

// OrderStatus enumerates the order state machine:
//
//	pending ──(seller advances)──> processing ──> shipped ──> delivered
//	pending ──(seller or buyer cancels)──> cancelled
//
// delivered and cancelled are terminal. Cancellation is only offered while
// pending; that is a deliberate scope restriction, not an oversight.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ErrInvalidTransition is returned when an order status change is not one of
// the legal forward edges. The HTTP layer only offers legal buttons, but the
// transition is still checked here.
var ErrInvalidTransition = errors.New("invalid order status transition")

// ValidOrderStatus reports whether raw names a known status.
func ValidOrderStatus(raw string) bool {
	switch OrderStatus(raw) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal edge of
// the state machine.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCancelled
	case OrderProcessing:
		return next == OrderShipped
	case OrderShipped:
		return next == OrderDelivered
	}
	return false
}

// PaymentMethod enumerates the recorded payment choices. The system stores
// the chosen method and its form fields; it does not settle payments.
type PaymentMethod string

const (
	PayCashOnDelivery PaymentMethod = "cash_on_delivery"
	PayGcash          PaymentMethod = "gcash"
	PayCard           PaymentMethod = "card"
	PayBankTransfer   PaymentMethod = "bank_transfer"
)

// ValidPaymentMethod reports whether raw names a known payment method.
func ValidPaymentMethod(raw string) bool {
	switch PaymentMethod(raw) {
	case PayCashOnDelivery, PayGcash, PayCard, PayBankTransfer:
		return true
	}
	return false
}

// Order is one seller-scoped order from the `orders` table. A cart spanning
// N distinct sellers yields N orders from a single checkout submission.
// TotalAmountCents is computed at placement time and never recomputed.
type Order struct {
	ID               uint64        `json:"id"`
	BuyerID          uint64        `json:"buyer_id"`
	SellerID         uint64        `json:"seller_id"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	ShippingAddress  string        `json:"shipping_address"`
	ShippingPhone    string        `json:"shipping_phone"`
	Notes            *string       `json:"notes,omitempty"`
	Status           OrderStatus   `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// OrderItem snapshots one purchased cart line. PriceCents is the price at
// purchase time and is immutable after creation, decoupled from the live
// product price.
type OrderItem struct {
	ID         uint64    `json:"id"`
	OrderID    uint64    `json:"order_id"`
	ProductID  uint64    `json:"product_id"`
	Quantity   uint32    `json:"quantity"`
	PriceCents int64     `json:"price_at_purchase_cents"`
	CreatedAt  time.Time `json:"created_at"`
}
