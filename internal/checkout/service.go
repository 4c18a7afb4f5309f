package checkout

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

// Service orchestrates order placement. Each seller group commits in its own
// transaction: the order row, its line items, the product status flips and
// the cart deletes succeed or fail together. Groups are independent — a
// failing group never rolls back groups that already committed, and the
// receipt tells the caller which sellers went through.
type Service struct {
	DB       *sql.DB
	Carts    *repository.CartRepo
	Orders   *repository.OrderRepo
	Products *repository.ProductRepo

	// Publish, when set, is invoked in its own goroutine after each group
	// commits. Failures inside it must never affect the checkout result.
	Publish func(order model.Order, itemTitles []string)
}

func NewService(db *sql.DB, carts *repository.CartRepo, orders *repository.OrderRepo, products *repository.ProductRepo) *Service {
	if db == nil || carts == nil || orders == nil || products == nil {
		panic("nil dependency passed to checkout.NewService")
	}
	return &Service{DB: db, Carts: carts, Orders: orders, Products: products}
}

// Input is one checkout submission.
type Input struct {
	Shipping    ShippingInfo
	Payment     PaymentInfo
	VoucherCode string
}

// Receipt reports what a checkout produced. When PlaceOrder returns an
// error alongside a non-empty Orders slice, those orders are committed and
// the caller must re-fetch the cart to learn the true remaining state.
type Receipt struct {
	Orders        []model.Order `json:"orders"`
	SubtotalCents int64         `json:"subtotal_cents"`
	DiscountCents int64         `json:"discount_cents"`
	TotalCents    int64         `json:"total_cents"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// PlaceOrder validates the submission, partitions the buyer's cart by
// seller and creates one pending order per seller. There is no retry and
// the operation is not idempotent after a partial failure; re-invoking it
// processes whatever remains in the cart, which is the intended recovery
// path.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uint64, in Input) (Receipt, error) {
	var rcpt Receipt

	if err := ValidateShipping(in.Shipping); err != nil {
		return rcpt, err
	}
	if err := ValidatePayment(in.Payment); err != nil {
		return rcpt, err
	}

	lines, err := s.Carts.ListByBuyer(ctx, buyerID)
	if err != nil {
		return rcpt, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return rcpt, ErrEmptyCart
	}

	rcpt.SubtotalCents = SubtotalCents(lines)
	discount, ok := VoucherDiscountCents(in.VoucherCode, rcpt.SubtotalCents)
	if !ok {
		rcpt.Warnings = append(rcpt.Warnings, "invalid voucher code")
	}
	rcpt.DiscountCents = discount
	// shipping cost is deferred and contributes zero
	rcpt.TotalCents = rcpt.SubtotalCents - discount

	address := FlattenAddress(in.Shipping)
	var notes *string
	if n := strings.TrimSpace(in.Shipping.Notes); n != "" {
		notes = &n
	}

	for _, group := range PartitionBySeller(lines) {
		order, err := s.placeGroup(ctx, buyerID, group, address, in.Shipping.Phone, notes, in.Payment.Method)
		if err != nil {
			// earlier groups stay committed; report how far we got
			log.Printf("checkout: seller %d group failed after %d order(s): %v",
				group.SellerID, len(rcpt.Orders), err)
			return rcpt, fmt.Errorf("create order for seller %d: %w", group.SellerID, err)
		}
		rcpt.Orders = append(rcpt.Orders, order)
		if s.Publish != nil {
			titles := make([]string, 0, len(group.Lines))
			for _, l := range group.Lines {
				titles = append(titles, l.Title)
			}
			go s.Publish(order, titles)
		}
	}
	return rcpt, nil
}

// placeGroup writes one seller group in a single transaction.
func (s *Service) placeGroup(ctx context.Context, buyerID uint64, g Group, address, phone string, notes *string, method model.PaymentMethod) (model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order := model.Order{
		BuyerID:          buyerID,
		SellerID:         g.SellerID,
		TotalAmountCents: g.TotalCents(),
		PaymentMethod:    method,
		ShippingAddress:  address,
		ShippingPhone:    strings.TrimSpace(phone),
		Notes:            notes,
		Status:           model.OrderPending,
	}
	if err := s.Orders.CreateTx(ctx, tx, &order); err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	items := make([]model.OrderItem, 0, len(g.Lines))
	cartIDs := make([]uint64, 0, len(g.Lines))
	for _, l := range g.Lines {
		items = append(items, model.OrderItem{
			OrderID:    order.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			PriceCents: l.PriceCents, // price-at-purchase snapshot
		})
		cartIDs = append(cartIDs, l.ID)
	}
	if err := s.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return model.Order{}, fmt.Errorf("insert order items: %w", err)
	}
	for _, l := range g.Lines {
		if err := s.Products.UpdateStatusTx(ctx, tx, l.ProductID, model.ProductPending); err != nil {
			return model.Order{}, fmt.Errorf("reserve product %d: %w", l.ProductID, err)
		}
	}
	if err := s.Carts.DeleteByIDsTx(ctx, tx, cartIDs); err != nil {
		return model.Order{}, fmt.Errorf("clear cart lines: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return order, nil
}
