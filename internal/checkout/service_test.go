package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
	"github.com/Znarfieeee/Numsthrift/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestMySQL(t)
	svc := NewService(db,
		repository.NewCartRepo(db),
		repository.NewOrderRepo(db),
		repository.NewProductRepo(db))
	return svc, db
}

func seedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	id := testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES (?,'',?,?)",
		email, email, role)
	return uint64(id)
}

func seedProduct(t *testing.T, db *sql.DB, sellerID uint64, title string, priceCents int64) uint64 {
	t.Helper()
	id := testutil.MustExec(t, db,
		"INSERT INTO products (seller_id, title, description, price_cents, `condition`, additional_images, status) VALUES (?,?,'',?,'good','[]','available')",
		sellerID, title, priceCents)
	return uint64(id)
}

// seedCartLine writes the cart row directly so created_at is distinct per
// line; DATETIME has one-second resolution and the partition order depends
// on insertion order.
func seedCartLine(t *testing.T, db *sql.DB, buyerID, productID uint64, createdAt string) {
	t.Helper()
	testutil.MustExec(t, db,
		"INSERT INTO cart_items (buyer_id, product_id, quantity, size, created_at) VALUES (?,?,1,'N/A',?)",
		buyerID, productID, createdAt)
}

func validInput() Input {
	return Input{
		Shipping: ShippingInfo{
			Province: "Cebu",
			City:     "Cebu City",
			Barangay: "Lahug",
			Street:   "12 Maple St",
			Phone:    "09171234567",
		},
		Payment: PaymentInfo{Method: model.PayCashOnDelivery},
	}
}

func productStatus(t *testing.T, db *sql.DB, id uint64) model.ProductStatus {
	t.Helper()
	var s string
	if err := db.QueryRow("SELECT status FROM products WHERE id=?", id).Scan(&s); err != nil {
		t.Fatalf("read product %d status: %v", id, err)
	}
	return model.ProductStatus(s)
}

func TestPlaceOrderSplitsCartAndReservesListings(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "buyer@example.com", "buyer")

	if _, err := svc.PlaceOrder(ctx, buyer, validInput()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart should answer ErrEmptyCart, got %v", err)
	}

	sellerA := seedUser(t, db, "a@example.com", "seller")
	sellerB := seedUser(t, db, "b@example.com", "seller")
	pa1 := seedProduct(t, db, sellerA, "jacket", 1500)
	pa2 := seedProduct(t, db, sellerA, "jeans", 1500)
	pb := seedProduct(t, db, sellerB, "boots", 2000)
	seedCartLine(t, db, buyer, pa1, "2026-01-01 00:00:01")
	seedCartLine(t, db, buyer, pa2, "2026-01-01 00:00:02")
	seedCartLine(t, db, buyer, pb, "2026-01-01 00:00:03")

	rcpt, err := svc.PlaceOrder(ctx, buyer, validInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if len(rcpt.Orders) != 2 {
		t.Fatalf("want one order per seller, got %d", len(rcpt.Orders))
	}
	if rcpt.Orders[0].SellerID != sellerA || rcpt.Orders[0].TotalAmountCents != 3000 {
		t.Fatalf("first group: got seller %d total %d", rcpt.Orders[0].SellerID, rcpt.Orders[0].TotalAmountCents)
	}
	if rcpt.Orders[1].SellerID != sellerB || rcpt.Orders[1].TotalAmountCents != 2000 {
		t.Fatalf("second group: got seller %d total %d", rcpt.Orders[1].SellerID, rcpt.Orders[1].TotalAmountCents)
	}
	if rcpt.SubtotalCents != 5000 {
		t.Fatalf("subtotal = %d, want 5000", rcpt.SubtotalCents)
	}
	for _, o := range rcpt.Orders {
		if o.Status != model.OrderPending {
			t.Fatalf("new order %d status = %q, want pending", o.ID, o.Status)
		}
	}

	lines, err := svc.Carts.ListByBuyer(ctx, buyer)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("cart should be empty after checkout, %d line(s) left", len(lines))
	}
	for _, pid := range []uint64{pa1, pa2, pb} {
		if s := productStatus(t, db, pid); s != model.ProductPending {
			t.Fatalf("product %d status = %q, want pending", pid, s)
		}
	}
}

func TestPlaceOrderKeepsCommittedGroupsOnLaterFailure(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "buyer@example.com", "buyer")
	sellerA := seedUser(t, db, "a@example.com", "seller")
	sellerB := seedUser(t, db, "b@example.com", "seller")
	pa := seedProduct(t, db, sellerA, "jacket", 1500)
	pb := seedProduct(t, db, sellerB, "boots", 2000)
	seedCartLine(t, db, buyer, pa, "2026-01-01 00:00:01")
	seedCartLine(t, db, buyer, pb, "2026-01-01 00:00:02")

	// make the second seller's order insert fail at the database, after the
	// first group already committed
	testutil.MustExec(t, db, fmt.Sprintf(
		`CREATE TRIGGER reject_second_seller BEFORE INSERT ON orders FOR EACH ROW
		 BEGIN
		   IF NEW.seller_id = %d THEN
		     SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'order rejected';
		   END IF;
		 END`, sellerB))

	rcpt, err := svc.PlaceOrder(ctx, buyer, validInput())
	if err == nil {
		t.Fatal("expected the second group to fail")
	}
	if len(rcpt.Orders) != 1 || rcpt.Orders[0].SellerID != sellerA {
		t.Fatalf("first group must survive: got %d order(s)", len(rcpt.Orders))
	}

	lines, lerr := svc.Carts.ListByBuyer(ctx, buyer)
	if lerr != nil {
		t.Fatalf("list cart: %v", lerr)
	}
	if len(lines) != 1 || lines[0].ProductID != pb {
		t.Fatalf("only the failed group's line should remain, got %d line(s)", len(lines))
	}
	if s := productStatus(t, db, pa); s != model.ProductPending {
		t.Fatalf("committed group's product = %q, want pending", s)
	}
	if s := productStatus(t, db, pb); s != model.ProductAvailable {
		t.Fatalf("failed group's product = %q, want available", s)
	}

	// re-running checkout processes what remains, which is the recovery path
	testutil.MustExec(t, db, "DROP TRIGGER reject_second_seller")
	rcpt, err = svc.PlaceOrder(ctx, buyer, validInput())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(rcpt.Orders) != 1 || rcpt.Orders[0].SellerID != sellerB {
		t.Fatalf("retry should order the remaining group, got %d order(s)", len(rcpt.Orders))
	}
}
