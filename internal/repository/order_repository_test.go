package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/testutil"
)

func seedOrder(t *testing.T, db *sql.DB, buyerID, sellerID uint64, status model.OrderStatus) uint64 {
	t.Helper()
	id := testutil.MustExec(t, db,
		`INSERT INTO orders (buyer_id, seller_id, total_amount_cents, payment_method,
		 shipping_address, shipping_phone, status) VALUES (?,?,1000,'cash_on_delivery','addr','09170000000',?)`,
		buyerID, sellerID, string(status))
	return uint64(id)
}

func TestListForBuyerFiltersInSQLAndCountsStayUnfiltered(t *testing.T) {
	db := testutil.SetupTestMySQL(t)
	orders := NewOrderRepo(db)
	ctx := context.Background()

	buyer := uint64(testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES ('b@x.com','','Buyer','buyer')"))
	seller := uint64(testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES ('s@x.com','','Seller','seller')"))

	seedOrder(t, db, buyer, seller, model.OrderPending)
	seedOrder(t, db, buyer, seller, model.OrderPending)
	shipped := seedOrder(t, db, buyer, seller, model.OrderShipped)

	got, err := orders.ListForBuyer(ctx, buyer, ListFilter{Status: model.OrderShipped})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(got) != 1 || got[0].ID != shipped {
		t.Fatalf("status filter should reach the query, got %d row(s)", len(got))
	}

	all, err := orders.ListForBuyer(ctx, buyer, ListFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered list should have 3 rows, got %d", len(all))
	}

	counts, err := orders.StatusCountsForBuyer(ctx, buyer)
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	if counts[model.OrderPending] != 2 || counts[model.OrderShipped] != 1 {
		t.Fatalf("counts cover the unfiltered set, got %v", counts)
	}

	// the other side of the order sees the same numbers
	counts, err = orders.StatusCountsForSeller(ctx, seller)
	if err != nil {
		t.Fatalf("seller counts: %v", err)
	}
	if counts[model.OrderPending] != 2 || counts[model.OrderShipped] != 1 {
		t.Fatalf("seller counts wrong: %v", counts)
	}
}
