package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
	"github.com/Znarfieeee/Numsthrift/internal/testutil"
)

func patchStatus(t *testing.T, h *OrderHandler, orderID, userID uint64, role, status string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"`+status+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(orderID, 10))
	c.Set("user_id", userID)
	c.Set("role", role)
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("update status returned error: %v", err)
	}
	return rec
}

func TestCancellingOrderReturnsListingsToCatalog(t *testing.T) {
	db := testutil.SetupTestMySQL(t)
	h := NewOrderHandler(repository.NewOrderRepo(db), repository.NewProductRepo(db))

	buyer := uint64(testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES ('b@x.com','','Buyer','buyer')"))
	seller := uint64(testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES ('s@x.com','','Seller','seller')"))
	product := uint64(testutil.MustExec(t, db,
		"INSERT INTO products (seller_id, title, description, price_cents, `condition`, additional_images, status) VALUES (?,?,'',1500,'good','[]','pending')",
		seller, "jacket"))
	order := uint64(testutil.MustExec(t, db,
		`INSERT INTO orders (buyer_id, seller_id, total_amount_cents, payment_method,
		 shipping_address, shipping_phone, status) VALUES (?,?,1500,'cash_on_delivery','addr','09170000000','pending')`,
		buyer, seller))
	testutil.MustExec(t, db,
		"INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase_cents) VALUES (?,?,1,1500)",
		order, product)

	rec := patchStatus(t, h, order, buyer, "buyer", "cancelled")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel by buyer: got %d, body %s", rec.Code, rec.Body.String())
	}

	var status string
	if err := db.QueryRow("SELECT status FROM orders WHERE id=?", order).Scan(&status); err != nil {
		t.Fatalf("read order: %v", err)
	}
	if model.OrderStatus(status) != model.OrderCancelled {
		t.Fatalf("order status = %q, want cancelled", status)
	}
	if err := db.QueryRow("SELECT status FROM products WHERE id=?", product).Scan(&status); err != nil {
		t.Fatalf("read product: %v", err)
	}
	if model.ProductStatus(status) != model.ProductAvailable {
		t.Fatalf("cancellation must release the listing, product status = %q", status)
	}

	// a cancelled order is terminal
	rec = patchStatus(t, h, order, seller, "seller", "processing")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("transition out of cancelled should 422, got %d", rec.Code)
	}
}

func TestShippedOrderCannotBeCancelled(t *testing.T) {
	db := testutil.SetupTestMySQL(t)
	h := NewOrderHandler(repository.NewOrderRepo(db), repository.NewProductRepo(db))

	buyer := uint64(testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES ('b@x.com','','Buyer','buyer')"))
	seller := uint64(testutil.MustExec(t, db,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES ('s@x.com','','Seller','seller')"))
	order := uint64(testutil.MustExec(t, db,
		`INSERT INTO orders (buyer_id, seller_id, total_amount_cents, payment_method,
		 shipping_address, shipping_phone, status) VALUES (?,?,1500,'cash_on_delivery','addr','09170000000','shipped')`,
		buyer, seller))

	rec := patchStatus(t, h, order, buyer, "buyer", "cancelled")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("cancelling a shipped order should 422, got %d", rec.Code)
	}
	var status string
	if err := db.QueryRow("SELECT status FROM orders WHERE id=?", order).Scan(&status); err != nil {
		t.Fatalf("read order: %v", err)
	}
	if model.OrderStatus(status) != model.OrderShipped {
		t.Fatalf("rejected transition must not write, status = %q", status)
	}
}
