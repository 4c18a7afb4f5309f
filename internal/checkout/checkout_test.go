package checkout

import (
	"errors"
	"testing"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

func line(id, sellerID uint64, priceCents int64, qty uint32, title string) repository.Line {
	l := repository.Line{
		Title:      title,
		PriceCents: priceCents,
		SellerID:   sellerID,
	}
	l.ID = id
	l.ProductID = id + 100
	l.Quantity = qty
	return l
}

func TestValidateShippingReportsFirstMissingField(t *testing.T) {
	full := ShippingInfo{
		Province: "Cebu", City: "Cebu City", Barangay: "Lahug",
		Street: "123 Salinas Drive", Phone: "09171234567",
	}
	if err := ValidateShipping(full); err != nil {
		t.Fatalf("complete shipping info rejected: %v", err)
	}

	cases := []struct {
		clear func(*ShippingInfo)
		want  string
	}{
		{func(s *ShippingInfo) { s.Province = "" }, "province"},
		{func(s *ShippingInfo) { s.City = "  " }, "city"},
		{func(s *ShippingInfo) { s.Barangay = "" }, "barangay"},
		{func(s *ShippingInfo) { s.Street = "" }, "street"},
		{func(s *ShippingInfo) { s.Phone = "" }, "phone"},
	}
	for _, tc := range cases {
		s := full
		tc.clear(&s)
		err := ValidateShipping(s)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if ve.Field != tc.want {
			t.Fatalf("expected field %q, got %q", tc.want, ve.Field)
		}
	}

	// province outranks city when both are missing
	s := full
	s.Province, s.City = "", ""
	var ve *ValidationError
	if err := ValidateShipping(s); !errors.As(err, &ve) || ve.Field != "province" {
		t.Fatalf("expected province to be reported first, got %v", err)
	}
}

func TestValidatePaymentPerMethod(t *testing.T) {
	if err := ValidatePayment(PaymentInfo{Method: model.PayCashOnDelivery}); err != nil {
		t.Fatalf("cash on delivery needs no extra fields: %v", err)
	}

	var ve *ValidationError
	err := ValidatePayment(PaymentInfo{Method: model.PayGcash, GcashNumber: "09171234567"})
	if !errors.As(err, &ve) || ve.Field != "gcash_name" {
		t.Fatalf("expected gcash_name, got %v", err)
	}

	err = ValidatePayment(PaymentInfo{
		Method: model.PayCard, CardNumber: "4111111111111111",
		CardName: "Juan", CardExpiry: "12/27",
	})
	if !errors.As(err, &ve) || ve.Field != "card_cvv" {
		t.Fatalf("expected card_cvv, got %v", err)
	}

	err = ValidatePayment(PaymentInfo{Method: model.PayBankTransfer})
	if !errors.As(err, &ve) || ve.Field != "bank_name" {
		t.Fatalf("expected bank_name, got %v", err)
	}

	err = ValidatePayment(PaymentInfo{Method: "bitcoin"})
	if !errors.As(err, &ve) || ve.Field != "payment_method" {
		t.Fatalf("expected payment_method for unknown method, got %v", err)
	}
}

func TestFlattenAddress(t *testing.T) {
	s := ShippingInfo{
		Province: "Cebu", City: "Cebu City", Barangay: "Lahug",
		Street: "123 Salinas Drive",
	}
	got := FlattenAddress(s)
	want := "123 Salinas Drive, Lahug, Cebu City, Cebu"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	s.DeliveryInstructions = "leave at the gate"
	got = FlattenAddress(s)
	if got != want+" - leave at the gate" {
		t.Fatalf("instructions not appended: %q", got)
	}
}

func TestVoucherDiscountCents(t *testing.T) {
	// SAVE10 on a 1000.00 subtotal takes off 100.00
	d, ok := VoucherDiscountCents("SAVE10", 100000)
	if !ok || d != 10000 {
		t.Fatalf("SAVE10: got (%d,%v), want (10000,true)", d, ok)
	}
	d, ok = VoucherDiscountCents("save20", 100000)
	if !ok || d != 20000 {
		t.Fatalf("codes should match case-insensitively: got (%d,%v)", d, ok)
	}
	d, ok = VoucherDiscountCents("", 100000)
	if !ok || d != 0 {
		t.Fatalf("empty code: got (%d,%v), want (0,true)", d, ok)
	}
	// unknown codes warn but never block
	d, ok = VoucherDiscountCents("NOTACODE", 100000)
	if ok || d != 0 {
		t.Fatalf("unknown code: got (%d,%v), want (0,false)", d, ok)
	}
}

func TestPartitionBySeller(t *testing.T) {
	lines := []repository.Line{
		line(1, 7, 2500, 1, "denim jacket"),
		line(2, 9, 1000, 2, "band shirt"),
		line(3, 7, 500, 1, "scarf"),
	}

	groups := PartitionBySeller(lines)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// first-appearance order: seller 7 then seller 9
	if groups[0].SellerID != 7 || groups[1].SellerID != 9 {
		t.Fatalf("group order wrong: %d, %d", groups[0].SellerID, groups[1].SellerID)
	}
	if len(groups[0].Lines) != 2 || len(groups[1].Lines) != 1 {
		t.Fatalf("line counts wrong: %d, %d", len(groups[0].Lines), len(groups[1].Lines))
	}

	// group totals must sum to the cart subtotal
	if got := groups[0].TotalCents(); got != 3000 {
		t.Fatalf("seller 7 total: got %d, want 3000", got)
	}
	if got := groups[1].TotalCents(); got != 2000 {
		t.Fatalf("seller 9 total: got %d, want 2000", got)
	}
	if sub := SubtotalCents(lines); sub != 5000 {
		t.Fatalf("subtotal: got %d, want 5000", sub)
	}

	if got := PartitionBySeller(nil); len(got) != 0 {
		t.Fatalf("empty cart should yield no groups, got %d", len(got))
	}
}
