// Package checkout converts a buyer's cart into one or more seller-scoped
// orders. The pure pieces (field validation, voucher lookup, partitioning by
// seller) live in this file; the database orchestration lives in service.go.
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

// ErrEmptyCart is the informational guard for a checkout submitted with no
// cart lines. Callers redirect back to the cart view instead of surfacing an
// error.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError names the first missing required field. Validation stops
// at the first failure; it is not an aggregate report.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ShippingInfo carries the checkout address form. Province through Phone are
// required; delivery instructions and order notes are stored verbatim.
type ShippingInfo struct {
	Province             string `json:"province"`
	City                 string `json:"city"`
	Barangay             string `json:"barangay"`
	Street               string `json:"street"`
	DeliveryInstructions string `json:"delivery_instructions"`
	Phone                string `json:"phone"`
	Notes                string `json:"notes"`
}

// ValidateShipping checks the required address fields in a fixed order so
// the reported field is deterministic: province, city, barangay, street,
// phone.
func ValidateShipping(s ShippingInfo) error {
	checks := []struct {
		field, value string
	}{
		{"province", s.Province},
		{"city", s.City},
		{"barangay", s.Barangay},
		{"street", s.Street},
		{"phone", s.Phone},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return &ValidationError{Field: c.field}
		}
	}
	return nil
}

// PaymentInfo carries the chosen method and its method-specific form fields.
// Fields are presence-checked only; no settlement or format verification
// happens here.
type PaymentInfo struct {
	Method            model.PaymentMethod `json:"method"`
	GcashNumber       string              `json:"gcash_number"`
	GcashName         string              `json:"gcash_name"`
	CardNumber        string              `json:"card_number"`
	CardName          string              `json:"card_name"`
	CardExpiry        string              `json:"card_expiry"`
	CardCVV           string              `json:"card_cvv"`
	BankName          string              `json:"bank_name"`
	BankAccountNumber string              `json:"bank_account_number"`
	BankAccountName   string              `json:"bank_account_name"`
}

// ValidatePayment checks the fields required by the chosen method.
// cash_on_delivery needs nothing extra.
func ValidatePayment(p PaymentInfo) error {
	var checks []struct {
		field, value string
	}
	switch p.Method {
	case model.PayCashOnDelivery:
		return nil
	case model.PayGcash:
		checks = []struct{ field, value string }{
			{"gcash_number", p.GcashNumber},
			{"gcash_name", p.GcashName},
		}
	case model.PayCard:
		checks = []struct{ field, value string }{
			{"card_number", p.CardNumber},
			{"card_name", p.CardName},
			{"card_expiry", p.CardExpiry},
			{"card_cvv", p.CardCVV},
		}
	case model.PayBankTransfer:
		checks = []struct{ field, value string }{
			{"bank_name", p.BankName},
			{"bank_account_number", p.BankAccountNumber},
			{"bank_account_name", p.BankAccountName},
		}
	default:
		return &ValidationError{Field: "payment_method"}
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return &ValidationError{Field: c.field}
		}
	}
	return nil
}

// FlattenAddress renders the shipping form as the single stored address
// string: "street, barangay, city, province" with " - instructions" appended
// when given.
func FlattenAddress(s ShippingInfo) string {
	addr := fmt.Sprintf("%s, %s, %s, %s",
		strings.TrimSpace(s.Street), strings.TrimSpace(s.Barangay),
		strings.TrimSpace(s.City), strings.TrimSpace(s.Province))
	if instr := strings.TrimSpace(s.DeliveryInstructions); instr != "" {
		addr += " - " + instr
	}
	return addr
}

// voucherPercents is the fixed voucher table. Codes are matched
// case-insensitively.
var voucherPercents = map[string]int64{
	"SAVE10": 10,
	"SAVE20": 20,
}

// VoucherDiscountCents resolves a voucher code against the subtotal. An
// empty code means no discount. An unknown non-empty code also yields zero
// but reports ok=false so the caller can notify the user; it never blocks
// checkout.
func VoucherDiscountCents(code string, subtotalCents int64) (discount int64, ok bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, true
	}
	pct, found := voucherPercents[code]
	if !found {
		return 0, false
	}
	return subtotalCents * pct / 100, true
}

// SubtotalCents sums quantity x live price over all cart lines.
func SubtotalCents(lines []repository.Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.PriceCents * int64(l.Quantity)
	}
	return total
}

// Group is the set of cart lines belonging to one seller. Each group becomes
// exactly one order.
type Group struct {
	SellerID uint64
	Lines    []repository.Line
}

// TotalCents is the group's order total: the sum of price x quantity over
// only this seller's lines.
func (g Group) TotalCents() int64 {
	return SubtotalCents(g.Lines)
}

// PartitionBySeller splits cart lines into disjoint per-seller groups,
// ordered by each seller's first appearance in the cart so checkout output
// is deterministic.
func PartitionBySeller(lines []repository.Line) []Group {
	groups := make([]Group, 0)
	index := make(map[uint64]int)
	for _, l := range lines {
		i, ok := index[l.SellerID]
		if !ok {
			i = len(groups)
			index[l.SellerID] = i
			groups = append(groups, Group{SellerID: l.SellerID})
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}
	return groups
}
