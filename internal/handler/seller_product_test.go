package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

func bindForm(t *testing.T, h *SellerHandler, values url.Values) (listingForm, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return h.bindListingForm(e.NewContext(req, rec))
}

func TestBindListingFormLeavesStatusUnsetWhenOmitted(t *testing.T) {
	h := &SellerHandler{}
	f, msg := bindForm(t, h, url.Values{
		"title":       {"denim jacket"},
		"price_cents": {"2500"},
		"condition":   {"good"},
	})
	if msg != "" {
		t.Fatalf("unexpected validation message: %q", msg)
	}
	if f.Status != "" {
		t.Fatalf("omitted status should stay empty, got %q", f.Status)
	}

	f, msg = bindForm(t, h, url.Values{
		"title":       {"denim jacket"},
		"price_cents": {"2500"},
		"condition":   {"good"},
		"status":      {"draft"},
	})
	if msg != "" {
		t.Fatalf("unexpected validation message: %q", msg)
	}
	if f.Status != model.ProductDraft {
		t.Fatalf("explicit status lost, got %q", f.Status)
	}

	if _, msg = bindForm(t, h, url.Values{
		"title":       {"denim jacket"},
		"price_cents": {"2500"},
		"condition":   {"good"},
		"status":      {"pending"},
	}); msg == "" {
		t.Fatal("sellers must not set reserved statuses directly")
	}
}

func TestResolveListingStatus(t *testing.T) {
	cases := []struct {
		current   model.ProductStatus
		requested model.ProductStatus
		want      model.ProductStatus
		ok        bool
	}{
		// omitted keeps whatever the row has, reserved included
		{model.ProductAvailable, "", model.ProductAvailable, true},
		{model.ProductPending, "", model.ProductPending, true},
		{model.ProductSold, "", model.ProductSold, true},
		// draft <-> available edits are the seller's call
		{model.ProductDraft, model.ProductAvailable, model.ProductAvailable, true},
		{model.ProductAvailable, model.ProductDraft, model.ProductDraft, true},
		// a reserved or sold listing never re-enters the catalog via an edit
		{model.ProductPending, model.ProductAvailable, model.ProductPending, false},
		{model.ProductPending, model.ProductDraft, model.ProductPending, false},
		{model.ProductSold, model.ProductAvailable, model.ProductSold, false},
		// re-sending the current status is a no-op, not a conflict
		{model.ProductPending, model.ProductPending, model.ProductPending, true},
	}
	for _, tc := range cases {
		got, ok := resolveListingStatus(tc.current, tc.requested)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("resolveListingStatus(%q, %q) = (%q, %v), want (%q, %v)",
				tc.current, tc.requested, got, ok, tc.want, tc.ok)
		}
	}
}
