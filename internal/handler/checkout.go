package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/checkout"
)

// CheckoutHandler exposes the single checkout submission endpoint. All of
// the splitting and transaction logic lives in the checkout service.
type CheckoutHandler struct {
	Svc *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	if svc == nil {
		panic("nil service passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Svc: svc}
}

type checkoutReq struct {
	Shipping    checkout.ShippingInfo `json:"shipping"`
	Payment     checkout.PaymentInfo  `json:"payment"`
	VoucherCode string                `json:"voucher_code"`
}

// PlaceOrder handles POST /v1/checkout. One submission creates one pending
// order per distinct seller in the cart. A validation failure reports the
// first missing field; a partial failure returns 500 together with the
// receipt of the orders that did commit, and the client re-fetches the cart
// to see what remains.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	rcpt, err := h.Svc.PlaceOrder(c.Request().Context(), uid, checkout.Input{
		Shipping:    req.Shipping,
		Payment:     req.Payment,
		VoucherCode: req.VoucherCode,
	})
	if err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
		}
		if errors.Is(err, checkout.ErrEmptyCart) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cart is empty"})
		}
		if len(rcpt.Orders) > 0 {
			// some seller groups committed before the failure
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":   "checkout partially failed",
				"receipt": rcpt,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"receipt": rcpt})
}
