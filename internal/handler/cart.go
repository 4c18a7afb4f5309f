package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/checkout"
	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

// CartHandler manages the authenticated buyer's cart. A cart holds at most
// one line per product; re-adding yields a notice instead of an error.
type CartHandler struct {
	Carts    *repository.CartRepo
	Products *repository.ProductRepo
}

func NewCartHandler(carts *repository.CartRepo, products *repository.ProductRepo) *CartHandler {
	if carts == nil || products == nil {
		panic("nil repository passed to NewCartHandler")
	}
	return &CartHandler{Carts: carts, Products: products}
}

type addToCartReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
	Size      string `json:"size"`
}

// Add handles POST /v1/cart. The product must be a live listing and not the
// caller's own. Re-adding an already carted product returns 200 with a
// notice, mirroring the storefront toast.
func (h *CartHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addToCartReq
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}

	ctx := c.Request().Context()
	p, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	if p.SellerID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot add your own listing"})
	}
	if p.Status != model.ProductAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "product is not available"})
	}

	if err := h.Carts.Add(ctx, uid, req.ProductID, req.Quantity, req.Size); err != nil {
		if errors.Is(err, repository.ErrAlreadyInCart) {
			return c.JSON(http.StatusOK, echo.Map{"notice": "already in cart"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"added": req.ProductID})
}

// List handles GET /v1/cart and returns the lines in insertion order with a
// live subtotal.
func (h *CartHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lines, err := h.Carts.ListByBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":          lines,
		"subtotal_cents": checkout.SubtotalCents(lines),
	})
}

type updateCartReq struct {
	Quantity uint32 `json:"quantity"`
}

// UpdateQuantity handles PATCH /v1/cart/:id. Quantity zero is rejected;
// removal is an explicit DELETE.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	var req updateCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	err = h.Carts.UpdateQuantity(c.Request().Context(), uid, id, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
		}
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/cart/:id.
func (h *CartHandler) Remove(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	if err := h.Carts.Remove(c.Request().Context(), uid, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove cart item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
