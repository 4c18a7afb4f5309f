package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

// OrderHandler serves order history and the status lifecycle. Buyers see
// orders they placed, sellers see orders placed against their listings, and
// admins may act as either side.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Products *repository.ProductRepo
}

func NewOrderHandler(orders *repository.OrderRepo, products *repository.ProductRepo) *OrderHandler {
	if orders == nil || products == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Products: products}
}

// List handles GET /v1/orders. view=purchases (default) lists orders the
// caller placed; view=sales lists orders against the caller's listings and
// requires the seller role. An optional status query filters the page in
// SQL; per-status counts come from a grouped query over the unfiltered set
// so the tab badges stay correct while a filter is active.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	view := c.QueryParam("view")
	if view == "" {
		view = "purchases"
	}

	var filter repository.ListFilter
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		if !model.ValidOrderStatus(raw) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		filter.Status = model.OrderStatus(raw)
	}

	ctx := c.Request().Context()
	var details []repository.Detail
	var counts map[model.OrderStatus]int
	switch view {
	case "purchases":
		if details, err = h.Orders.ListForBuyer(ctx, uid, filter); err == nil {
			counts, err = h.Orders.StatusCountsForBuyer(ctx, uid)
		}
	case "sales":
		if !getRole(c).IsSeller() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "seller role required"})
		}
		if details, err = h.Orders.ListForSeller(ctx, uid, filter); err == nil {
			counts, err = h.Orders.StatusCountsForSeller(ctx, uid)
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid view"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load orders failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items":  details,
		"counts": counts,
	})
}

// Get handles GET /v1/orders/:id. Only the buyer, the seller or an admin may
// view an order.
func (h *OrderHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	o, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}
	if o.BuyerID != uid && o.SellerID != uid && !getRole(c).IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": o})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/orders/:id/status. The seller advances an
// order along pending -> processing -> shipped -> delivered; either party
// may cancel while pending. Any other transition is rejected with 422.
// Cancellation returns each purchased listing to available best-effort; a
// listing that fails to release is reported as a warning, never as a
// failure of the cancellation itself.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || !model.ValidOrderStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	next := model.OrderStatus(req.Status)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}

	role := getRole(c)
	isSeller := o.SellerID == uid || role.IsAdmin()
	isBuyer := o.BuyerID == uid || role.IsAdmin()
	if next == model.OrderCancelled {
		if !isSeller && !isBuyer {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	} else if !isSeller {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if !o.Status.CanTransitionTo(next) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": fmt.Sprintf("cannot move order from %s to %s", o.Status, next),
		})
	}

	if err := h.Orders.UpdateStatus(ctx, id, next); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}

	resp := echo.Map{"id": id, "status": next}
	if next == model.OrderCancelled {
		if warnings := h.releaseProducts(ctx, id); len(warnings) > 0 {
			resp["warnings"] = warnings
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// releaseProducts returns each distinct listing on a cancelled order to
// available. Each flip is independent; failures become warnings.
func (h *OrderHandler) releaseProducts(ctx context.Context, orderID uint64) []string {
	ids, err := h.Orders.ProductIDs(ctx, orderID)
	if err != nil {
		return []string{"could not load order items to release listings"}
	}
	var warnings []string
	for _, pid := range ids {
		if err := h.Products.UpdateStatus(ctx, pid, model.ProductAvailable); err != nil {
			warnings = append(warnings, fmt.Sprintf("listing %d was not returned to available", pid))
		}
	}
	return warnings
}
