package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

// AdminHandler serves the admin dashboard: user management, listing removal
// and platform statistics. Every route sits behind RequireRole(admin).
type AdminHandler struct {
	Users    *repository.UserRepo
	Products *repository.ProductRepo
	Orders   *repository.OrderRepo
	RDB      *redis.Client
}

func NewAdminHandler(u *repository.UserRepo, p *repository.ProductRepo, o *repository.OrderRepo, rdb *redis.Client) *AdminHandler {
	if u == nil || p == nil || o == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: u, Products: p, Orders: o, RDB: rdb}
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": users})
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateUserRole handles PATCH /v1/admin/users/:id/role. An admin cannot
// demote themselves, which keeps at least this admin account functional.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	raw := strings.ToLower(strings.TrimSpace(req.Role))
	if raw != string(model.RoleBuyer) && raw != string(model.RoleSeller) && raw != string(model.RoleAdmin) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be buyer, seller or admin"})
	}
	role := model.Role(raw)
	if id == uid && role != model.RoleAdmin {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot demote your own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	dropProfile(ctx, h.RDB, id)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

// DeleteProduct handles DELETE /v1/admin/products/:id, removing any listing
// regardless of owner.
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	if err := h.Products.Delete(c.Request().Context(), id, uid, true); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete listing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/admin/stats and reports headline platform counts.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	byRole, err := h.Users.CountByRole(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user stats failed"})
	}
	products, err := h.Products.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product stats failed"})
	}
	orders, err := h.Orders.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order stats failed"})
	}

	total := 0
	for _, n := range byRole {
		total += n
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":         total,
		"users_by_role": byRole,
		"products":      products,
		"orders":        orders,
	})
}
