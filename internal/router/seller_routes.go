package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/handler"
	"github.com/Znarfieeee/Numsthrift/internal/middleware"
	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// RegisterSeller registers the listing management endpoints under
// /v1/seller. The seller role is required; admins pass implicitly.
func RegisterSeller(e *echo.Echo, h *handler.SellerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/seller",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSeller),
	)

	g.GET("/products", h.ListMine)
	g.POST("/products", h.Create)
	g.PUT("/products/:id", h.Update)
	g.DELETE("/products/:id", h.Delete)
}
