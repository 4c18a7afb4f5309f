package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/handler"
	"github.com/Znarfieeee/Numsthrift/internal/middleware"
	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// RegisterAdmin registers the dashboard endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", h.ListUsers)
	g.PATCH("/users/:id/role", h.UpdateUserRole)
	g.DELETE("/products/:id", h.DeleteProduct)
	g.GET("/stats", h.Stats)
}
