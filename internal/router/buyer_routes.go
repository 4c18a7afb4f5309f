package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/handler"
	"github.com/Znarfieeee/Numsthrift/internal/middleware"
	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// RegisterBuyer registers cart, checkout, order and profile endpoints. Any
// authenticated role may use them; sellers shop like buyers do.
func RegisterBuyer(e *echo.Echo, cart *handler.CartHandler, co *handler.CheckoutHandler, orders *handler.OrderHandler, profile *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuyer, model.RoleSeller),
	)

	g.GET("/cart", cart.List)
	g.POST("/cart", cart.Add)
	g.PATCH("/cart/:id", cart.UpdateQuantity)
	g.DELETE("/cart/:id", cart.Remove)

	g.POST("/checkout", co.PlaceOrder)

	g.GET("/orders", orders.List)
	g.GET("/orders/:id", orders.Get)
	g.PATCH("/orders/:id/status", orders.UpdateStatus)

	g.GET("/profile", profile.Get)
	g.PATCH("/profile", profile.Update)
	g.PUT("/profile/password", profile.ChangePassword)
}
