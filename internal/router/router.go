// Package router registers the API surface on an Echo instance. Routes are
// grouped by audience: public storefront, authenticated buyers, sellers and
// admins.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/handler"
	"github.com/Znarfieeee/Numsthrift/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication: the health
// check and the static file mount for uploaded listing images.
func RegisterRoutes(e *echo.Echo, uploadDir, publicBaseURL string) {
	e.GET("/healthz", handler.Health)
	// uploaded images are served straight from disk
	e.Static(publicBaseURL, uploadDir)
}

// RegisterAuth registers the /v1/auth endpoints and the authenticated /v1/me
// endpoint. Login and register may carry a rate limiter so credential
// stuffing is throttled per client.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public storefront endpoints. The optional
// cache middleware serves repeated browses from Redis.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/categories", h.ListCategories)
	g.GET("/products", h.Browse)
	g.GET("/products/:id", h.GetProduct)
}
