package middleware

// identity.go holds helpers shared across middleware files: extracting a
// stable user identifier for cache and rate-limit keys. Unauthenticated
// requests key as "guest".

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// requestUserID returns a string identifier for the authenticated user, or
// "guest" when the request carries no usable identity. JWT numeric claims
// arrive as float64, so the value is formatted rather than type-asserted.
func requestUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	}
	return "guest"
}
