package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// RequireRole enforces that the authenticated caller holds one of the given
// roles. The role claim is normalized through model.ParseRole, so a missing
// or unknown role degrades to buyer rather than being compared as a free
// string. Admin is always allowed: admin capability implies every other
// role's capability.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string)
			role := model.ParseRole(raw)
			if !allowed[role] && !role.IsAdmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
