package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

func invokeWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec.Code
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	mw := RequireRole(model.RoleSeller)
	if code := invokeWithRole(t, mw, "seller"); code != http.StatusOK {
		t.Fatalf("seller should pass, got %d", code)
	}
	if code := invokeWithRole(t, mw, "buyer"); code != http.StatusForbidden {
		t.Fatalf("buyer should be rejected, got %d", code)
	}
}

func TestRequireRoleAdminAlwaysPasses(t *testing.T) {
	mw := RequireRole(model.RoleSeller)
	if code := invokeWithRole(t, mw, "admin"); code != http.StatusOK {
		t.Fatalf("admin should pass every role gate, got %d", code)
	}
}

func TestRequireRoleUnknownDegradesToBuyer(t *testing.T) {
	mw := RequireRole(model.RoleBuyer)
	if code := invokeWithRole(t, mw, "superuser"); code != http.StatusOK {
		t.Fatalf("unknown role degrades to buyer and buyer is allowed, got %d", code)
	}
	mwSeller := RequireRole(model.RoleSeller)
	if code := invokeWithRole(t, mwSeller, nil); code != http.StatusForbidden {
		t.Fatalf("missing role must not pass a seller gate, got %d", code)
	}
}
