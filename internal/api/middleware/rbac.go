package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petbnb/marketplace/internal/api/handler"
)

// RBAC rejects callers whose role is not in allowedRoles before the handler
// runs. The core services repeat the check, so this is only an early exit.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
