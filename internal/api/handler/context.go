package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// Context keys written by the Auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// ctxIdentity extracts the caller injected by the Auth middleware and fails
// fast when the middleware did not run or the token lacked a subject.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, _ := c.Get(CtxUserID).(string)
	role, _ := c.Get(CtxRole).(string)
	if id == "" || role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Identity{ID: id, Role: role}, nil
}
