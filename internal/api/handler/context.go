package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobbee/jobboard-api/internal/api/middleware"
	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// ctxActor extracts the caller identity injected by the Auth middleware and
// fails fast before any service call when it is missing or malformed.
func ctxActor(c echo.Context) (ports.Actor, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(domain.Role)
	if id == "" || !role.Valid() {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get(middleware.ContextName).(string)
	return ports.Actor{ID: id, Name: name, Role: role}, nil
}
