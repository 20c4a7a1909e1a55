package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("role (%s) is not allowed to access this resource", role))
			}
			return next(c)
		}
	}
}
