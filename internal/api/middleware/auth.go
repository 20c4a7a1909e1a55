package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// Context keys set by Auth and read by handlers and RBAC.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextName   = "name"
)

// TokenCookie is the HttpOnly cookie the auth endpoints issue.
const TokenCookie = "token"

// Auth validates the JWT from the Authorization header or the token cookie
// and injects the caller identity into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFrom(c)
			if err != nil {
				return err
			}

			claims := jwt.MapClaims{}
			tkn, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			roleClaim, _ := claims["role"].(string)
			role, ok := domain.ParseRole(roleClaim)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "unknown role")
			}
			name, _ := claims["name"].(string)

			c.Set(ContextUserID, sub)
			c.Set(ContextRole, role)
			c.Set(ContextName, name)

			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", echo.NewHTTPError(http.StatusUnauthorized, "login first to access this resource")
}
