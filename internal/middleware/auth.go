package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"omshree-backend/internal/service"
)

const (
	ctxUserID  = "user_id"
	ctxIsAdmin = "is_admin"
)

// JWT validates the bearer token and stores the caller's identity on the
// echo context.
func JWT(users service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := users.ParseToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}

// RequireAdmin gates a route group on the admin claim. Must run after JWT.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if admin, ok := c.Get(ctxIsAdmin).(bool); !ok || !admin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, zero when unauthenticated.
func UserID(c echo.Context) uint {
	id, _ := c.Get(ctxUserID).(uint)
	return id
}
