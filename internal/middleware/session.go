// Package middleware provides reusable HTTP middleware: operator session
// authentication, Redis-backed rate limiting and response caching.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/utils"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and injects the principal into the request context under
// "principal". The provided secret must match the one used when issuing
// tokens. Wrap the admin route group with it.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			principal, err := utils.VerifySession(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("principal", principal)
			return next(c)
		}
	}
}
