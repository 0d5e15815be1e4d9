// Package handler contains the HTTP endpoints of the poster storefront:
// public checkout and catalogue routes, the bKash payment hooks and the
// token-protected admin surface.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/pricing"
	"github.com/paperpatch/poster-store/internal/repository"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// writeErr maps domain errors to HTTP responses. Validation problems are the
// caller's fault, unknown transitions are conflicts, anything else is a 500.
func writeErr(c echo.Context, err error) error {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "status change not allowed"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
