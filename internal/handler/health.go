package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness plus which order store backs the process, so an
// operator can tell at a glance whether orders survive a restart.
func Health(storageMode string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "storage": storageMode})
	}
}
