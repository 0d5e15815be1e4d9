package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/repository"
)

// PublicHandler serves the storefront catalogue: the current price table and
// the marketing gallery. Both routes are read-only and cacheable.
type PublicHandler struct {
	Settings repository.SettingsStore
	Gallery  repository.GalleryStore
}

func NewPublicHandler(settings repository.SettingsStore, gallery repository.GalleryStore) *PublicHandler {
	return &PublicHandler{Settings: settings, Gallery: gallery}
}

// Sizes returns the standard-size price table the storefront renders.
func (h *PublicHandler) Sizes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	table, err := h.Settings.PriceTable(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// GalleryImages lists the marketing gallery, newest first.
func (h *PublicHandler) GalleryImages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	images, err := h.Gallery.ListImages(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images})
}
