package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/repository"
	"github.com/paperpatch/poster-store/internal/storage"
)

// GalleryHandler manages the marketing gallery from the admin console.
type GalleryHandler struct {
	Gallery repository.GalleryStore
	Images  storage.ImageStore
}

func NewGalleryHandler(gallery repository.GalleryStore, images storage.ImageStore) *GalleryHandler {
	return &GalleryHandler{Gallery: gallery, Images: images}
}

type addImageReq struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	ImageData string `json:"image_data"`
}

// Add stores a gallery entry. The image arrives either as an already hosted
// URL or as a base64 payload that gets written to the upload store.
func (h *GalleryHandler) Add(c echo.Context) error {
	var req addImageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.URL == "" && req.ImageData == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url or image_data required"})
	}

	url := req.URL
	if url == "" {
		saved, err := h.Images.SaveImage("gallery", req.ImageData)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not store image"})
		}
		url = saved
	}

	img := &model.GalleryImage{Title: req.Title, URL: url, CreatedAt: time.Now().UTC()}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Gallery.AddImage(ctx, img); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, img)
}

// Delete removes a gallery entry. The underlying file is left in place.
func (h *GalleryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Gallery.DeleteImage(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
