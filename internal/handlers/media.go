package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MediaHandler streams stored post images.
type MediaHandler struct {
	store media.Store
}

func NewMediaHandler(store media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET("/media/:id", h.GetImage)
}

func (h *MediaHandler) GetImage(c echo.Context) error {
	if h.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	obj, err := h.store.Open(c.Request().Context(), c.Param("id"))
	if errors.Is(err, media.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	if err != nil {
		return err
	}
	defer obj.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, obj.ContentType, obj)
}
