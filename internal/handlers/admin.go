package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const msgSlugTaken = "Group with this Slug already exists."

// AdminHandler exposes the administrator-only operations.
type AdminHandler struct {
	groupRepository repositories.GroupRepository
	pages           *cache.PageCache
}

func NewAdminHandler(groupRepo repositories.GroupRepository, pages *cache.PageCache) *AdminHandler {
	return &AdminHandler{groupRepository: groupRepo, pages: pages}
}

// RegisterAdminRoutes registers admin routes on a group already guarded by
// an admin check.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/groups", h.ListGroups)
	g.POST("/groups", h.CreateGroup)
	g.POST("/cache/flush", h.FlushCache)
}

func (h *AdminHandler) ListGroups(c echo.Context) error {
	groups, err := h.groupRepository.ListGroups(c.Request().Context())
	if err != nil {
		return err
	}
	return renderData(c, echo.Map{"groups": groups})
}

// CreateGroup adds a group and redirects to its feed.
func (h *AdminHandler) CreateGroup(c echo.Context) error {
	var req models.CreateGroupRequest
	errs, err := bindForm(c, &req)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return renderForm(c, http.StatusOK, req, errs, nil)
	}

	group := &models.Group{Title: req.Title, Slug: req.Slug, Description: req.Description}
	if err := h.groupRepository.CreateGroup(c.Request().Context(), group); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return renderForm(c, http.StatusOK, req, validators.FieldErrors{"slug": msgSlugTaken}, nil)
		}
		return err
	}
	return c.Redirect(http.StatusFound, "/group/"+group.Slug)
}

// FlushCache drops every cached page.
func (h *AdminHandler) FlushCache(c echo.Context) error {
	if err := h.pages.Flush(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
