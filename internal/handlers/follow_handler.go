package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/feed"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow requests
type FollowHandler struct {
	engine         *feed.Engine
	userRepository repositories.UserRepository
}

func NewFollowHandler(engine *feed.Engine, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{engine: engine, userRepository: userRepo}
}

// RegisterFollowRoutes registers follow-related routes. Both verbs are
// accepted so plain links work.
func (h *FollowHandler) RegisterFollowRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		e.Add(method, "/:username/follow", h.FollowUser, requireLogin)
		e.Add(method, "/:username/unfollow", h.UnfollowUser, requireLogin)
	}
}

// FollowUser makes the current user follow the author and returns to the
// author's profile.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return storeError(err, "Author")
	}
	if err := h.engine.Follow(ctx, middleware.CurrentUser(c), author); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, profileURL(author.Username))
}

// UnfollowUser removes the follow edge if present.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return storeError(err, "Author")
	}
	if err := h.engine.Unfollow(ctx, middleware.CurrentUser(c), author); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, profileURL(author.Username))
}
