package handlers

import (
	"github.com/anonto42/yatube/backend/internal/feed"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/paginator"
	"github.com/labstack/echo/v4"
)

// ProfileHandler serves an author's profile page.
type ProfileHandler struct {
	engine *feed.Engine
}

func NewProfileHandler(engine *feed.Engine) *ProfileHandler {
	return &ProfileHandler{engine: engine}
}

// RegisterProfileRoutes registers the profile route. Static single-segment
// routes take precedence over it; signup refuses those names as usernames.
func (h *ProfileHandler) RegisterProfileRoutes(e *echo.Echo) {
	e.GET("/:username", h.Profile)
}

// Profile returns a page of the author's posts along with the follow state
// of the requesting user.
func (h *ProfileHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.engine.Author(ctx, c.Param("username"), middleware.CurrentUser(c))
	if err != nil {
		return storeError(err, "Author")
	}
	page, err := paginator.New(author.Posts, paginator.PageSize).GetPage(ctx, c.QueryParam("page"))
	if err != nil {
		return err
	}
	return renderPage(c, echo.Map{
		"author":        author.Author.ToCompact(),
		"posts":         page.Items,
		"post_count":    page.TotalItems,
		"has_followers": author.HasFollowers,
		"followers":     author.FollowerCount,
		"following":     author.ViewerFollows,
	}, page)
}
