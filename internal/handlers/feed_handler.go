package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/feed"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/paginator"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the global, group and following feeds.
type FeedHandler struct {
	engine *feed.Engine
	pages  *cache.PageCache
}

func NewFeedHandler(engine *feed.Engine, pages *cache.PageCache) *FeedHandler {
	return &FeedHandler{engine: engine, pages: pages}
}

// RegisterFeedRoutes registers the feed routes. requireLogin guards the
// personalized feed.
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/", h.Index)
	e.GET("/group/:slug", h.GroupPosts)
	e.GET("/follow", h.FollowIndex, requireLogin)
}

// Index returns a page of the global feed. Rendered pages are cached per
// page number for the cache window.
func (h *FeedHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	number := paginator.ParsePageNumber(c.QueryParam("page"))

	body, err := h.pages.Fetch(ctx, cache.Key("index", number), func() ([]byte, error) {
		page, err := paginator.New(h.engine.Global(), paginator.PageSize).Page(ctx, number)
		if err != nil {
			return nil, err
		}
		return marshalPage(echo.Map{"posts": page.Items}, page)
	})
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GroupPosts returns a page of the group feed.
func (h *FeedHandler) GroupPosts(c echo.Context) error {
	ctx := c.Request().Context()
	group, posts, err := h.engine.Group(ctx, c.Param("slug"))
	if err != nil {
		return storeError(err, "Group")
	}
	page, err := paginator.New(posts, paginator.PageSize).GetPage(ctx, c.QueryParam("page"))
	if err != nil {
		return err
	}
	return renderPage(c, echo.Map{"group": group, "posts": page.Items}, page)
}

// FollowIndex returns a page of posts by the authors the user follows.
func (h *FeedHandler) FollowIndex(c echo.Context) error {
	user := middleware.CurrentUser(c)
	page, err := paginator.New(h.engine.Following(user), paginator.PageSize).GetPage(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return renderPage(c, echo.Map{"posts": page.Items}, page)
}
