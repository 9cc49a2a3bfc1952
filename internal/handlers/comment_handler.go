package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/:username/:post_id/comment", h.CommentForm, requireLogin)
	e.POST("/:username/:post_id/comment", h.CreateComment, requireLogin)
	e.POST("/:username/:post_id/comment/:id/delete", h.DeleteComment, requireLogin)
}

// CommentForm renders an empty comment form for the post.
func (h *CommentHandler) CommentForm(c echo.Context) error {
	post, err := lookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	return renderForm(c, http.StatusOK, models.CommentForm{}, nil, echo.Map{"post": post})
}

// CreateComment adds a comment by the current user and returns to the post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	post, err := lookupPost(c, h.postRepository)
	if err != nil {
		return err
	}

	var form models.CommentForm
	errs, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return renderForm(c, http.StatusOK, form, errs, echo.Map{"post": post})
	}

	if _, err := h.commentRepository.CreateComment(c.Request().Context(), form.Text, post.ID, middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, postURL(post))
}

// DeleteComment removes a comment. The comment author and the post author
// may delete it; other users are sent back to the post.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := lookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	for _, comment := range comments {
		if comment.ID != uint(id) {
			continue
		}
		if comment.AuthorID != user.ID && post.AuthorID != user.ID {
			return c.Redirect(http.StatusFound, postURL(post))
		}
		if err := h.commentRepository.DeleteComment(ctx, comment.ID); err != nil {
			return storeError(err, "Comment")
		}
		return c.Redirect(http.StatusFound, postURL(post))
	}
	return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
}
