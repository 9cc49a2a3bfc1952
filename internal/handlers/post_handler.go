package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	msgInvalidChoice  = "Select a valid choice."
	msgInvalidImage   = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooLarge  = "The image is too large. Upload a file of at most 5 MB."
	msgNoImageStorage = "Image uploads are not available."
)

// PostHandler handles creating, viewing and editing posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	groupRepository   repositories.GroupRepository
	commentRepository repositories.CommentRepository
	media             media.Store
}

// NewPostHandler creates a new PostHandler. store may be nil, in which case
// image uploads are rejected as a form error.
func NewPostHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	store media.Store,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		media:             store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/new", h.NewPostForm, requireLogin)
	e.POST("/new", h.CreatePost, requireLogin)
	e.GET("/:username/:post_id", h.GetPost)
	e.GET("/:username/:post_id/edit", h.EditPostForm, requireLogin)
	e.POST("/:username/:post_id/edit", h.UpdatePost, requireLogin)
}

// NewPostForm renders an empty post form
func (h *PostHandler) NewPostForm(c echo.Context) error {
	return h.renderPostForm(c, models.PostForm{}, nil, nil)
}

// CreatePost validates the form and publishes the post as the current user.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var form models.PostForm
	draft, errs, err := h.cleanPost(c, &form)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return h.renderPostForm(c, form, errs, nil)
	}

	if _, err := h.postRepository.CreatePost(c.Request().Context(), draft, middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// GetPost returns a post with its comments and an empty comment form.
func (h *PostHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := lookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	comments, err := h.commentRepository.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return err
	}
	postCount, err := h.postRepository.CountPosts(ctx, repositories.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return err
	}
	return renderData(c, echo.Map{
		"post":       post,
		"author":     post.Author.ToCompact(),
		"post_count": postCount,
		"comments":   comments,
		"form":       models.CommentForm{},
	})
}

// EditPostForm renders the post form filled with the current values.
func (h *PostHandler) EditPostForm(c echo.Context) error {
	post, err := lookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	if post.AuthorID != middleware.CurrentUser(c).ID {
		return c.Redirect(http.StatusFound, postURL(post))
	}

	form := models.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return h.renderPostForm(c, form, nil, post)
}

// UpdatePost replaces the text, group and image of a post. Only the author
// may edit; anyone else is sent back to the post.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	post, err := lookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	if post.AuthorID != middleware.CurrentUser(c).ID {
		return c.Redirect(http.StatusFound, postURL(post))
	}

	var form models.PostForm
	draft, errs, err := h.cleanPost(c, &form)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return h.renderPostForm(c, form, errs, post)
	}
	if draft.Image == "" {
		draft = draft.WithImage(post.Image)
	}

	if _, err := h.postRepository.UpdatePost(c.Request().Context(), post.ID, draft); err != nil {
		return storeError(err, "Post")
	}
	return c.Redirect(http.StatusFound, postURL(post))
}

func (h *PostHandler) renderPostForm(c echo.Context, form models.PostForm, errs validators.FieldErrors, post *models.Post) error {
	groups, err := h.groupRepository.ListGroups(c.Request().Context())
	if err != nil {
		return err
	}
	extra := echo.Map{"groups": groups, "is_edit": post != nil}
	if post != nil {
		extra["post"] = post
	}
	return renderForm(c, http.StatusOK, form, errs, extra)
}

// cleanPost binds the submitted form and turns it into a draft. The image is
// only stored once the rest of the form is valid.
func (h *PostHandler) cleanPost(c echo.Context, form *models.PostForm) (models.PostDraft, validators.FieldErrors, error) {
	errs, err := bindForm(c, form)
	if err != nil {
		return models.PostDraft{}, nil, err
	}

	draft := models.PostDraft{Text: form.Text}
	if _, bad := errs["group"]; form.Group != "" && !bad {
		groupID, err := h.cleanGroup(c, form.Group)
		if err != nil {
			return models.PostDraft{}, nil, err
		}
		if groupID == nil {
			errs.Add("group", msgInvalidChoice)
		}
		draft.GroupID = groupID
	}
	if len(errs) > 0 {
		return draft, errs, nil
	}

	ref, msg, err := h.saveImage(c)
	if err != nil {
		return models.PostDraft{}, nil, err
	}
	if msg != "" {
		errs.Add("image", msg)
		return draft, errs, nil
	}
	return draft.WithImage(ref), errs, nil
}

// cleanGroup resolves a submitted group id. nil means no such group.
func (h *PostHandler) cleanGroup(c echo.Context, raw string) (*uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, nil
	}
	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), uint(id))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// saveImage stores the optional "image" upload. It returns the media
// reference, or a field error message when the upload is rejected.
func (h *PostHandler) saveImage(c echo.Context) (string, string, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", "", nil
	}
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}
	if h.media == nil {
		return "", msgNoImageStorage, nil
	}
	if header.Size > media.MaxImageSize {
		return "", msgImageTooLarge, nil
	}

	file, err := header.Open()
	if err != nil {
		return "", "", errors.Wrap(err, "open upload")
	}
	defer file.Close()

	ref, err := h.media.Save(c.Request().Context(), header.Filename, file)
	switch {
	case errors.Is(err, media.ErrNotAnImage):
		return "", msgInvalidImage, nil
	case errors.Is(err, media.ErrTooLarge):
		return "", msgImageTooLarge, nil
	}
	if err != nil {
		return "", "", err
	}
	return ref, "", nil
}
