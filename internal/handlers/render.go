package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/paginator"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// pageBody is the envelope of every list response.
func pageBody[T any](data echo.Map, page *paginator.Page[T]) echo.Map {
	return echo.Map{
		"success": true,
		"data":    data,
		"meta":    page.Meta(),
	}
}

func renderPage[T any](c echo.Context, data echo.Map, page *paginator.Page[T]) error {
	return c.JSON(http.StatusOK, pageBody(data, page))
}

// marshalPage renders a list response to bytes so it can be cached.
func marshalPage[T any](data echo.Map, page *paginator.Page[T]) ([]byte, error) {
	body, err := json.Marshal(pageBody(data, page))
	if err != nil {
		return nil, errors.Wrap(err, "marshal page")
	}
	return body, nil
}

func renderData(c echo.Context, data echo.Map) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// renderForm re-displays a form. Errors are empty for a blank form.
func renderForm(c echo.Context, status int, form interface{}, errs validators.FieldErrors, extra echo.Map) error {
	if errs == nil {
		errs = validators.FieldErrors{}
	}
	data := echo.Map{"form": form, "errors": errs}
	for k, v := range extra {
		data[k] = v
	}
	return c.JSON(status, echo.Map{"success": len(errs) == 0, "data": data})
}

// bindForm binds and validates a submitted form. Field errors are returned
// separately from failures that should abort the request.
func bindForm(c echo.Context, form interface{}) (validators.FieldErrors, error) {
	if err := c.Bind(form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(form); err != nil {
		var fieldErrs validators.FieldErrors
		if errors.As(err, &fieldErrs) {
			return fieldErrs, nil
		}
		return nil, err
	}
	return validators.FieldErrors{}, nil
}

// storeError maps repository errors to HTTP errors.
func storeError(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	}
	return err
}

func postURL(post *models.Post) string {
	return "/" + post.Author.Username + "/" + strconv.FormatUint(uint64(post.ID), 10)
}

func profileURL(username string) string {
	return "/" + username
}

// lookupPost loads the post addressed by /:username/:post_id. A post that
// belongs to another author is reported as missing.
func lookupPost(c echo.Context, posts repositories.PostRepository) (*models.Post, error) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	post, err := posts.GetPostByID(c.Request().Context(), uint(id))
	if err != nil {
		return nil, storeError(err, "Post")
	}
	if post.Author.Username != c.Param("username") {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return post, nil
}

// safeNext returns target when it is a local path, otherwise fallback.
func safeNext(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}
	return fallback
}
