package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler renders error pages. Unexpected errors are logged and
// replaced with a generic message.
func HTTPErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if code < http.StatusInternalServerError {
				if m, ok := he.Message.(string); ok {
					message = m
				} else {
					message = http.StatusText(code)
				}
			}
		}
		if code >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("request failed")
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, echo.Map{
				"success": false,
				"path":    c.Request().URL.Path,
				"error":   message,
			})
		}
		if respErr != nil {
			log.WithError(respErr).Warn("failed to write error response")
		}
	}
}
