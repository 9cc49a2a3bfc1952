package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterAboutRoutes registers the static pages.
func RegisterAboutRoutes(e *echo.Echo) {
	e.GET("/about/author", AboutAuthor)
	e.GET("/about/tech", AboutTech)
}

func AboutAuthor(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title": "About the author",
		"text":  "Yatube is a small blogging platform for sharing posts, organizing them into groups and following other authors.",
	})
}

func AboutTech(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title": "Technologies",
		"stack": []string{"Go", "Echo", "GORM", "PostgreSQL", "MongoDB GridFS", "Redis", "Badger", "Firebase Auth"},
	})
}
