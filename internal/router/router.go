package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/feed"
	"github.com/anonto42/yatube/backend/internal/handlers"
	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the shared components injected into the handlers.
type Deps struct {
	DB       *gorm.DB
	Pages    *cache.PageCache
	Media    media.Store  // optional
	Firebase *auth.Client // optional
	Sessions *middleware.Sessions
	Log      *logrus.Logger
}

// SetupRoutes migrates the schema, builds the repositories and handlers and
// registers every route on e.
func SetupRoutes(e *echo.Echo, deps Deps) error {
	if err := models.AutoMigrate(deps.DB); err != nil {
		return errors.Wrap(err, "auto migrate models")
	}
	deps.Log.Info("PostgreSQL auto-migrations completed for all models.")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	groupRepo := repositories.NewPostgresGroupRepository(deps.DB)
	postRepo := repositories.NewPostgresPostRepository(deps.DB)
	commentRepo := repositories.NewPostgresCommentRepository(deps.DB)
	followRepo := repositories.NewPostgresFollowRepository(deps.DB)

	engine := feed.NewEngine(postRepo, groupRepo, userRepo, followRepo)

	// A nil *auth.Client must not end up inside a non-nil interface.
	var verifier middleware.IDTokenVerifier
	if deps.Firebase != nil {
		verifier = deps.Firebase
	}

	e.Use(middleware.Authenticate(deps.Sessions, userRepo, verifier, deps.Log))
	requireLogin := middleware.RequireLogin()

	e.GET("/health", handlers.HealthCheck)
	handlers.RegisterAboutRoutes(e)

	authHandler := handlers.NewAuthHandler(userRepo, deps.Sessions, verifier, deps.Log)
	authHandler.RegisterAuthRoutes(e.Group("/auth"))

	adminHandler := handlers.NewAdminHandler(groupRepo, deps.Pages)
	adminHandler.RegisterAdminRoutes(e.Group("/admin", middleware.RequireAdmin()))

	handlers.NewMediaHandler(deps.Media).RegisterMediaRoutes(e)
	handlers.NewFeedHandler(engine, deps.Pages).RegisterFeedRoutes(e, requireLogin)
	handlers.NewPostHandler(postRepo, groupRepo, commentRepo, deps.Media).RegisterPostRoutes(e, requireLogin)
	handlers.NewCommentHandler(commentRepo, postRepo).RegisterCommentRoutes(e, requireLogin)
	handlers.NewFollowHandler(engine, userRepo).RegisterFollowRoutes(e, requireLogin)
	handlers.NewProfileHandler(engine).RegisterProfileRoutes(e)

	deps.Log.Info("All routes configured.")
	return nil
}
