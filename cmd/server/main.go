package main

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/handlers"
	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/router"
	"github.com/anonto42/yatube/backend/internal/validators"
	"github.com/anonto42/yatube/backend/pkg/config"
	"github.com/anonto42/yatube/backend/pkg/firebase"
	"github.com/anonto42/yatube/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New("yatube", cfg.Env, cfg.LogLevel)

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	ctx := context.Background()

	deps := router.Deps{
		DB:       db.Postgres,
		Sessions: middleware.NewSessions(cfg.JWTSecret, cfg.SessionTTL),
		Log:      log,
	}

	// Firebase is optional; without it only local accounts can log in.
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Firebase")
		}
		deps.Firebase = firebaseApp.AuthClient
	}

	store, closeStore, err := config.InitCacheStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize cache store")
	}
	defer closeStore()
	deps.Pages = cache.NewPageCache(store, cfg.CacheTTL, log)

	if db.Mongo != nil {
		images, err := media.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase))
		if err != nil {
			log.WithError(err).Fatal("Failed to open image store")
		}
		deps.Media = images
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(log)

	// Setup global middleware
	config.SetupMiddleware(e, log)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, deps); err != nil {
		log.WithError(err).Fatal("Failed to set up routes")
	}

	log.WithField("port", cfg.Port).Info("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
