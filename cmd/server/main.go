// cmd/server/main.go
// This is the entry point for the club leaderboard server.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds executable
// binaries, and internal/ holds packages that are not meant to be imported by other projects.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	// cors allows the browser front end to call the API from another origin
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration)
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/delmargolf/club/internal/auth"
	"github.com/delmargolf/club/internal/config"
	"github.com/delmargolf/club/internal/database"
	"github.com/delmargolf/club/internal/handlers"
	"github.com/delmargolf/club/internal/logging"
	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/photos"
	"github.com/delmargolf/club/internal/store"
	"github.com/delmargolf/club/internal/websocket"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	// A missing password or signing secret stops startup here.
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "production")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.Env)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run any pending SQL migration files so the schema is always in sync on startup.
	if err := database.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Photo storage is optional; without a bucket the upload endpoint answers 503.
	var photoStore photos.Store
	if cfg.PhotosEnabled() {
		s3, err := photos.NewS3(ctx, cfg.PhotoBucket, cfg.PhotoBaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up photo storage")
		}
		photoStore = s3
	} else {
		log.Warn().Msg("PHOTO_BUCKET not set; photo uploads disabled")
	}

	// The Hub manages all live WebSocket connections: players watching the leaderboard.
	// "go hub.Run(ctx)" runs it in the background until shutdown.
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	app := fiber.New(fiber.Config{
		AppName:      "Golf Club Leaderboard",
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    handlers.MaxPhotoSize + 1<<20,
	})

	// --- Global middleware ---
	app.Use(logger.New())
	app.Use(cors.New())

	handlers.Register(app, handlers.Deps{
		DB:      db,
		Store:   store.New(db),
		Auth:    auth.New(cfg.AdminPassword, cfg.JWTSecret, cfg.TokenTTL),
		Photos:  photoStore,
		Hub:     hub,
		Metrics: metrics.New(),
		Log:     log,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	stopHub()
}
