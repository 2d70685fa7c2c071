package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/delmargolf/club/internal/auth"
	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/middleware"
	"github.com/delmargolf/club/internal/photos"
	"github.com/delmargolf/club/internal/store"
	"github.com/delmargolf/club/internal/websocket"
)

// Deps is everything the routes need.
type Deps struct {
	DB      *gorm.DB
	Store   *store.Store
	Auth    *auth.Authenticator
	Photos  photos.Store // nil when no bucket is configured
	Hub     *websocket.Hub
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

// Register mounts every route on app.
func Register(app *fiber.App, d Deps) {
	// --- Public routes (no auth required) ---
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	app.Post("/api/auth", Login(d.Auth))

	// Scores are entered by the players themselves from the course, so reading games
	// and saving scores needs no login. Only setting games up is admin work.
	api := app.Group("/api/v1")

	// GET  /api/v1/games                  — every game, newest first
	// GET  /api/v1/games/:id              — one game with its groups and members
	// GET  /api/v1/games/:id/leaderboard  — the computed leaderboard
	// PUT  /api/v1/games/:id/scores       — save cells from the score-entry grid
	api.Get("/games", ListGames(d.Store))
	api.Get("/games/:id", GetGame(d.Store))
	api.Get("/games/:id/leaderboard", GetLeaderboard(d.Store, d.Metrics))
	api.Put("/games/:id/scores", SaveScores(d.Store, d.Hub, d.Metrics, d.Log))

	api.Get("/stats", GetStats(d.Store))
	api.Get("/stats/export", ExportStats(d.Store))

	api.Get("/games/:id/photos", ListPhotos(d.Store))
	api.Post("/games/:id/photos", UploadPhoto(d.Store, d.Photos, d.Metrics, d.Log))
	api.Get("/gallery", ListGallery(d.Store))

	// --- Admin routes ---
	// They share the /api/v1 prefix with the public routes, so the auth middleware is
	// attached per route rather than to a group.
	adminOnly := []fiber.Handler{middleware.Auth(d.Auth), middleware.RequireRole(auth.RoleAdmin)}
	api.Post("/games", append(adminOnly, CreateGame(d.Store, d.Log))...)
	api.Patch("/games/:id", append(adminOnly, UpdateGame(d.Store))...)
	api.Delete("/games/:id", append(adminOnly, DeleteGame(d.Store, d.Photos, d.Log))...)
	api.Delete("/photos/:id", append(adminOnly, DeletePhoto(d.Store, d.Photos, d.Log))...)

	// --- Live updates ---
	app.Get("/ws/games/:id", RequireUpgrade, LiveLeaderboard(d.Store, d.Hub, d.Metrics, d.Log))
}
