package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/LaGGgggg/SkyLibrary/internal/handler"
	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Media      *handler.MediaHandler
	Comment    *handler.CommentHandler
	Report     *handler.ReportHandler
	Moderation *handler.ModerationHandler
	Upload     *handler.UploadHandler
	Tag        *handler.TagHandler
	Stats      *handler.StatsHandler
	Health     *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, auth *service.AuthService, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	requireAuth := middleware.RequireAuth(auth)
	requireModerator := middleware.RequireModerator()

	searchLimit := middleware.NewSearchRateLimiter().Handler()
	writeLimit := middleware.NewWriteRateLimiter().Handler()
	uploadLimit := middleware.NewUploadRateLimiter().Handler()
	authLimit := middleware.NewAuthRateLimiter().Handler()

	// Probes and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	// Auth routes
	api.Post("/auth/register", h.Auth.Register, authLimit)
	api.Post("/auth/login", h.Auth.Login, authLimit)

	// Media catalog routes
	api.Get("/media", h.Media.Search, searchLimit)
	api.Post("/media", h.Media.Create, requireAuth)
	api.Get("/media/:mediaId", h.Media.Get)
	api.Put("/media/:mediaId", h.Media.Update, requireAuth)
	api.Post("/media/:mediaId/download", h.Media.Download, requireAuth)
	api.Post("/media/:mediaId/rating", h.Media.Rate, requireAuth, writeLimit)

	// Comment routes
	api.Get("/media/:mediaId/comments", h.Comment.Thread)
	api.Post("/comments", h.Comment.Create, requireAuth, writeLimit)
	api.Get("/comments/:commentId/replies", h.Comment.Replies)
	api.Post("/comments/:commentId/vote", h.Comment.Vote, requireAuth, writeLimit)

	// Report routes
	api.Post("/reports", h.Report.Create, requireAuth, writeLimit)
	api.Get("/reports/types", h.Report.ListTypes)
	api.Post("/reports/types", h.Report.CreateType, requireAuth, requireModerator)

	// Tag routes
	api.Get("/tags", h.Tag.List)
	api.Post("/tags", h.Tag.Create, requireAuth, requireModerator)

	// Moderation routes
	api.Get("/moderation/task", h.Moderation.Task, requireAuth, requireModerator)
	api.Post("/moderation/decision", h.Moderation.Decide, requireAuth, requireModerator)

	// Upload routes (multipart lifecycle)
	api.Post("/uploads", h.Upload.Create, requireAuth, uploadLimit)
	api.Post("/uploads/cover", h.Upload.CoverURL, requireAuth, uploadLimit)
	api.Get("/uploads/:uploadId/parts/:partNumber", h.Upload.PartURL, requireAuth)
	api.Post("/uploads/:uploadId/complete", h.Upload.Complete, requireAuth)
	api.Delete("/uploads/:uploadId", h.Upload.Abort, requireAuth)

	// Stats routes
	api.Get("/stats", h.Stats.GetStats)
}
