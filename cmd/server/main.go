package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/LaGGgggg/SkyLibrary/internal/config"
	"github.com/LaGGgggg/SkyLibrary/internal/db"
	"github.com/LaGGgggg/SkyLibrary/internal/event"
	"github.com/LaGGgggg/SkyLibrary/internal/handler"
	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
	"github.com/LaGGgggg/SkyLibrary/internal/router"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
	"github.com/LaGGgggg/SkyLibrary/internal/storage"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "skylibrary-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	store, err := storage.NewS3Client(cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure object storage")
	}

	events := event.NewPublisher(cfg.NATSURL, log.Logger)
	defer events.Close()

	cache := service.NewCacheService(cfg.RedisURL, log.Logger)
	defer cache.Close()

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	mediaRepo := repository.NewMediaRepo(pool)
	tagRepo := repository.NewTagRepo(pool)
	ratingRepo := repository.NewRatingRepo(pool)
	downloadRepo := repository.NewDownloadRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)
	reportRepo := repository.NewReportRepo(pool)
	taskRepo := repository.NewTaskRepo(pool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	mediaSvc := service.NewMediaService(mediaRepo, tagRepo, downloadRepo, store, cache, events)
	ratingSvc := service.NewRatingService(ratingRepo, cache)
	commentSvc := service.NewCommentService(commentRepo, mediaRepo, cache)
	reportSvc := service.NewReportService(reportRepo, mediaRepo, commentRepo, events)
	moderationSvc := service.NewModerationService(taskRepo, mediaRepo, cache, events)
	uploadSvc := service.NewUploadService(store)

	// Background rating reconciliation (LISTEN/NOTIFY driven)
	worker := service.NewRatingWorker(pool, ratingRepo, cache, log.Logger)
	go worker.Start(ctx)

	handler.InitMetrics(pool)

	app := fiber.New(fiber.Config{
		AppName:      "SkyLibrary API",
		ServerHeader: "SkyLibrary",
	})

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Media:      handler.NewMediaHandler(mediaSvc, ratingSvc),
		Comment:    handler.NewCommentHandler(commentSvc),
		Report:     handler.NewReportHandler(reportSvc),
		Moderation: handler.NewModerationHandler(moderationSvc),
		Upload:     handler.NewUploadHandler(uploadSvc),
		Tag:        handler.NewTagHandler(mediaSvc),
		Stats:      handler.NewStatsHandler(mediaSvc),
		Health:     handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, handlers, authSvc, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("SkyLibrary backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
