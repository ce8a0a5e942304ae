package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skilltrack/certification-service/internal/cache"
	"github.com/skilltrack/certification-service/internal/config"
	"github.com/skilltrack/certification-service/internal/handlers"
	"github.com/skilltrack/certification-service/internal/jobs"
	"github.com/skilltrack/certification-service/internal/repositories/postgres"
	"github.com/skilltrack/certification-service/internal/services"
	"github.com/skilltrack/certification-service/internal/utils"
	"github.com/skilltrack/certification-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NoopCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	gradeService := services.NewGradeService(repo, cacheService, slogger)
	notificationService := services.NewNotificationEventService(repo, publisher, slogger)
	certificateService := services.NewCertificateService(repo, gradeService, notificationService, slogger)
	progressService := services.NewProgressService(repo, certificateService, gradeService, slogger)
	streakService := services.NewStreakService(repo, slogger)
	reportService := services.NewReportService(repo, gradeService, slogger, validator)
	publicationService := services.NewPublicationService(repo, certificateService, gradeService, notificationService, slogger)

	reconciler := jobs.NewVisibilityReconciler(certificateService, slogger, cfg.ReconcileSchedule)
	if cfg.ReconcileSchedule != "" {
		if err := reconciler.Start(); err != nil {
			logger.Error("Failed to start visibility reconciler", "error", err)
			os.Exit(1)
		}
		defer reconciler.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		certificateService,
		gradeService,
		progressService,
		streakService,
		reportService,
		publicationService,
		logger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
