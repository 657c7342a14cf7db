package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/studyplan-api/api/swagger"
	"github.com/noah-isme/studyplan-api/internal/handler"
	"github.com/noah-isme/studyplan-api/internal/learner"
	"github.com/noah-isme/studyplan-api/internal/middleware"
	"github.com/noah-isme/studyplan-api/internal/repository"
	"github.com/noah-isme/studyplan-api/internal/service"
	"github.com/noah-isme/studyplan-api/internal/store"
	"github.com/noah-isme/studyplan-api/pkg/cache"
	"github.com/noah-isme/studyplan-api/pkg/config"
	"github.com/noah-isme/studyplan-api/pkg/database"
	"github.com/noah-isme/studyplan-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studyplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studyplan-api/pkg/middleware/requestid"
	"github.com/noah-isme/studyplan-api/pkg/storage"
)

// @title Study Plan API
// @version 0.1.0
// @description Calendar-aware adaptive study block scheduler
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional. Without it the plan cache degrades to a no-op and
	// every request regenerates the schedule.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule caching disabled", "error", err)
		redisClient = nil
	}

	localStorage, err := storage.NewLocalStorage(cfg.Store.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare state directory", "error", err)
	}

	prefStore := store.NewPreferenceStore(localStorage, cfg.Store.PreferencesFile, logr)
	feedbackStore := store.NewFeedbackStore(localStorage, cfg.Store.FeedbackFile, logr)

	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	scheduleSvc := service.NewScheduleService(taskRepo, eventRepo, cacheRepo, prefStore, cfg.Scheduler, validate, logr)
	calendarSvc := service.NewCalendarService(eventRepo, cfg.Calendars.URLs, logr)
	exportSvc := service.NewExportService(scheduleSvc, logr)
	preferenceSvc := service.NewPreferenceService(prefStore, scheduleSvc, validate, logr)
	adaptationSvc := service.NewAdaptationService(feedbackStore, prefStore, learner.New(logr), scheduleSvc, cfg.Learning, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adaptationSvc.Start(ctx)
	defer adaptationSvc.Stop()

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, calendarSvc, exportSvc, metricsSvc)
	feedbackHandler := handler.NewFeedbackHandler(adaptationSvc, metricsSvc)
	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/schedule", scheduleHandler.GetSchedule)
		api.GET("/calendars", scheduleHandler.GetCalendars)
		if cfg.Exports.Enabled {
			api.GET("/schedule/export", scheduleHandler.ExportSchedule)
		}
		api.POST("/feedback", feedbackHandler.PostFeedback)
		api.POST("/learning/run", feedbackHandler.RunLearning)
		api.GET("/preferences", preferenceHandler.GetPreferences)
		api.PUT("/preferences", preferenceHandler.PutPreferences)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
