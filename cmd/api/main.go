package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hostelops/hostel-desk-api/api/swagger"
	"github.com/hostelops/hostel-desk-api/internal/handler"
	"github.com/hostelops/hostel-desk-api/internal/middleware"
	"github.com/hostelops/hostel-desk-api/internal/models"
	"github.com/hostelops/hostel-desk-api/internal/repository"
	"github.com/hostelops/hostel-desk-api/internal/service"
	"github.com/hostelops/hostel-desk-api/pkg/cache"
	"github.com/hostelops/hostel-desk-api/pkg/config"
	"github.com/hostelops/hostel-desk-api/pkg/database"
	"github.com/hostelops/hostel-desk-api/pkg/jobs"
	"github.com/hostelops/hostel-desk-api/pkg/logger"
	corsmiddleware "github.com/hostelops/hostel-desk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hostelops/hostel-desk-api/pkg/middleware/requestid"
	"github.com/hostelops/hostel-desk-api/pkg/storage"
)

// @title Hostel Desk API
// @version 1.0.0
// @description Hostel complaint and apology desk backend
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, metric caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	apologyRepo := repository.NewApologyRepository(db)
	presetRepo := repository.NewPresetRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "hostel-desk-api",
	})

	statsSvc := service.NewStatsService(complaintRepo, apologyRepo, cacheSvc, logr, service.StatsServiceConfig{
		CacheTTL:    cfg.Stats.CacheTTL,
		TrendMonths: cfg.Stats.TrendMonths,
	})

	attachmentStore, err := storage.NewLocalStorage(cfg.Attachments.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init attachment storage", "error", err)
	}
	attachmentSigner := storage.NewSignedURLSigner(cfg.Attachments.SignedURLSecret, cfg.Attachments.SignedURLTTL)

	complaintSvc := service.NewComplaintService(complaintRepo, attachmentStore, attachmentSigner, statsSvc, nil, logr, service.ComplaintServiceConfig{
		MaxFileSizeBytes: cfg.Attachments.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Attachments.AllowedMIMEs,
		APIPrefix:        cfg.APIPrefix,
	})
	apologySvc := service.NewApologyService(apologyRepo, statsSvc, nil, logr)
	presetSvc := service.NewPresetService(presetRepo, nil, logr)
	importSvc := service.NewImportService(complaintRepo, apologyRepo, statsSvc, logr)

	reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	reportSigner := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(complaintRepo, apologyRepo, reportStore, reportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr)

	reportWorker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, cfg.Reports.WorkerRetries, logr)
	reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportSvc := service.NewReportService(reportRepo, reportQueue, exportSvc, nil, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})

	if cfg.Reports.Enabled {
		reportQueue.Start(ctx)
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	complaintHandler := handler.NewComplaintHandler(complaintSvc, exportSvc)
	apologyHandler := handler.NewApologyHandler(apologySvc, exportSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	presetHandler := handler.NewPresetHandler(presetSvc)
	importHandler := handler.NewImportHandler(importSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(cfg.APIPrefix)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	// Signed download links carry their own authentication.
	v1.GET("/export/:token", reportHandler.Download)
	v1.GET("/attachments/:token", complaintHandler.DownloadAttachment)

	admin := v1.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleWarden))
	{
		admin.GET("/complaints", complaintHandler.List)
		admin.GET("/complaints/export", complaintHandler.Export)
		admin.GET("/complaints/:id", complaintHandler.Get)
		admin.PUT("/complaints/:id/status", complaintHandler.UpdateStatus)

		admin.GET("/apologies", apologyHandler.List)
		admin.GET("/apologies/export", apologyHandler.Export)
		admin.GET("/apologies/:id", apologyHandler.Get)
		admin.PUT("/apologies/:id/review", apologyHandler.Review)

		if cfg.Reports.Enabled {
			admin.POST("/reports", reportHandler.Create)
			admin.GET("/reports/:id", reportHandler.Status)
		}

		admin.POST("/import/complaints", importHandler.Complaints)
		admin.POST("/import/apologies", importHandler.Apologies)
	}

	// Dashboard cards read these directly; the server pre-aggregates.
	dashboard := v1.Group("/metrics", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleWarden))
	{
		dashboard.GET("/status-summary", statsHandler.StatusSummary)
		dashboard.GET("/resolution-rate", statsHandler.ResolutionRate)
		dashboard.GET("/pending-count", statsHandler.PendingCount)
		dashboard.GET("/monthly-trend", statsHandler.Trend)
	}

	student := v1.Group("/student", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/complaints", complaintHandler.ListMine)
		student.POST("/complaints", complaintHandler.Create)
		student.GET("/apologies", apologyHandler.ListMine)
		student.POST("/apologies", apologyHandler.Create)
	}

	presets := v1.Group("/presets", middleware.JWT(authSvc))
	{
		presets.GET("", presetHandler.List)
		presets.PUT("", presetHandler.Save)
		presets.DELETE("/:id", presetHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	if cfg.Reports.Enabled {
		reportQueue.Stop()
	}
	if redisClient != nil {
		_ = cacheRepo.Close()
	}
}
