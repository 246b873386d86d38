package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/chgu-campus/dorm-api/api/swagger"
	"github.com/chgu-campus/dorm-api/internal/handler"
	"github.com/chgu-campus/dorm-api/internal/middleware"
	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/repository"
	"github.com/chgu-campus/dorm-api/internal/service"
	"github.com/chgu-campus/dorm-api/pkg/cache"
	"github.com/chgu-campus/dorm-api/pkg/config"
	"github.com/chgu-campus/dorm-api/pkg/database"
	"github.com/chgu-campus/dorm-api/pkg/logger"
	corsmiddleware "github.com/chgu-campus/dorm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/chgu-campus/dorm-api/pkg/middleware/requestid"
)

// @title Dormitory Management API
// @version 1.0.0
// @description Request lifecycle, classification and occupancy tracking for the campus dormitory
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Cache is an accelerator, not a dependency; the dashboard
		// degrades to direct queries when Redis is unreachable.
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	requestSvc := service.NewRequestService(requestRepo, userRepo, cacheSvc, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, cacheSvc, logr)
	dashboardSvc := service.NewDashboardService(userRepo, requestRepo, roomRepo, cacheSvc, logr, cfg.Dashboard.CacheTTL)
	reportSvc := service.NewReportService(requestRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	requests := api.Group("/requests", middleware.JWT(authSvc))
	requests.POST("/classify", requestHandler.Classify)
	requests.POST("", middleware.RequireRoles(models.RoleStudent), requestHandler.Create)
	requests.GET("/my", middleware.RequireRoles(models.RoleStudent), requestHandler.ListMine)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/requests", requestHandler.List)
	admin.PUT("/requests/:id/status", requestHandler.UpdateStatus)
	admin.PUT("/requests/:id/comment", requestHandler.SaveComment)
	admin.GET("/rooms", roomHandler.List)
	admin.PUT("/rooms/:id/status", roomHandler.UpdateStatus)
	if cfg.Dashboard.Enabled {
		admin.GET("/dashboard", dashboardHandler.Summary)
	}
	if cfg.Reports.Enabled {
		admin.GET("/reports/requests", reportHandler.Requests)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
